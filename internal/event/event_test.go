package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestLoop_PostRunsInOrder(t *testing.T) {
	l := NewLoop(nil)
	defer l.Close()

	var got []int
	for i := 1; i <= 3; i++ {
		i := i
		l.Post(func() { got = append(got, i) })
	}
	assert.Empty(t, got, "Post must not run inline")

	ctx := stepCtx(t)
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Next(ctx))
	}
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestLoop_GoPostsContinuation(t *testing.T) {
	l := NewLoop(nil)
	defer l.Close()

	release := make(chan struct{})
	var result string
	l.Go(func(ctx context.Context) Func {
		<-release
		return func() { result = "done" }
	})

	close(release)
	require.NoError(t, l.Next(stepCtx(t)))
	assert.Equal(t, "done", result)
}

func TestLoop_SpawnNeverReachesQueue(t *testing.T) {
	l := NewLoop(nil)
	defer l.Close()

	l.Spawn("failing", func(ctx context.Context) error { return errors.New("boom") })
	l.Wait()

	select {
	case <-l.Events():
		t.Fatal("spawned task must not post to the loop")
	default:
	}
}

func TestLoop_NextHonoursContext(t *testing.T) {
	l := NewLoop(nil)
	defer l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, l.Next(ctx), context.Canceled)
}

func TestLoop_CloseCancelsWork(t *testing.T) {
	l := NewLoop(nil)

	seen := make(chan error, 1)
	l.Go(func(ctx context.Context) Func {
		<-ctx.Done()
		seen <- ctx.Err()
		return func() {}
	})
	l.Close()
	l.Wait()

	assert.ErrorIs(t, <-seen, context.Canceled)
}

func TestEpoch(t *testing.T) {
	var e Epoch
	tok := e.Current()
	assert.True(t, e.Valid(tok))

	next := e.Advance()
	assert.False(t, e.Valid(tok))
	assert.True(t, e.Valid(next))
	assert.Equal(t, next, e.Current())
}

func TestBus_Dispatch(t *testing.T) {
	b := NewBus()

	var selected string
	Subscribe(b, func(c SelectNotification) error {
		selected = c.ID
		return nil
	})
	Subscribe(b, func(MarkRead) error { return errors.New("denied") })

	require.NoError(t, b.Dispatch(SelectNotification{ID: "n1"}))
	assert.Equal(t, "n1", selected)

	assert.EqualError(t, b.Dispatch(MarkRead{ID: "n1"}), "denied")
	assert.ErrorIs(t, b.Dispatch(Logout{}), ErrNoHandler)
	assert.ErrorIs(t, b.Dispatch(nil), ErrNoHandler)
}
