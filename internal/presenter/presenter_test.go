package presenter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/taskboard/internal/event"
	"github.com/existflow/taskboard/internal/gateway"
	"github.com/existflow/taskboard/internal/model"
)

type fakeList[T any] struct {
	loading      []bool
	rendered     [][]T
	placeholders []Placeholder
	counts       []int
}

func (f *fakeList[T]) SetLoading(b bool)             { f.loading = append(f.loading, b) }
func (f *fakeList[T]) ShowItems(items []T)           { f.rendered = append(f.rendered, items) }
func (f *fakeList[T]) ShowPlaceholder(p Placeholder) { f.placeholders = append(f.placeholders, p) }
func (f *fakeList[T]) SetCount(n int)                { f.counts = append(f.counts, n) }

type result[T any] struct {
	items []T
	err   error
}

// gatedFetch blocks every fetch until the test releases it, in call order
type gatedFetch[T any] struct {
	started chan struct{}
	gates   []chan result[T]
	n       int
}

func newGatedFetch[T any](calls int) *gatedFetch[T] {
	g := &gatedFetch[T]{started: make(chan struct{}, calls)}
	for i := 0; i < calls; i++ {
		g.gates = append(g.gates, make(chan result[T], 1))
	}
	return g
}

// fetch must only be entered sequentially; tests wait on started between refreshes
func (g *gatedFetch[T]) fetch(ctx context.Context, owner string) ([]T, error) {
	gate := g.gates[g.n]
	g.n++
	g.started <- struct{}{}
	r := <-gate
	return r.items, r.err
}

func (g *gatedFetch[T]) release(i int, items []T, err error) {
	g.gates[i] <- result[T]{items: items, err: err}
}

func step(t *testing.T, loop *event.Loop) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, loop.Next(ctx))
}

func tasks(titles ...string) []model.Task {
	out := make([]model.Task, len(titles))
	for i, title := range titles {
		out[i] = model.Task{ID: title, Title: title}
	}
	return out
}

func newTaskPresenter(t *testing.T, fetch Fetcher[model.Task], visible func() bool) (*Presenter[model.Task], *fakeList[model.Task], *event.Loop, *event.Epoch) {
	t.Helper()
	loop := event.NewLoop(nil)
	t.Cleanup(loop.Close)
	epoch := &event.Epoch{}
	view := &fakeList[model.Task]{}

	p := New(Options[model.Task]{
		Name:    "tasks",
		Fetch:   fetch,
		View:    view,
		Loop:    loop,
		Epoch:   epoch,
		Visible: visible,
		Failure: FailurePlaceholder("tasks", gateway.Tasks, "http://tasks:8082/api/v1"),
	})
	return p, view, loop, epoch
}

func TestPresenter_DiscardsStaleResponse(t *testing.T) {
	g := newGatedFetch[model.Task](2)
	p, view, loop, _ := newTaskPresenter(t, g.fetch, nil)

	p.Refresh("u1")
	<-g.started
	p.Refresh("u1")
	<-g.started

	// R2 answers first
	g.release(1, tasks("fresh"), nil)
	step(t, loop)

	// R1 arrives late
	g.release(0, tasks("stale-1", "stale-2"), nil)
	step(t, loop)

	require.Len(t, view.rendered, 1)
	assert.Equal(t, tasks("fresh"), view.rendered[0])
	assert.Equal(t, []int{1}, view.counts)
	assert.Equal(t, tasks("fresh"), p.Items())
	assert.Equal(t, []bool{true, true, false}, view.loading)
}

func TestPresenter_EmptyAndErrorPlaceholdersDiffer(t *testing.T) {
	g := newGatedFetch[model.Task](2)
	p, view, loop, _ := newTaskPresenter(t, g.fetch, nil)

	p.Refresh("u1")
	<-g.started
	g.release(0, nil, nil)
	step(t, loop)

	p.Refresh("u1")
	<-g.started
	g.release(1, nil, &gateway.Error{Service: gateway.Tasks, Kind: gateway.KindTransport, Message: "cannot reach the task service"})
	step(t, loop)

	require.Len(t, view.placeholders, 2)
	empty, failed := view.placeholders[0], view.placeholders[1]

	assert.Equal(t, PlaceholderEmpty, empty.Kind)
	assert.Equal(t, PlaceholderError, failed.Kind)
	assert.NotEqual(t, empty.Title, failed.Title)
	assert.Equal(t, "cannot reach the task service", failed.Message)
	assert.Contains(t, failed.Hint, "http://tasks:8082/api/v1")
	assert.Empty(t, view.rendered)
}

func TestPresenter_EpochChangeDropsResponse(t *testing.T) {
	g := newGatedFetch[model.Task](1)
	p, view, loop, epoch := newTaskPresenter(t, g.fetch, nil)

	p.Refresh("u1")
	<-g.started

	epoch.Advance() // logout

	g.release(0, tasks("after-logout"), nil)
	step(t, loop)

	assert.Empty(t, view.rendered)
	assert.Empty(t, view.counts)
	assert.Empty(t, view.placeholders)
	assert.Equal(t, []bool{true}, view.loading)
}

func TestPresenter_HiddenPanelUpdatesCountOnly(t *testing.T) {
	g := newGatedFetch[model.Task](1)
	visible := false
	p, view, loop, _ := newTaskPresenter(t, g.fetch, func() bool { return visible })

	p.Refresh("u1")
	<-g.started
	g.release(0, tasks("a", "b"), nil)
	step(t, loop)

	assert.Equal(t, []int{2}, view.counts)
	assert.Empty(t, view.rendered)
	assert.Empty(t, view.placeholders)
}

func TestPresenter_ResetBlanksPanelAndDropsInFlight(t *testing.T) {
	g := newGatedFetch[model.Task](2)
	p, view, loop, _ := newTaskPresenter(t, g.fetch, nil)

	p.Refresh("u1")
	<-g.started
	g.release(0, tasks("ada-1"), nil)
	step(t, loop)
	require.Equal(t, tasks("ada-1"), p.Items())

	p.Refresh("u1")
	<-g.started
	p.Reset()

	assert.Nil(t, p.Items())
	assert.Equal(t, []int{1, 0}, view.counts)
	require.Len(t, view.rendered, 2)
	assert.Empty(t, view.rendered[1])

	g.release(1, tasks("ada-2"), nil)
	step(t, loop)

	assert.Len(t, view.rendered, 2)
	assert.Equal(t, []int{1, 0}, view.counts)
	assert.Nil(t, p.Items())
}

func TestRemediation(t *testing.T) {
	addr := "http://tasks:8082/api/v1"

	assert.Contains(t, remediation(gateway.Tasks, addr, &gateway.Error{Kind: gateway.KindTransport}), "reachable at "+addr)
	assert.Contains(t, remediation(gateway.Tasks, addr, &gateway.Error{Kind: gateway.KindStatus, StatusCode: 401}), "sign in again")
	assert.Contains(t, remediation(gateway.Tasks, addr, &gateway.Error{Kind: gateway.KindStatusNoBody, StatusCode: 503}), "reported a problem")
	assert.Contains(t, remediation(gateway.Tasks, addr, errors.New("x")), "task service")
}
