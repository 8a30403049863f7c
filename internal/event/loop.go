// Package event provides the single logical UI thread: a loop that runs
// posted continuations one at a time, a generation epoch for discarding
// work that outlived its screen, and a typed command bus.
package event

import (
	"context"
	"sync"

	"github.com/existflow/taskboard/internal/logger"
)

// Func is a continuation executed on the loop
type Func func()

// Loop serializes continuations onto a single consumer.
// Work started with Go runs concurrently; only its continuation is posted back.
type Loop struct {
	queue chan Func
	ctx   context.Context
	stop  context.CancelFunc
	log   *logger.Logger

	wg sync.WaitGroup
}

// NewLoop creates a loop with a buffered queue
func NewLoop(log *logger.Logger) *Loop {
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loop{
		queue: make(chan Func, 256),
		ctx:   ctx,
		stop:  cancel,
		log:   log.Named("loop"),
	}
}

// Post schedules fn on the loop. Post never runs fn inline.
func (l *Loop) Post(fn Func) {
	if fn == nil {
		return
	}
	select {
	case l.queue <- fn:
	case <-l.ctx.Done():
	}
}

// Go runs work on its own goroutine and posts the continuation it returns.
// A nil continuation posts nothing.
func (l *Loop) Go(work func(ctx context.Context) Func) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if next := work(l.ctx); next != nil {
			l.Post(next)
		}
	}()
}

// Spawn starts a detached background task. Its outcome is only logged
// and never reaches the loop.
func (l *Loop) Spawn(name string, task func(ctx context.Context) error) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if err := task(l.ctx); err != nil {
			l.log.Warn("background task failed", logger.F("task", name), logger.F("error", err))
			return
		}
		l.log.Debug("background task done", logger.F("task", name))
	}()
}

// Next runs exactly one queued continuation, blocking until one arrives
func (l *Loop) Next(ctx context.Context) error {
	select {
	case fn := <-l.queue:
		fn()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.ctx.Done():
		return context.Canceled
	}
}

// Run processes continuations until ctx is cancelled or the loop is closed
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := l.Next(ctx); err != nil {
			return err
		}
	}
}

// Events exposes the queue for surfaces that drive their own event loop
func (l *Loop) Events() <-chan Func {
	return l.queue
}

// Wait blocks until every Go and Spawn goroutine has returned
func (l *Loop) Wait() {
	l.wg.Wait()
}

// Close cancels the loop context. Pending work sees a cancelled context
// and its continuations are dropped.
func (l *Loop) Close() {
	l.stop()
}
