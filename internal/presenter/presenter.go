// Package presenter owns fetch-and-render for the task and notification
// collections. Responses are rendered only when they answer the latest
// request, belong to the current epoch and target a visible panel.
package presenter

import (
	"context"

	"github.com/existflow/taskboard/internal/event"
	"github.com/existflow/taskboard/internal/logger"
)

// PlaceholderKind distinguishes the two non-list states of a panel
type PlaceholderKind int

const (
	PlaceholderEmpty PlaceholderKind = iota + 1
	PlaceholderError
)

func (k PlaceholderKind) String() string {
	switch k {
	case PlaceholderEmpty:
		return "empty"
	case PlaceholderError:
		return "error"
	default:
		return "unknown"
	}
}

// Placeholder replaces the list when there is nothing to show
type Placeholder struct {
	Kind    PlaceholderKind
	Title   string
	Message string
	Hint    string
}

// ListView is the rendering surface of one collection panel
type ListView[T any] interface {
	SetLoading(loading bool)
	ShowItems(items []T)
	ShowPlaceholder(p Placeholder)
	SetCount(n int)
}

// Fetcher loads the collection owned by ownerID
type Fetcher[T any] func(ctx context.Context, ownerID string) ([]T, error)

// Options configures a Presenter
type Options[T any] struct {
	Name    string // log component, e.g. "tasks"
	Fetch   Fetcher[T]
	View    ListView[T]
	Loop    *event.Loop
	Epoch   *event.Epoch
	Failure func(error) Placeholder
	Logger  *logger.Logger

	// Visible gates list rendering; nil means always visible
	Visible func() bool
	// Count computes the badge value, defaulting to len
	Count func([]T) int
	// Empty is shown for an empty collection
	Empty Placeholder
}

// Presenter refreshes and renders one collection.
// Refresh and Render must be called on the loop.
type Presenter[T any] struct {
	opts Options[T]
	log  *logger.Logger

	seq   uint64
	items []T
}

// New creates a presenter
func New[T any](opts Options[T]) *Presenter[T] {
	if opts.Visible == nil {
		opts.Visible = func() bool { return true }
	}
	if opts.Count == nil {
		opts.Count = func(items []T) int { return len(items) }
	}
	if opts.Empty.Kind == 0 {
		opts.Empty = Placeholder{Kind: PlaceholderEmpty, Title: "Nothing here yet"}
	}
	if opts.Failure == nil {
		opts.Failure = func(err error) Placeholder {
			return Placeholder{Kind: PlaceholderError, Title: "Could not load " + opts.Name, Message: err.Error()}
		}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Presenter[T]{opts: opts, log: log.Named("presenter").WithFields(logger.F("resource", opts.Name))}
}

// Refresh fetches ownerID's collection. Earlier in-flight refreshes are
// not cancelled; their responses are dropped when they arrive.
func (p *Presenter[T]) Refresh(ownerID string) {
	p.seq++
	seq := p.seq
	token := p.opts.Epoch.Current()

	p.opts.View.SetLoading(true)
	p.log.Debug("refresh", logger.F("seq", seq), logger.F("owner", ownerID))

	p.opts.Loop.Go(func(ctx context.Context) event.Func {
		items, err := p.opts.Fetch(ctx, ownerID)
		return func() { p.complete(seq, token, items, err) }
	})
}

func (p *Presenter[T]) complete(seq uint64, token event.Token, items []T, err error) {
	if seq != p.seq {
		p.log.Debug("discarding stale response", logger.F("seq", seq), logger.F("latest", p.seq))
		return
	}
	if !p.opts.Epoch.Valid(token) {
		p.log.Debug("discarding response from previous screen", logger.F("seq", seq))
		return
	}

	p.opts.View.SetLoading(false)

	if err != nil {
		p.log.Warn("refresh failed", logger.F("seq", seq), logger.F("error", err))
		if p.opts.Visible() {
			p.opts.View.ShowPlaceholder(p.opts.Failure(err))
		}
		return
	}

	p.items = items
	p.opts.View.SetCount(p.opts.Count(items))

	if !p.opts.Visible() {
		p.log.Debug("panel hidden, list not rendered", logger.F("seq", seq))
		return
	}
	p.Render(items)
}

// Render shows items, or the empty placeholder for an empty collection
func (p *Presenter[T]) Render(items []T) {
	if len(items) == 0 {
		p.opts.View.ShowPlaceholder(p.opts.Empty)
		return
	}
	p.opts.View.ShowItems(items)
}

// Items returns the last collection accepted by the presenter
func (p *Presenter[T]) Items() []T {
	return p.items
}

// Reset forgets the accepted collection and blanks the panel and badge.
// Responses still in flight are dropped when they arrive.
func (p *Presenter[T]) Reset() {
	p.seq++
	p.items = nil
	p.opts.View.SetLoading(false)
	p.opts.View.SetCount(0)
	p.opts.View.ShowItems(nil)
}
