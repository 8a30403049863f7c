package markup

import (
	"github.com/existflow/taskboard/internal/model"
	"github.com/existflow/taskboard/internal/presenter"
)

// Panel is a presenter.ListView that renders into an HTML string
type Panel[T any] struct {
	rows    func([]T) (string, error)
	html    string
	err     error
	loading bool
	count   int
}

// NewTaskPanel returns a panel rendering task rows
func NewTaskPanel() *Panel[model.Task] {
	return &Panel[model.Task]{rows: TaskRows}
}

// NewNotificationPanel returns a panel rendering notification rows
func NewNotificationPanel() *Panel[model.Notification] {
	return &Panel[model.Notification]{rows: NotificationRows}
}

func (p *Panel[T]) SetLoading(loading bool) { p.loading = loading }

func (p *Panel[T]) ShowItems(items []T) {
	p.html, p.err = p.rows(items)
}

func (p *Panel[T]) ShowPlaceholder(ph presenter.Placeholder) {
	p.html, p.err = Placeholder(ph)
}

func (p *Panel[T]) SetCount(n int) { p.count = n }

// HTML returns the last rendered fragment
func (p *Panel[T]) HTML() (string, error) {
	return p.html, p.err
}

// Loading reports whether a refresh is outstanding
func (p *Panel[T]) Loading() bool { return p.loading }

// Count returns the last published badge value
func (p *Panel[T]) Count() int { return p.count }
