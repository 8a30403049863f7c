package tui

import (
	"time"

	"github.com/existflow/taskboard/internal/form"
	"github.com/existflow/taskboard/internal/model"
	"github.com/existflow/taskboard/internal/presenter"
	"github.com/existflow/taskboard/internal/view"
)

// panel holds what one collection tab currently shows
type panel[T any] struct {
	loading     bool
	items       []T
	placeholder *presenter.Placeholder
	count       int
	cursor      int

	// stale rows predate the last tab switch and are not trusted until
	// the next result arrives
	stale bool
}

func (p *panel[T]) SetLoading(loading bool) { p.loading = loading }
func (p *panel[T]) SetCount(n int)          { p.count = n }

func (p *panel[T]) ShowItems(items []T) {
	p.items = items
	p.placeholder = nil
	p.stale = false
	if p.cursor >= len(items) {
		p.cursor = max(len(items)-1, 0)
	}
}

func (p *panel[T]) ShowPlaceholder(ph presenter.Placeholder) {
	p.items = nil
	p.placeholder = &ph
	p.cursor = 0
	p.stale = false
}

// hidden reports whether rows should be withheld while a reload is pending
func (p *panel[T]) hidden() bool {
	return p.loading && p.stale
}

func (p *panel[T]) move(delta int) {
	if len(p.items) == 0 {
		return
	}
	p.cursor = min(max(p.cursor+delta, 0), len(p.items)-1)
}

func (p *panel[T]) selected() (T, bool) {
	var zero T
	if p.hidden() || p.cursor < 0 || p.cursor >= len(p.items) {
		return zero, false
	}
	return p.items[p.cursor], true
}

func (p *panel[T]) clear() {
	*p = panel[T]{}
}

// confirmation is a pending yes/no prompt
type confirmation struct {
	msg   string
	onYes func()
}

// surface is the state every binding writes into. It is only touched from
// Update, which is also where loop continuations run.
type surface struct {
	screen   view.Screen
	authForm form.ID
	authMsg  string
	authKind view.MessageKind

	user model.User
	tab  view.Tab
	open form.ID // visible create form, empty when none

	forms         map[form.ID]*inputGroup
	tasks         panel[model.Task]
	notifications panel[model.Notification]

	detail  *presenter.Detail
	alerts  []string
	confirm *confirmation

	notice   string
	noticeAt time.Time
	now      func() time.Time
}

func newSurface() *surface {
	return &surface{
		screen:   view.ScreenAuth,
		authForm: form.Login,
		tab:      view.TabTasks,
		forms:    newInputGroups(),
		now:      time.Now,
	}
}

// ScreenView

func (s *surface) ShowAuth(f form.ID) {
	s.screen = view.ScreenAuth
	s.authForm = f
	s.user = model.User{}
	s.open = ""
	s.detail = nil
	s.confirm = nil
	s.tasks.clear()
	s.notifications.clear()
	s.forms[f].focusOn(0)
}

func (s *surface) ShowDashboard(sess model.Session) {
	s.screen = view.ScreenDashboard
	s.user = sess.User()
	s.tasks.clear()
	s.notifications.clear()
	s.forms[s.authForm].reset()
}

func (s *surface) ShowTab(tab view.Tab) {
	s.tab = tab
	s.detail = nil
	switch tab {
	case view.TabTasks:
		s.tasks.stale = true
	case view.TabNotifications:
		s.notifications.stale = true
	}
}

func (s *surface) ShowAuthMessage(msg string, kind view.MessageKind) {
	s.authMsg = clean(msg)
	s.authKind = kind
}

func (s *surface) ClearAuthMessage() { s.authMsg = "" }

func (s *surface) ResetForms() {
	for _, g := range s.forms {
		g.reset()
	}
	s.open = ""
}

func (s *surface) SetFormVisible(id form.ID, visible bool) {
	switch {
	case visible:
		s.open = id
		s.forms[id].focusOn(0)
	case s.open == id:
		s.open = ""
	}
}

func (s *surface) Notify(msg string) {
	s.notice = clean(msg)
	s.noticeAt = s.now()
}

// DetailView

func (s *surface) ShowDetail(d presenter.Detail) { s.detail = &d }
func (s *surface) CloseDetail()                  { s.detail = nil }

// Prompter

func (s *surface) Alert(msg string) { s.alerts = append(s.alerts, clean(msg)) }

func (s *surface) Confirm(msg string, onYes func()) {
	s.confirm = &confirmation{msg: clean(msg), onYes: onYes}
}

// form.Source

func (s *surface) Values(id form.ID) form.Fields {
	g, ok := s.forms[id]
	if !ok {
		return form.Fields{}
	}
	return g.values()
}

func (s *surface) Reset(id form.ID) {
	if g, ok := s.forms[id]; ok {
		g.reset()
	}
}

func (s *surface) TaskList() presenter.ListView[model.Task] { return &s.tasks }
func (s *surface) NotificationList() presenter.ListView[model.Notification] {
	return &s.notifications
}

// activeForm is the group currently receiving keystrokes, if any
func (s *surface) activeForm() (form.ID, *inputGroup) {
	if s.screen == view.ScreenAuth {
		return s.authForm, s.forms[s.authForm]
	}
	if s.open != "" {
		return s.open, s.forms[s.open]
	}
	return "", nil
}

// noticeVisible reports whether the transient notice is still fresh
func (s *surface) noticeVisible() bool {
	return s.notice != "" && s.now().Sub(s.noticeAt) < noticeTTL
}

const noticeTTL = 5 * time.Second
