package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/taskboard/internal/event"
	"github.com/existflow/taskboard/internal/form"
	"github.com/existflow/taskboard/internal/logger"
	"github.com/existflow/taskboard/internal/view"
)

// tickMsg is sent every second so transient notices expire
type tickMsg time.Time

// loopMsg carries one loop continuation into Update
type loopMsg event.Func

// Init restores the session and starts listening to the loop
func (m Model) Init() tea.Cmd {
	m.app.Start(m.ctx)
	return tea.Batch(tickCmd(), m.listen(), textinput.Blink)
}

func tickCmd() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// listen waits for the next loop continuation
func (m Model) listen() tea.Cmd {
	events := m.app.Loop.Events()
	return func() tea.Msg {
		return loopMsg(<-events)
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loopMsg:
		msg()
		return m, m.listen()

	case tickMsg:
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}

	if _, g := m.s.activeForm(); g != nil {
		return m, g.update(msg)
	}
	return m, nil
}

// handleKey routes a key to whatever currently has focus.
// Modals take precedence over screens.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case len(m.s.alerts) > 0:
		return m.updateAlert(msg)
	case m.s.confirm != nil:
		return m.updateConfirm(msg)
	case m.help:
		m.help = false
		return m, nil
	case m.s.screen == view.ScreenAuth:
		return m.updateAuth(msg)
	case m.s.open != "":
		return m.updateForm(msg)
	case m.s.detail != nil:
		return m.updateDetail(msg)
	}
	return m.updateDashboard(msg)
}

// dispatch sends a command through the app. Validation failures are
// already shown by the form coordinator.
func (m Model) dispatch(cmd event.Command) {
	if err := m.app.Dispatch(cmd); err != nil && !form.IsValidation(err) {
		m.log.Debug("command rejected", logger.F("error", err))
		m.s.Notify(err.Error())
	}
}

func (m Model) updateAlert(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc", " ":
		m.s.alerts = m.s.alerts[1:]
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Yes):
		c := m.s.confirm
		m.s.confirm = nil
		c.onYes()
	case key.Matches(msg, keys.No):
		m.s.confirm = nil
	}
	return m, nil
}

func (m Model) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id, g := m.s.activeForm()

	switch {
	case key.Matches(msg, keys.SwitchAuth):
		other := form.Signup
		if id == form.Signup {
			other = form.Login
		}
		m.dispatch(event.SwitchAuthForm{Form: string(other)})
		return m, nil

	case key.Matches(msg, keys.Enter):
		if !g.last() {
			return m, g.next()
		}
		m.dispatch(event.Submit{Form: string(id)})
		return m, nil

	case key.Matches(msg, keys.PrevField):
		return m, g.prev()

	case key.Matches(msg, keys.NextField):
		return m, g.next()
	}

	return m, g.update(msg)
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id, g := m.s.activeForm()

	switch {
	case key.Matches(msg, keys.Escape):
		m.dispatch(event.ToggleForm{Form: string(id)})
		return m, nil

	case key.Matches(msg, keys.Enter):
		if !g.last() {
			return m, g.next()
		}
		m.dispatch(event.Submit{Form: string(id)})
		return m, nil

	case key.Matches(msg, keys.PrevField):
		return m, g.prev()

	case key.Matches(msg, keys.NextField):
		return m, g.next()
	}

	return m, g.update(msg)
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.s.detail

	switch {
	case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Enter):
		m.s.CloseDetail()
	case key.Matches(msg, keys.Read):
		if d.CanMarkRead {
			m.dispatch(event.MarkRead{ID: d.Notification.ID})
		}
	case key.Matches(msg, keys.Delete):
		if d.CanDelete {
			m.dispatch(event.DeleteNotification{ID: d.Notification.ID})
		}
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.help = true

	case key.Matches(msg, keys.Tab):
		next := view.TabNotifications
		if m.s.tab == view.TabNotifications {
			next = view.TabTasks
		}
		m.dispatch(event.SwitchTab{Tab: string(next)})

	case key.Matches(msg, keys.Tasks):
		m.dispatch(event.SwitchTab{Tab: string(view.TabTasks)})

	case key.Matches(msg, keys.Notes):
		m.dispatch(event.SwitchTab{Tab: string(view.TabNotifications)})

	case key.Matches(msg, keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, keys.Refresh):
		m.dispatch(event.RefreshTab{Tab: string(m.s.tab)})

	case key.Matches(msg, keys.Logout):
		m.dispatch(event.Logout{})

	case key.Matches(msg, keys.Add):
		id := form.CreateTask
		if m.s.tab == view.TabNotifications {
			id = form.CreateNotification
		}
		m.dispatch(event.ToggleForm{Form: string(id)})

	case key.Matches(msg, keys.Notify):
		m.dispatch(event.ToggleForm{Form: string(form.CreateNotification)})

	case m.s.tab == view.TabNotifications:
		n, ok := m.s.notifications.selected()
		if !ok {
			break
		}
		switch {
		case key.Matches(msg, keys.Enter):
			m.dispatch(event.SelectNotification{ID: n.ID})
		case key.Matches(msg, keys.Read):
			if !n.IsRead() {
				m.dispatch(event.MarkRead{ID: n.ID})
			}
		case key.Matches(msg, keys.Delete):
			m.dispatch(event.DeleteNotification{ID: n.ID})
		}
	}
	return m, nil
}

func (m Model) moveCursor(delta int) {
	if m.s.tab == view.TabNotifications {
		m.s.notifications.move(delta)
		return
	}
	m.s.tasks.move(delta)
}
