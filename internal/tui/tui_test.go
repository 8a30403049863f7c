package tui

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/existflow/taskboard/internal/app"
	"github.com/existflow/taskboard/internal/config"
	"github.com/existflow/taskboard/internal/form"
	"github.com/existflow/taskboard/internal/model"
	"github.com/existflow/taskboard/internal/presenter"
	"github.com/existflow/taskboard/internal/session"
	"github.com/existflow/taskboard/internal/stub"
	"github.com/existflow/taskboard/internal/view"
)

func newTestModel(t *testing.T) (Model, *stub.Stub) {
	t.Helper()
	return newTestModelWithStorage(t, session.NewMemoryStorage())
}

func newTestModelWithStorage(t *testing.T, storage session.Storage) (Model, *stub.Stub) {
	t.Helper()
	st := stub.New(stub.Options{BcryptCost: bcrypt.MinCost, RequireAuth: true})
	srv := httptest.NewServer(st.Handler())
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.AuthServiceURL = srv.URL + stub.Prefix
	cfg.TaskServiceURL = srv.URL + stub.Prefix
	cfg.NotificationServiceURL = srv.URL + stub.Prefix
	cfg.RequestTimeoutSec = 5

	m, err := NewModel(context.Background(), cfg, app.Deps{Storage: storage})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model), st
}

// pump feeds n loop continuations through Update
func pump(t *testing.T, m Model, n int) Model {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case fn := <-m.app.Loop.Events():
			next, _ := m.Update(loopMsg(fn))
			m = next.(Model)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for continuation %d of %d", i+1, n)
		}
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends each key in turn. Plain text is typed as one burst.
func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m
}

func start(t *testing.T, m Model) Model {
	t.Helper()
	m.Init()
	return pump(t, m, 1)
}

func signup(t *testing.T, m Model) Model {
	t.Helper()
	m = start(t, m)
	m = press(m, "ctrl+t", "Ada", "enter", "Lovelace", "enter", "ada@example.com", "enter", "pw", "enter")
	return pump(t, m, 3)
}

func TestStartShowsLogin(t *testing.T) {
	m, _ := newTestModel(t)
	m = start(t, m)

	assert.Equal(t, view.ScreenAuth, m.s.screen)
	assert.Equal(t, form.Login, m.s.authForm)
	assert.Contains(t, m.View(), "Sign in")
}

func TestLoginValidationShowsInlineMessage(t *testing.T) {
	m, _ := newTestModel(t)
	m = start(t, m)

	m = press(m, "enter", "enter")

	assert.Equal(t, view.ScreenAuth, m.s.screen)
	assert.Contains(t, m.s.authMsg, "Please fill in all required fields")

	m = press(m, "ctrl+t")
	assert.Equal(t, form.Signup, m.s.authForm)
	assert.Empty(t, m.s.authMsg, "switching forms clears the message")
}

func TestSignupOpensDashboard(t *testing.T) {
	m, _ := newTestModel(t)
	m = signup(t, m)

	require.Equal(t, view.ScreenDashboard, m.s.screen)
	assert.Equal(t, view.TabTasks, m.s.tab)

	out := m.View()
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "No tasks yet")

	assert.Empty(t, m.s.forms[form.Signup].values().Get(form.FieldPassword), "auth inputs are cleared")
}

func TestCreateTaskFromForm(t *testing.T) {
	m, st := newTestModel(t)
	m = signup(t, m)

	m = press(m, "a")
	require.Equal(t, form.CreateTask, m.s.open)

	m = press(m, "Write report", "enter", "enter", "enter")
	m = pump(t, m, 3)

	assert.Empty(t, m.s.open, "form hides after a successful create")
	require.Len(t, m.s.tasks.items, 1)
	assert.Equal(t, "Write report", m.s.tasks.items[0].Title)
	assert.Equal(t, "Task created", m.s.notice)
	assert.Contains(t, m.View(), "Write report")

	m.app.Loop.Wait()
	assert.Len(t, st.Notifications(m.s.user.ID), 1, "companion notification recorded")
}

func TestCreateTaskFormEscapeCancels(t *testing.T) {
	m, _ := newTestModel(t)
	m = signup(t, m)

	m = press(m, "a", "half typed", "esc")
	assert.Empty(t, m.s.open)

	m = press(m, "a")
	assert.Empty(t, m.s.forms[form.CreateTask].values().Get(form.FieldTitle), "reopening starts blank")
}

func TestNotificationLifecycle(t *testing.T) {
	m, _ := newTestModel(t)
	m = signup(t, m)

	m = press(m, "n")
	require.Equal(t, form.CreateNotification, m.s.open)
	m = press(m, "Heads up", "enter", "Deploy at 5", "enter", "in_app", "enter", `{"env":"prod"}`, "enter")
	m = pump(t, m, 2)

	assert.Equal(t, 1, m.s.notifications.count, "badge counts while tab hidden")
	assert.Empty(t, m.s.notifications.items, "hidden tab does not render")

	m = pump(t, press(m, "2"), 1)
	require.Len(t, m.s.notifications.items, 1)
	assert.Contains(t, m.View(), "Heads up")

	m = pump(t, press(m, "enter"), 1)
	require.NotNil(t, m.s.detail)
	assert.True(t, m.s.detail.CanMarkRead)
	assert.Contains(t, m.View(), "prod")

	m = pump(t, press(m, "r"), 2)
	assert.Nil(t, m.s.detail)
	assert.Zero(t, m.s.notifications.count)
	require.Len(t, m.s.notifications.items, 1)
	assert.True(t, m.s.notifications.items[0].IsRead())

	m = press(m, "d")
	require.NotNil(t, m.s.confirm)
	m = pump(t, press(m, "y"), 2)
	assert.Nil(t, m.s.confirm)
	require.NotNil(t, m.s.notifications.placeholder)
	assert.Equal(t, "No notifications", m.s.notifications.placeholder.Title)
}

func TestDeclinedDeleteKeepsNotification(t *testing.T) {
	m, st := newTestModel(t)
	m = signup(t, m)

	m = press(m, "n", "Keep me", "enter", "body", "enter", "enter", "enter")
	m = pump(t, m, 2)
	m = pump(t, press(m, "2"), 1)

	m = press(m, "d", "n")
	assert.Nil(t, m.s.confirm)
	assert.Len(t, st.Notifications(m.s.user.ID), 1)
}

func TestAlertBlocksUntilDismissed(t *testing.T) {
	m, _ := newTestModel(t)
	m = signup(t, m)

	m = press(m, "a", "enter", "enter", "not-a-date", "enter")
	require.Len(t, m.s.alerts, 1)
	assert.Contains(t, m.View(), "Error")

	m = press(m, "q")
	assert.False(t, m.quitting, "keys other than dismiss are swallowed")

	m = press(m, "enter")
	assert.Empty(t, m.s.alerts)
}

func TestLogoutReturnsToLogin(t *testing.T) {
	m, _ := newTestModel(t)
	m = signup(t, m)

	m = press(m, "L")

	assert.Equal(t, view.ScreenAuth, m.s.screen)
	assert.Equal(t, form.Login, m.s.authForm)
	assert.Empty(t, m.s.tasks.items)
	assert.Nil(t, m.app.Sessions.Current())
}

func TestSessionChangeElsewhereDropsPreviousUsersRows(t *testing.T) {
	storage := session.NewMemoryStorage()
	m, st := newTestModelWithStorage(t, storage)
	m = signup(t, m)

	m = press(m, "a", "Ada secret task", "enter", "enter", "enter")
	m = pump(t, m, 3)
	m.app.Loop.Wait()
	require.Contains(t, m.View(), "Ada secret task")

	ctx := context.Background()
	_, err := st.SeedUser("Bob", "B", "bob@example.com", "pw")
	require.NoError(t, err)
	resp, err := m.app.Gateway.Login(ctx, model.LoginRequest{Email: "bob@example.com", Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, session.NewStore(storage, nil).Save(ctx, model.NewSession(resp)))

	next, _ := m.Update(loopMsg(m.app.View.Resync))
	m = next.(Model)

	out := m.View()
	assert.Contains(t, out, "Bob B")
	assert.NotContains(t, out, "Ada secret task")
	assert.Empty(t, m.s.tasks.items)
	assert.Zero(t, m.s.tasks.count)
	assert.Zero(t, m.s.notifications.count)
	assert.Empty(t, m.s.notifications.items)
	assert.Nil(t, m.app.Tasks.Items())

	m = pump(t, m, 2)
	out = m.View()
	assert.NotContains(t, out, "Ada secret task")
	assert.Contains(t, out, "No tasks yet")
	assert.Zero(t, m.s.notifications.count)
}

func TestTabSwitchHidesRowsUntilReloaded(t *testing.T) {
	s := newSurface()
	s.ShowDashboard(model.Session{UserID: "u1", FirstName: "Ada"})
	s.tasks.ShowItems([]model.Task{{ID: "t1", Title: "kept while refreshing", Status: model.TaskPending}})
	m := Model{s: s, width: 100, height: 30}

	s.tasks.SetLoading(true)
	assert.Contains(t, m.renderTasks(20), "kept while refreshing")
	s.tasks.SetLoading(false)

	s.ShowTab(view.TabNotifications)
	s.ShowTab(view.TabTasks)
	s.tasks.SetLoading(true)
	out := m.renderTasks(20)
	assert.Contains(t, out, "Loading tasks...")
	assert.NotContains(t, out, "kept while refreshing")
	_, ok := s.tasks.selected()
	assert.False(t, ok)

	s.tasks.SetLoading(false)
	s.tasks.ShowItems([]model.Task{{ID: "t2", Title: "fresh", Status: model.TaskPending}})
	assert.Contains(t, m.renderTasks(20), "fresh")
}

func TestRemoteTextIsSanitized(t *testing.T) {
	s := newSurface()
	s.ShowDashboard(model.Session{UserID: "u1", FirstName: "Eve"})
	s.tasks.ShowItems([]model.Task{{ID: "t1", Title: "evil\x1b[2Jtitle\nnext", Status: model.TaskPending}})

	m := Model{s: s, width: 100, height: 30}
	out := m.renderTasks(20)

	assert.NotContains(t, out, "\x1b[2J")
	assert.Contains(t, out, "evil[2Jtitle next")
}

func TestPanelCursor(t *testing.T) {
	var p panel[model.Task]
	p.move(1)
	_, ok := p.selected()
	assert.False(t, ok)

	p.ShowItems([]model.Task{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	p.move(5)
	got, ok := p.selected()
	require.True(t, ok)
	assert.Equal(t, "c", got.ID)

	p.ShowItems([]model.Task{{ID: "a"}})
	got, _ = p.selected()
	assert.Equal(t, "a", got.ID, "cursor clamps when the list shrinks")

	p.ShowPlaceholder(presenter.Placeholder{Kind: presenter.PlaceholderEmpty})
	_, ok = p.selected()
	assert.False(t, ok)
}

func TestWindow(t *testing.T) {
	tests := []struct {
		cursor, n, rows int
		start, end      int
	}{
		{0, 3, 10, 0, 3},
		{0, 20, 5, 0, 5},
		{7, 20, 5, 3, 8},
		{19, 20, 5, 15, 20},
	}
	for _, tt := range tests {
		start, end := window(tt.cursor, tt.n, tt.rows)
		assert.Equal(t, tt.start, start)
		assert.Equal(t, tt.end, end)
	}
}
