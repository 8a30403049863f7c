package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/existflow/taskboard/internal/config"
	"github.com/existflow/taskboard/internal/event"
	"github.com/existflow/taskboard/internal/form"
	"github.com/existflow/taskboard/internal/model"
	"github.com/existflow/taskboard/internal/presenter"
	"github.com/existflow/taskboard/internal/session"
	"github.com/existflow/taskboard/internal/stub"
	"github.com/existflow/taskboard/internal/view"
)

type list[T any] struct {
	loading      bool
	items        [][]T
	placeholders []presenter.Placeholder
	count        int
}

func (l *list[T]) SetLoading(b bool)                       { l.loading = b }
func (l *list[T]) ShowItems(items []T)                     { l.items = append(l.items, items) }
func (l *list[T]) ShowPlaceholder(p presenter.Placeholder) { l.placeholders = append(l.placeholders, p) }
func (l *list[T]) SetCount(n int)                          { l.count = n }

// surface records everything the app renders
type surface struct {
	screens       []string
	authMessages  []string
	notices       []string
	alerts        []string
	details       []presenter.Detail
	values        map[form.ID]form.Fields
	tasks         list[model.Task]
	notifications list[model.Notification]
}

func newSurface() *surface {
	return &surface{values: map[form.ID]form.Fields{}}
}

func (s *surface) ShowAuth(f form.ID)                           { s.screens = append(s.screens, "auth:"+string(f)) }
func (s *surface) ShowDashboard(sess model.Session)             { s.screens = append(s.screens, "dashboard") }
func (s *surface) ShowTab(view.Tab)                             {}
func (s *surface) ShowAuthMessage(m string, _ view.MessageKind) { s.authMessages = append(s.authMessages, m) }
func (s *surface) ClearAuthMessage()                            {}
func (s *surface) ResetForms()                                  { s.values = map[form.ID]form.Fields{} }
func (s *surface) SetFormVisible(form.ID, bool)                 {}
func (s *surface) Notify(msg string)                            { s.notices = append(s.notices, msg) }
func (s *surface) ShowDetail(d presenter.Detail)                { s.details = append(s.details, d) }
func (s *surface) CloseDetail()                                 {}
func (s *surface) Alert(msg string)                             { s.alerts = append(s.alerts, msg) }
func (s *surface) Confirm(_ string, onYes func())               { onYes() }
func (s *surface) Values(id form.ID) form.Fields                { return s.values[id] }
func (s *surface) Reset(id form.ID)                             { delete(s.values, id) }

func (s *surface) TaskList() presenter.ListView[model.Task] { return &s.tasks }
func (s *surface) NotificationList() presenter.ListView[model.Notification] {
	return &s.notifications
}

type env struct {
	stub    *stub.Stub
	surface *surface
	storage *session.MemoryStorage
	app     *App
}

func newEnv(t *testing.T, mutate func(*config.Config)) *env {
	t.Helper()
	st := stub.New(stub.Options{BcryptCost: bcrypt.MinCost, RequireAuth: true})
	srv := httptest.NewServer(st.Handler())
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.AuthServiceURL = srv.URL + stub.Prefix
	cfg.TaskServiceURL = srv.URL + stub.Prefix
	cfg.NotificationServiceURL = srv.URL + stub.Prefix
	cfg.RequestTimeoutSec = 5
	if mutate != nil {
		mutate(cfg)
	}

	e := &env{stub: st, surface: newSurface(), storage: session.NewMemoryStorage()}
	a, err := New(cfg, Deps{Surface: e.surface, Storage: e.storage})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	e.app = a
	return e
}

func (e *env) step(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := e.app.Loop.Next(ctx)
		cancel()
		require.NoError(t, err)
	}
}

func (e *env) signup(t *testing.T) model.Session {
	t.Helper()
	e.app.Start(context.Background())
	e.step(t, 1)

	require.NoError(t, e.app.Dispatch(event.SwitchAuthForm{Form: "signup"}))
	e.surface.values[form.Signup] = form.Fields{
		form.FieldFirstName: "A", form.FieldLastName: "B", form.FieldEmail: "a@b.com", form.FieldPassword: "x",
	}
	require.NoError(t, e.app.Dispatch(event.Submit{Form: "signup"}))
	e.step(t, 3) // auth response, then both refreshes

	sess := e.app.Sessions.Current()
	require.NotNil(t, sess)
	return *sess
}

func TestSignupOpensDashboardAndPersists(t *testing.T) {
	e := newEnv(t, nil)
	sess := e.signup(t)

	st := e.app.View.State()
	assert.Equal(t, view.ScreenDashboard, st.ActiveScreen)
	assert.Equal(t, view.TabTasks, st.ActiveTab)
	assert.Equal(t, []string{"auth:login", "auth:signup", "dashboard"}, e.surface.screens)

	restored := session.NewStore(e.storage, nil).Restore(context.Background())
	require.NotNil(t, restored)
	assert.Equal(t, sess, *restored)
	assert.Equal(t, "A", restored.FirstName)
	assert.NotEmpty(t, restored.Token)

	// both panels loaded and empty
	require.Len(t, e.surface.tasks.placeholders, 1)
	assert.Equal(t, presenter.PlaceholderEmpty, e.surface.tasks.placeholders[0].Kind)
	assert.Zero(t, e.surface.notifications.count)
}

func TestRestartRestoresSessionWithoutReauth(t *testing.T) {
	e := newEnv(t, nil)
	e.signup(t)

	again, err := New(e.app.cfg, Deps{Surface: newSurface(), Storage: e.storage})
	require.NoError(t, err)
	defer again.Close()

	again.Start(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, again.Loop.Next(ctx))

	assert.Equal(t, view.ScreenDashboard, again.View.State().ActiveScreen)
}

func TestCreateTaskSurvivesCompanionFailure(t *testing.T) {
	e := newEnv(t, nil)
	sess := e.signup(t)
	e.stub.FailNotifications(true)

	require.NoError(t, e.app.Dispatch(event.ToggleForm{Form: "create-task"}))
	e.surface.values[form.CreateTask] = form.Fields{form.FieldTitle: "Ship it"}
	require.NoError(t, e.app.Dispatch(event.Submit{Form: "create-task"}))
	e.step(t, 3) // create, then task and notification refreshes
	e.app.Loop.Wait()

	assert.Empty(t, e.surface.alerts)
	assert.Equal(t, []string{"Task created"}, e.surface.notices)

	require.NotEmpty(t, e.surface.tasks.items)
	latest := e.surface.tasks.items[len(e.surface.tasks.items)-1]
	require.Len(t, latest, 1)
	assert.Equal(t, "Ship it", latest[0].Title)

	assert.Empty(t, e.stub.Notifications(sess.UserID))
	assert.False(t, e.app.View.State().FormVisibility[form.CreateTask])
}

func TestCreateTaskAddsCompanionNotification(t *testing.T) {
	e := newEnv(t, nil)
	sess := e.signup(t)

	e.surface.values[form.CreateTask] = form.Fields{form.FieldTitle: "Ship it"}
	require.NoError(t, e.app.Dispatch(event.Submit{Form: "create-task"}))
	e.step(t, 3)
	e.app.Loop.Wait()

	list := e.stub.Notifications(sess.UserID)
	require.Len(t, list, 1)
	assert.Equal(t, "New Task Created", list[0].Title)
}

func TestEmptyAndFailedNotificationPlaceholders(t *testing.T) {
	e := newEnv(t, nil)
	e.signup(t)
	require.NoError(t, e.app.Dispatch(event.SwitchTab{Tab: "notifications"}))
	e.step(t, 1)

	require.NotEmpty(t, e.surface.notifications.placeholders)
	empty := e.surface.notifications.placeholders[len(e.surface.notifications.placeholders)-1]

	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	f := newEnv(t, func(c *config.Config) { c.NotificationServiceURL = deadURL + stub.Prefix })
	f.signup(t)
	require.NoError(t, f.app.Dispatch(event.SwitchTab{Tab: "notifications"}))
	f.step(t, 1)

	require.NotEmpty(t, f.surface.notifications.placeholders)
	failed := f.surface.notifications.placeholders[len(f.surface.notifications.placeholders)-1]

	assert.Equal(t, presenter.PlaceholderEmpty, empty.Kind)
	assert.Equal(t, presenter.PlaceholderError, failed.Kind)
	assert.NotEqual(t, empty.Title, failed.Title)
	assert.Contains(t, failed.Hint, deadURL)
}

func TestLogoutDiscardsInFlightRefresh(t *testing.T) {
	e := newEnv(t, nil)
	e.signup(t)

	release := e.stub.Hold(http.MethodGet, "/users/:user_id/tasks")
	require.NoError(t, e.app.Dispatch(event.RefreshTab{Tab: "tasks"}))

	require.NoError(t, e.app.Dispatch(event.Logout{}))
	rendered := len(e.surface.tasks.items) + len(e.surface.tasks.placeholders)
	assert.Empty(t, e.surface.tasks.items[len(e.surface.tasks.items)-1], "logout blanks the panel")
	assert.Zero(t, e.surface.tasks.count)

	release()
	e.step(t, 1)

	assert.Equal(t, rendered, len(e.surface.tasks.items)+len(e.surface.tasks.placeholders))
	assert.Equal(t, view.ScreenAuth, e.app.View.State().ActiveScreen)
	assert.Nil(t, session.NewStore(e.storage, nil).Restore(context.Background()))
}

func TestNotificationActionsThroughBus(t *testing.T) {
	e := newEnv(t, nil)
	sess := e.signup(t)
	require.NoError(t, e.app.Dispatch(event.SwitchTab{Tab: "notifications"}))
	e.step(t, 1)

	e.surface.values[form.CreateNotification] = form.Fields{
		form.FieldTitle: "Ping", form.FieldMessage: "<b>hi</b>", form.FieldData: `{"k": 1}`,
	}
	require.NoError(t, e.app.Dispatch(event.Submit{Form: "create-notification"}))
	e.step(t, 2)

	list := e.stub.Notifications(sess.UserID)
	require.Len(t, list, 1)
	id := list[0].ID
	assert.Equal(t, 1, e.surface.notifications.count)

	require.NoError(t, e.app.Dispatch(event.SelectNotification{ID: id}))
	e.step(t, 1)
	require.Len(t, e.surface.details, 1)
	assert.True(t, e.surface.details[0].CanMarkRead)

	require.NoError(t, e.app.Dispatch(event.MarkRead{ID: id}))
	e.step(t, 2)
	assert.Zero(t, e.surface.notifications.count)

	require.NoError(t, e.app.Dispatch(event.DeleteNotification{ID: id}))
	e.step(t, 2)
	assert.Empty(t, e.stub.Notifications(sess.UserID))
	assert.Empty(t, e.surface.alerts)
}

func TestDispatchRejectsUnknownTab(t *testing.T) {
	e := newEnv(t, nil)
	assert.Error(t, e.app.Dispatch(event.SwitchTab{Tab: "settings"}))
	assert.ErrorIs(t, e.app.Dispatch(event.SwitchTab{Tab: "tasks"}), view.ErrNotOnDashboard)
}
