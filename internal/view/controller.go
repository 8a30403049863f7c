// Package view holds the screen and tab state machine that reconciles the
// session with what is visible and which collections get refreshed.
package view

import (
	"context"
	"errors"

	"github.com/existflow/taskboard/internal/event"
	"github.com/existflow/taskboard/internal/form"
	"github.com/existflow/taskboard/internal/logger"
	"github.com/existflow/taskboard/internal/model"
	"github.com/existflow/taskboard/internal/session"
)

// ErrNotOnDashboard is returned by dashboard-only actions on the auth screen
var ErrNotOnDashboard = errors.New("not on the dashboard")

// Refresher reloads one collection for an owner. Reset drops whatever the
// collection held for the previous session.
type Refresher interface {
	Refresh(ownerID string)
	Reset()
}

// Options configures a Controller
type Options struct {
	View          ScreenView
	Forms         form.Source
	Sessions      *session.Store
	Tasks         Refresher
	Notifications Refresher
	Epoch         *event.Epoch
	Logger        *logger.Logger
}

// Controller owns ViewState. All methods run on the loop.
type Controller struct {
	opts  Options
	log   *logger.Logger
	ctx   context.Context
	state ViewState
}

// NewController creates a controller showing the login form
func NewController(opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{
		opts:  opts,
		log:   log.Named("view"),
		ctx:   context.Background(),
		state: authState(form.Login),
	}
}

// Start restores a persisted session. With one the dashboard opens
// directly; otherwise the login form is shown.
func (c *Controller) Start(ctx context.Context) {
	c.ctx = ctx
	if sess := c.opts.Sessions.Restore(ctx); sess != nil {
		c.log.Info("restored session", logger.F("user_id", sess.UserID))
		c.enterDashboard(*sess)
		return
	}
	c.showAuth(form.Login)
}

func (c *Controller) showAuth(f form.ID) {
	c.state = authState(f)
	c.opts.View.ShowAuth(f)
}

func (c *Controller) resetCollections() {
	c.opts.Tasks.Reset()
	c.opts.Notifications.Reset()
}

func (c *Controller) enterDashboard(sess model.Session) {
	c.opts.Epoch.Advance()
	c.state = dashboardState()
	c.resetCollections()

	c.opts.View.ClearAuthMessage()
	c.opts.View.ShowDashboard(sess)
	c.opts.View.ShowTab(TabTasks)

	c.opts.Tasks.Refresh(sess.UserID)
	c.opts.Notifications.Refresh(sess.UserID)
}

// SwitchAuthForm toggles between login and signup and clears the message
func (c *Controller) SwitchAuthForm(f form.ID) {
	if c.state.ActiveScreen != ScreenAuth {
		return
	}
	c.state.AuthForm = f
	c.opts.View.ClearAuthMessage()
	c.opts.View.ShowAuth(f)
}

// Authenticated moves to the dashboard after a successful auth response.
// If the session cannot be persisted the auth screen stays up.
func (c *Controller) Authenticated(sess model.Session) {
	if err := c.opts.Sessions.Save(c.ctx, sess); err != nil {
		c.log.Error("failed to persist session", logger.F("error", err))
		c.opts.View.ShowAuthMessage("Signed in, but the session could not be saved: "+err.Error(), MessageError)
		return
	}
	c.log.Info("authenticated", logger.F("user_id", sess.UserID))
	c.enterDashboard(sess)
}

// AuthFailed shows an auth error next to the form
func (c *Controller) AuthFailed(msg string) {
	c.opts.View.ShowAuthMessage(msg, MessageError)
}

// SwitchTab shows tab and refreshes its collection. In-flight refreshes
// for the other tab are left to finish and will not render.
func (c *Controller) SwitchTab(tab Tab) error {
	if c.state.ActiveScreen != ScreenDashboard {
		return ErrNotOnDashboard
	}
	c.state.ActiveTab = tab
	c.opts.View.ShowTab(tab)
	return c.RefreshTab(tab)
}

// RefreshTab reloads one tab's collection
func (c *Controller) RefreshTab(tab Tab) error {
	sess := c.Session()
	if sess == nil || c.state.ActiveScreen != ScreenDashboard {
		return ErrNotOnDashboard
	}
	switch tab {
	case TabTasks:
		c.opts.Tasks.Refresh(sess.UserID)
	case TabNotifications:
		c.opts.Notifications.Refresh(sess.UserID)
	}
	return nil
}

// RefreshTasks reloads tasks for the current user
func (c *Controller) RefreshTasks() { _ = c.RefreshTab(TabTasks) }

// RefreshNotifications reloads notifications for the current user
func (c *Controller) RefreshNotifications() { _ = c.RefreshTab(TabNotifications) }

// Logout clears the persisted session and returns to the login form.
// When the clear fails nothing changes.
func (c *Controller) Logout() error {
	if err := c.opts.Sessions.Clear(c.ctx); err != nil {
		c.log.Error("failed to clear session", logger.F("error", err))
		c.opts.View.Notify("Logout failed: " + err.Error())
		return err
	}

	c.opts.Epoch.Advance()
	c.resetCollections()
	c.opts.View.ResetForms()
	c.opts.View.ClearAuthMessage()
	c.showAuth(form.Login)
	c.log.Info("logged out")
	return nil
}

// Resync follows session changes written by another process. A cleared
// session returns to the login form; a new user reopens the dashboard.
func (c *Controller) Resync() {
	prev := c.Session()
	sess, err := c.opts.Sessions.Reload(c.ctx)
	if err != nil {
		c.log.Warn("session resync skipped", logger.F("error", err))
		return
	}

	switch {
	case sess == nil:
		if c.state.ActiveScreen != ScreenDashboard {
			return
		}
		c.opts.Epoch.Advance()
		c.resetCollections()
		c.opts.View.ResetForms()
		c.opts.View.ClearAuthMessage()
		c.showAuth(form.Login)
		c.opts.View.Notify("Signed out in another window")
		c.log.Info("session cleared externally")
	case prev == nil || prev.UserID != sess.UserID || c.state.ActiveScreen != ScreenDashboard:
		c.log.Info("session changed externally", logger.F("user_id", sess.UserID))
		c.enterDashboard(*sess)
	}
}

// ToggleForm shows or hides a form, clearing its inputs when it opens
func (c *Controller) ToggleForm(id form.ID) {
	visible := !c.state.FormVisibility[id]
	if visible {
		c.opts.Forms.Reset(id)
	}
	c.state.FormVisibility[id] = visible
	c.opts.View.SetFormVisible(id, visible)
}

// FormDone hides a form after a successful submit
func (c *Controller) FormDone(id form.ID) {
	c.opts.Forms.Reset(id)
	c.state.FormVisibility[id] = false
	c.opts.View.SetFormVisible(id, false)
}

// Notify shows a transient message
func (c *Controller) Notify(msg string) {
	c.opts.View.Notify(msg)
}

// State returns a copy of the current view state
func (c *Controller) State() ViewState {
	return c.state.clone()
}

// Session returns the current session, or nil on the auth screen
func (c *Controller) Session() *model.Session {
	return c.opts.Sessions.Current()
}

// TabActive reports whether tab is the visible dashboard tab
func (c *Controller) TabActive(tab Tab) bool {
	return c.state.ActiveScreen == ScreenDashboard && c.state.ActiveTab == tab
}
