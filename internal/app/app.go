// Package app constructs the client: one explicit object owning the
// gateway, session store, loop, presenters, forms and view controller.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/existflow/taskboard/internal/config"
	"github.com/existflow/taskboard/internal/db"
	"github.com/existflow/taskboard/internal/event"
	"github.com/existflow/taskboard/internal/form"
	"github.com/existflow/taskboard/internal/gateway"
	"github.com/existflow/taskboard/internal/logger"
	"github.com/existflow/taskboard/internal/model"
	"github.com/existflow/taskboard/internal/presenter"
	"github.com/existflow/taskboard/internal/session"
	"github.com/existflow/taskboard/internal/view"
)

// Surface is everything the application renders to
type Surface interface {
	view.ScreenView
	presenter.DetailView
	presenter.Prompter
	form.Source

	TaskList() presenter.ListView[model.Task]
	NotificationList() presenter.ListView[model.Notification]
}

// Deps are the collaborators supplied by the caller
type Deps struct {
	Surface Surface
	// Storage defaults to the sqlite database at Config.StatePath
	Storage    session.Storage
	Logger     *logger.Logger
	HTTPClient *http.Client
}

// App is the application context
type App struct {
	cfg *config.Config
	log *logger.Logger
	db  *db.DB

	Gateway       *gateway.Gateway
	Sessions      *session.Store
	Loop          *event.Loop
	Epoch         *event.Epoch
	Bus           *event.Bus
	Tasks         *presenter.Presenter[model.Task]
	Notifications *presenter.Notifications
	Forms         *form.Coordinator
	View          *view.Controller
}

// New wires an App from cfg
func New(cfg *config.Config, deps Deps) (*App, error) {
	if deps.Surface == nil {
		return nil, errors.New("app: surface is required")
	}
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	a := &App{
		cfg:   cfg,
		log:   log.Named("app"),
		Loop:  event.NewLoop(log),
		Epoch: &event.Epoch{},
		Bus:   event.NewBus(),
	}

	storage := deps.Storage
	if storage == nil {
		database, err := db.Open(cfg.StatePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open state database: %w", err)
		}
		a.db = database
		storage = database
	}
	a.Sessions = session.NewStore(storage, log)

	opts := []gateway.Option{
		gateway.WithTimeout(cfg.RequestTimeout()),
		gateway.WithTokenSource(a.Sessions.Token),
		gateway.WithLogger(log),
	}
	if deps.HTTPClient != nil {
		opts = append(opts, gateway.WithHTTPClient(deps.HTTPClient))
	}
	a.Gateway = gateway.New(Endpoints(cfg), opts...)

	surface := deps.Surface

	a.Tasks = presenter.NewTasks(a.Gateway, surface.TaskList(), a.Loop, a.Epoch,
		func() bool { return a.View.TabActive(view.TabTasks) }, log)

	a.Notifications = presenter.NewNotifications(presenter.NotificationOptions{
		API:           a.Gateway,
		View:          surface.NotificationList(),
		Detail:        surface,
		Prompt:        surface,
		Loop:          a.Loop,
		Epoch:         a.Epoch,
		Visible:       func() bool { return a.View.TabActive(view.TabNotifications) },
		Owner:         a.ownerID,
		Limit:         cfg.NotificationLimit,
		ConfirmDelete: cfg.ConfirmDelete,
		Logger:        log,
	})

	a.View = view.NewController(view.Options{
		View:          surface,
		Forms:         surface,
		Sessions:      a.Sessions,
		Tasks:         a.Tasks,
		Notifications: a.Notifications,
		Epoch:         a.Epoch,
		Logger:        log,
	})

	a.Forms = form.NewCoordinator(form.Options{
		Source:            surface,
		API:               a.Gateway,
		Host:              a.View,
		Alert:             surface,
		Loop:              a.Loop,
		Epoch:             a.Epoch,
		TaskNotifications: cfg.TaskNotifications,
		Logger:            log,
	})

	a.subscribe()
	return a, nil
}

// Endpoints maps config onto gateway endpoints
func Endpoints(cfg *config.Config) gateway.Endpoints {
	return gateway.Endpoints{
		Auth:          cfg.AuthServiceURL,
		Tasks:         cfg.TaskServiceURL,
		Notifications: cfg.NotificationServiceURL,
	}
}

func (a *App) ownerID() string {
	if sess := a.Sessions.Current(); sess != nil {
		return sess.UserID
	}
	return ""
}

func (a *App) subscribe() {
	event.Subscribe(a.Bus, func(c event.SelectNotification) error {
		a.Notifications.SelectItem(c.ID)
		return nil
	})
	event.Subscribe(a.Bus, func(c event.MarkRead) error {
		a.Notifications.MarkRead(c.ID)
		return nil
	})
	event.Subscribe(a.Bus, func(c event.DeleteNotification) error {
		a.Notifications.Delete(c.ID)
		return nil
	})
	event.Subscribe(a.Bus, func(c event.SwitchTab) error {
		tab, err := view.ParseTab(c.Tab)
		if err != nil {
			return err
		}
		return a.View.SwitchTab(tab)
	})
	event.Subscribe(a.Bus, func(c event.RefreshTab) error {
		tab, err := view.ParseTab(c.Tab)
		if err != nil {
			return err
		}
		return a.View.RefreshTab(tab)
	})
	event.Subscribe(a.Bus, func(c event.SwitchAuthForm) error {
		f, err := view.ParseAuthForm(c.Form)
		if err != nil {
			return err
		}
		a.View.SwitchAuthForm(f)
		return nil
	})
	event.Subscribe(a.Bus, func(c event.Submit) error {
		return a.Forms.Submit(form.ID(c.Form))
	})
	event.Subscribe(a.Bus, func(c event.ToggleForm) error {
		a.View.ToggleForm(form.ID(c.Form))
		return nil
	})
	event.Subscribe(a.Bus, func(event.Logout) error {
		return a.View.Logout()
	})
}

// Start schedules session restore on the loop and begins following
// session changes made by other processes
func (a *App) Start(ctx context.Context) {
	a.Loop.Post(func() { a.View.Start(ctx) })
	a.watchSession()
}

// watchSession only applies to the sqlite state file opened by New
func (a *App) watchSession() {
	if a.db == nil || a.cfg.StatePath == "" || a.cfg.StatePath == ":memory:" {
		return
	}
	w := session.NewWatcher(a.cfg.StatePath, a.log)
	a.Loop.Spawn("session-watch", func(ctx context.Context) error {
		return w.Run(ctx, func() { a.Loop.Post(a.View.Resync) })
	})
}

// Dispatch routes a surface command. Call it from the loop's thread.
func (a *App) Dispatch(cmd event.Command) error {
	err := a.Bus.Dispatch(cmd)
	if err != nil && !form.IsValidation(err) {
		a.log.Debug("command failed", logger.F("command", fmt.Sprintf("%T", cmd)), logger.F("error", err))
	}
	return err
}

// Close stops background work and releases the state database
func (a *App) Close() error {
	a.Loop.Close()
	a.Loop.Wait()
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
