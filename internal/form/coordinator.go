package form

import (
	"context"

	"github.com/existflow/taskboard/internal/event"
	"github.com/existflow/taskboard/internal/logger"
	"github.com/existflow/taskboard/internal/model"
	"github.com/existflow/taskboard/internal/session"
)

// Source reads and clears form inputs on the surface
type Source interface {
	Values(id ID) Fields
	Reset(id ID)
}

// API is the set of gateway calls forms submit to
type API interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	Signup(ctx context.Context, req model.SignupRequest) (*model.AuthResponse, error)
	CreateTask(ctx context.Context, req model.CreateTaskRequest) (*model.Task, error)
	CreateNotification(ctx context.Context, req model.CreateNotificationRequest) (*model.Notification, error)
}

// Host is the controller side a form reports back to
type Host interface {
	Session() *model.Session
	Authenticated(sess model.Session)
	AuthFailed(msg string)
	FormDone(id ID)
	RefreshTasks()
	RefreshNotifications()
	Notify(msg string)
}

// Alerter shows blocking acknowledgments
type Alerter interface {
	Alert(msg string)
}

// Options configures a Coordinator
type Options struct {
	Source Source
	API    API
	Host   Host
	Alert  Alerter
	Loop   *event.Loop
	Epoch  *event.Epoch

	// TaskNotifications spawns a companion notification for every created task
	TaskNotifications bool
	Logger            *logger.Logger
}

// Coordinator validates form input, submits it and routes the outcome
type Coordinator struct {
	opts Options
	log  *logger.Logger
}

// NewCoordinator creates a coordinator
func NewCoordinator(opts Options) *Coordinator {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Coordinator{opts: opts, log: log.Named("form")}
}

// Submit reads form id and sends it. Validation errors are shown and returned;
// remote outcomes arrive later on the loop.
func (c *Coordinator) Submit(id ID) error {
	values := c.opts.Source.Values(id)

	var err error
	switch id {
	case Login:
		err = c.login(values)
	case Signup:
		err = c.signup(values)
	case CreateTask:
		err = c.createTask(values)
	case CreateNotification:
		err = c.createNotification(values)
	default:
		c.log.Warn("submit for unknown form", logger.F("form", id))
		return &ValidationError{Form: id, Reason: "unknown form " + string(id)}
	}

	if err != nil {
		c.log.Debug("form rejected", logger.F("form", id), logger.F("error", err))
		if id.IsAuth() {
			c.opts.Host.AuthFailed(err.Error())
		} else {
			c.opts.Alert.Alert(err.Error())
		}
	}
	return err
}

// send runs call off the loop and delivers its result on the loop,
// dropping it if the screen changed in between
func (c *Coordinator) send(call func(ctx context.Context) error, done func(err error)) {
	token := c.opts.Epoch.Current()
	c.opts.Loop.Go(func(ctx context.Context) event.Func {
		err := call(ctx)
		return func() {
			if !c.opts.Epoch.Valid(token) {
				c.log.Debug("discarding form result from previous screen")
				return
			}
			done(err)
		}
	})
}

func (c *Coordinator) authenticate(call func(ctx context.Context) (*model.AuthResponse, error)) {
	var resp *model.AuthResponse
	c.send(func(ctx context.Context) error {
		var err error
		resp, err = call(ctx)
		return err
	}, func(err error) {
		if err != nil {
			c.log.Info("authentication failed", logger.F("error", err))
			c.opts.Host.AuthFailed(err.Error())
			return
		}
		c.opts.Host.Authenticated(model.NewSession(resp))
	})
}

func (c *Coordinator) login(values Fields) error {
	req, err := LoginRequest(values)
	if err != nil {
		return err
	}
	c.authenticate(func(ctx context.Context) (*model.AuthResponse, error) {
		return c.opts.API.Login(ctx, req)
	})
	return nil
}

func (c *Coordinator) signup(values Fields) error {
	req, err := SignupRequest(values)
	if err != nil {
		return err
	}
	c.authenticate(func(ctx context.Context) (*model.AuthResponse, error) {
		return c.opts.API.Signup(ctx, req)
	})
	return nil
}

func (c *Coordinator) owner() (model.Session, error) {
	sess := c.opts.Host.Session()
	if sess == nil {
		return model.Session{}, session.ErrNoSession
	}
	return *sess, nil
}

func (c *Coordinator) createTask(values Fields) error {
	sess, err := c.owner()
	if err != nil {
		return err
	}
	req, err := TaskRequest(values, sess.UserID)
	if err != nil {
		return err
	}

	var task *model.Task
	c.send(func(ctx context.Context) error {
		var err error
		task, err = c.opts.API.CreateTask(ctx, req)
		return err
	}, func(err error) {
		if err != nil {
			c.log.Warn("failed to create task", logger.F("error", err))
			c.opts.Alert.Alert("Failed to create task: " + err.Error())
			return
		}

		c.log.Info("task created", logger.F("task_id", task.ID))
		if c.opts.TaskNotifications {
			c.spawnCompanion(*task, sess.UserID)
		}

		c.opts.Host.FormDone(CreateTask)
		c.opts.Host.RefreshTasks()
		c.opts.Host.RefreshNotifications()
		c.opts.Host.Notify("Task created")
	})
	return nil
}

// spawnCompanion announces a new task. Its failure is logged and nothing else.
func (c *Coordinator) spawnCompanion(task model.Task, userID string) {
	req := CompanionNotification(task, userID)
	c.opts.Loop.Spawn("task-notification", func(ctx context.Context) error {
		_, err := c.opts.API.CreateNotification(ctx, req)
		return err
	})
}

func (c *Coordinator) createNotification(values Fields) error {
	sess, err := c.owner()
	if err != nil {
		return err
	}
	req, err := NotificationRequest(values, sess.UserID)
	if err != nil {
		return err
	}

	c.send(func(ctx context.Context) error {
		_, err := c.opts.API.CreateNotification(ctx, req)
		return err
	}, func(err error) {
		if err != nil {
			c.log.Warn("failed to create notification", logger.F("error", err))
			c.opts.Alert.Alert("Failed to create notification: " + err.Error())
			return
		}
		c.opts.Host.FormDone(CreateNotification)
		c.opts.Host.RefreshNotifications()
		c.opts.Host.Notify("Notification created")
	})
	return nil
}
