package presenter

import (
	"context"
	"time"

	"github.com/existflow/taskboard/internal/event"
	"github.com/existflow/taskboard/internal/gateway"
	"github.com/existflow/taskboard/internal/logger"
	"github.com/existflow/taskboard/internal/model"
)

// NotificationAPI is the part of the gateway the notification panel needs
type NotificationAPI interface {
	ListNotifications(ctx context.Context, userID string, limit int) ([]model.Notification, error)
	GetNotification(ctx context.Context, id string) (*model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) (*model.Notification, error)
	DeleteNotification(ctx context.Context, id string) error
	BaseURL(svc gateway.Service) string
}

// Detail is what the detail panel shows for one notification
type Detail struct {
	Notification model.Notification
	CanMarkRead  bool
	CanDelete    bool
}

// NewDetail derives the available actions from the notification's status
func NewDetail(n model.Notification) Detail {
	return Detail{
		Notification: n,
		CanMarkRead:  !n.IsRead(),
		CanDelete:    true,
	}
}

// ReadAt returns the read timestamp when the service reported one
func (d Detail) ReadAt() (time.Time, bool) {
	if d.Notification.ReadAt == nil || d.Notification.ReadAt.IsZero() {
		return time.Time{}, false
	}
	return *d.Notification.ReadAt, true
}

// DetailView shows a single notification
type DetailView interface {
	ShowDetail(d Detail)
	CloseDetail()
}

// Prompter is the blocking acknowledgment surface.
// Confirm calls onYes on the loop only when the user accepts.
type Prompter interface {
	Alert(msg string)
	Confirm(msg string, onYes func())
}

// NotificationOptions configures the notification presenter
type NotificationOptions struct {
	API           NotificationAPI
	View          ListView[model.Notification]
	Detail        DetailView
	Prompt        Prompter
	Loop          *event.Loop
	Epoch         *event.Epoch
	Visible       func() bool
	Owner         func() string // current user id, "" when logged out
	Limit         int
	ConfirmDelete bool
	Logger        *logger.Logger
}

// Notifications is the notification list plus its row actions
type Notifications struct {
	*Presenter[model.Notification]

	opts NotificationOptions
	log  *logger.Logger
}

// NewNotifications creates the notification presenter
func NewNotifications(opts NotificationOptions) *Notifications {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	limit := opts.Limit

	p := New(Options[model.Notification]{
		Name: "notifications",
		Fetch: func(ctx context.Context, ownerID string) ([]model.Notification, error) {
			return opts.API.ListNotifications(ctx, ownerID, limit)
		},
		View:    opts.View,
		Loop:    opts.Loop,
		Epoch:   opts.Epoch,
		Visible: opts.Visible,
		Count:   model.CountUnread,
		Empty: Placeholder{
			Kind:    PlaceholderEmpty,
			Title:   "No notifications",
			Message: "You're all caught up.",
		},
		Failure: FailurePlaceholder("notifications", gateway.Notifications, opts.API.BaseURL(gateway.Notifications)),
		Logger:  log,
	})

	return &Notifications{Presenter: p, opts: opts, log: log.Named("notifications")}
}

// RefreshCurrent refreshes the list for the logged-in user, if any
func (n *Notifications) RefreshCurrent() {
	if owner := n.opts.Owner(); owner != "" {
		n.Refresh(owner)
	}
}

// act runs call off the loop and hands its error back on the loop,
// unless the screen changed in between
func (n *Notifications) act(call func(ctx context.Context) error, done func(err error)) {
	token := n.opts.Epoch.Current()
	n.opts.Loop.Go(func(ctx context.Context) event.Func {
		err := call(ctx)
		return func() {
			if !n.opts.Epoch.Valid(token) {
				n.log.Debug("discarding action result from previous screen")
				return
			}
			done(err)
		}
	})
}

// SelectItem fetches one notification and opens the detail panel
func (n *Notifications) SelectItem(id string) {
	var got *model.Notification
	n.act(func(ctx context.Context) error {
		var err error
		got, err = n.opts.API.GetNotification(ctx, id)
		return err
	}, func(err error) {
		if err != nil {
			n.log.Warn("failed to load notification", logger.F("id", id), logger.F("error", err))
			n.opts.Prompt.Alert("Failed to load notification: " + err.Error())
			return
		}
		n.opts.Detail.ShowDetail(NewDetail(*got))
	})
}

// MarkRead marks a notification read, then closes the detail and refreshes
func (n *Notifications) MarkRead(id string) {
	n.act(func(ctx context.Context) error {
		_, err := n.opts.API.MarkNotificationRead(ctx, id)
		return err
	}, func(err error) {
		if err != nil {
			n.log.Warn("failed to mark notification read", logger.F("id", id), logger.F("error", err))
			n.opts.Prompt.Alert("Failed to mark notification as read: " + err.Error())
			return
		}
		n.opts.Detail.CloseDetail()
		n.RefreshCurrent()
	})
}

// Delete asks for confirmation, then deletes the notification
func (n *Notifications) Delete(id string) {
	run := func() {
		n.act(func(ctx context.Context) error {
			return n.opts.API.DeleteNotification(ctx, id)
		}, func(err error) {
			if err != nil {
				n.log.Warn("failed to delete notification", logger.F("id", id), logger.F("error", err))
				n.opts.Prompt.Alert("Failed to delete notification: " + err.Error())
				return
			}
			n.opts.Detail.CloseDetail()
			n.RefreshCurrent()
		})
	}

	if !n.opts.ConfirmDelete {
		run()
		return
	}
	n.opts.Prompt.Confirm("Are you sure you want to delete this notification?", run)
}
