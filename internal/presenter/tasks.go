package presenter

import (
	"context"

	"github.com/existflow/taskboard/internal/event"
	"github.com/existflow/taskboard/internal/gateway"
	"github.com/existflow/taskboard/internal/logger"
	"github.com/existflow/taskboard/internal/model"
)

// TaskAPI is the part of the gateway the task panel needs
type TaskAPI interface {
	ListTasks(ctx context.Context, userID string) ([]model.Task, error)
	BaseURL(svc gateway.Service) string
}

// NewTasks creates the task panel presenter
func NewTasks(api TaskAPI, view ListView[model.Task], loop *event.Loop, epoch *event.Epoch, visible func() bool, log *logger.Logger) *Presenter[model.Task] {
	return New(Options[model.Task]{
		Name:    "tasks",
		Fetch:   api.ListTasks,
		View:    view,
		Loop:    loop,
		Epoch:   epoch,
		Visible: visible,
		Empty: Placeholder{
			Kind:    PlaceholderEmpty,
			Title:   "No tasks yet",
			Message: "Create your first task to get started.",
		},
		Failure: FailurePlaceholder("tasks", gateway.Tasks, api.BaseURL(gateway.Tasks)),
		Logger:  log,
	})
}
