package model

import "time"

// TaskStatus values reported by the task service
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// Task is a read-mostly copy of a task owned by the task service
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	UserID      string     `json:"user_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at,omitempty"`
}

// IsOverdue returns true if the task is past its due date and not completed
func (t *Task) IsOverdue() bool {
	if t.DueDate == nil || t.Status == TaskCompleted {
		return false
	}
	return t.DueDate.Before(time.Now())
}

// CreateTaskRequest is the body of POST /tasks.
// DueDate is serialized as null when unset.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	UserID      string     `json:"user_id"`
	DueDate     *time.Time `json:"due_date"`
}

// TaskResponse wraps a single task
type TaskResponse struct {
	Task *Task `json:"task"`
}

// TasksResponse wraps a task collection
type TasksResponse struct {
	Tasks []Task `json:"tasks"`
	Total int    `json:"total,omitempty"`
}
