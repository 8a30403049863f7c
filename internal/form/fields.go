package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/existflow/taskboard/internal/model"
)

// ID names an input form
type ID string

const (
	Login              ID = "login"
	Signup             ID = "signup"
	CreateTask         ID = "create-task"
	CreateNotification ID = "create-notification"
)

// IsAuth reports whether id is one of the auth screen forms
func (id ID) IsAuth() bool {
	return id == Login || id == Signup
}

// Field names shared by the surfaces
const (
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDueDate     = "due_date"
	FieldMessage     = "message"
	FieldType        = "type"
	FieldData        = "data"
)

// Fields holds raw input values by field name
type Fields map[string]string

// Get returns the trimmed value of key. Passwords are returned as typed.
func (f Fields) Get(key string) string {
	if key == FieldPassword {
		return f[key]
	}
	return strings.TrimSpace(f[key])
}

// ValidationError is a client-side rejection of form input
type ValidationError struct {
	Form    ID
	Missing []string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return "Please fill in all required fields: " + strings.Join(e.Missing, ", ")
}

// IsValidation reports whether err is a *ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func requireFields(id ID, f Fields, keys ...string) error {
	var missing []string
	for _, k := range keys {
		if f.Get(k) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Form: id, Missing: missing}
	}
	return nil
}

// LoginRequest validates and builds the login body
func LoginRequest(f Fields) (model.LoginRequest, error) {
	if err := requireFields(Login, f, FieldEmail, FieldPassword); err != nil {
		return model.LoginRequest{}, err
	}
	return model.LoginRequest{Email: f.Get(FieldEmail), Password: f.Get(FieldPassword)}, nil
}

// SignupRequest validates and builds the signup body
func SignupRequest(f Fields) (model.SignupRequest, error) {
	if err := requireFields(Signup, f, FieldFirstName, FieldLastName, FieldEmail, FieldPassword); err != nil {
		return model.SignupRequest{}, err
	}
	return model.SignupRequest{
		FirstName: f.Get(FieldFirstName),
		LastName:  f.Get(FieldLastName),
		Email:     f.Get(FieldEmail),
		Password:  f.Get(FieldPassword),
	}, nil
}

// TaskRequest validates and builds the create-task body for userID
func TaskRequest(f Fields, userID string) (model.CreateTaskRequest, error) {
	if err := requireFields(CreateTask, f, FieldTitle); err != nil {
		return model.CreateTaskRequest{}, err
	}
	due, err := ParseDueDate(f.Get(FieldDueDate))
	if err != nil {
		return model.CreateTaskRequest{}, &ValidationError{Form: CreateTask, Reason: err.Error()}
	}
	return model.CreateTaskRequest{
		Title:       f.Get(FieldTitle),
		Description: f.Get(FieldDescription),
		UserID:      userID,
		DueDate:     due,
	}, nil
}

// ParseDueDate accepts YYYY-MM-DD or RFC3339. Empty input means no due date.
func ParseDueDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("invalid due date %q, use YYYY-MM-DD", s)
}

// NotificationRequest validates and builds the create-notification body.
// The data field must be empty or a JSON object.
func NotificationRequest(f Fields, userID string) (model.CreateNotificationRequest, error) {
	if err := requireFields(CreateNotification, f, FieldTitle, FieldMessage); err != nil {
		return model.CreateNotificationRequest{}, err
	}

	typ := model.NotificationType(f.Get(FieldType))
	if typ == "" {
		typ = model.NotificationInApp
	}
	if !typ.Valid() {
		return model.CreateNotificationRequest{}, &ValidationError{
			Form:   CreateNotification,
			Reason: fmt.Sprintf("unknown notification type %q, use email, in_app or push", typ),
		}
	}

	data := map[string]any{}
	if raw := f.Get(FieldData); raw != "" {
		if err := json.Unmarshal([]byte(raw), &data); err != nil || data == nil {
			return model.CreateNotificationRequest{}, &ValidationError{
				Form:   CreateNotification,
				Reason: "Invalid JSON format in data field",
			}
		}
	}

	return model.CreateNotificationRequest{
		UserID:  userID,
		Title:   f.Get(FieldTitle),
		Message: f.Get(FieldMessage),
		Type:    typ,
		Data:    data,
	}, nil
}

// CompanionNotification describes a newly created task for its owner
func CompanionNotification(task model.Task, userID string) model.CreateNotificationRequest {
	return model.CreateNotificationRequest{
		UserID:  userID,
		Title:   "New Task Created",
		Message: `You created a new task: "` + task.Title + `"`,
		Type:    model.NotificationInApp,
		Data: map[string]any{
			"task_id":    task.ID,
			"task_title": task.Title,
			"action":     "task_created",
		},
	}
}
