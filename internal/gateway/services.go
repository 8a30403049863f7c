package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/existflow/taskboard/internal/model"
)

func missing(svc Service, method, path, what string) error {
	return &Error{
		Service: svc, Method: method, Path: path, StatusCode: http.StatusOK, Kind: KindDecode,
		Message: fmt.Sprintf("unexpected response from the %s service: missing %s", svc.Label(), what),
	}
}

func (g *Gateway) authenticate(ctx context.Context, path string, body any) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := g.do(ctx, Auth, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil || resp.User.ID == "" {
		return nil, missing(Auth, http.MethodPost, path, "user")
	}
	if resp.Token == "" {
		return nil, missing(Auth, http.MethodPost, path, "token")
	}
	return &resp, nil
}

// Signup creates an account and returns the user and token
func (g *Gateway) Signup(ctx context.Context, req model.SignupRequest) (*model.AuthResponse, error) {
	return g.authenticate(ctx, "/auth/signup", req)
}

// Login authenticates with email and password
func (g *Gateway) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	return g.authenticate(ctx, "/auth/login", req)
}

// ListTasks fetches the tasks owned by userID
func (g *Gateway) ListTasks(ctx context.Context, userID string) ([]model.Task, error) {
	var resp model.TasksResponse
	path := "/users/" + url.PathEscape(userID) + "/tasks"
	if err := g.do(ctx, Tasks, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// CreateTask creates a task
func (g *Gateway) CreateTask(ctx context.Context, req model.CreateTaskRequest) (*model.Task, error) {
	var resp model.TaskResponse
	if err := g.do(ctx, Tasks, http.MethodPost, "/tasks", req, &resp); err != nil {
		return nil, err
	}
	if resp.Task == nil {
		return nil, missing(Tasks, http.MethodPost, "/tasks", "task")
	}
	return resp.Task, nil
}

// ListNotifications fetches up to limit notifications for userID
func (g *Gateway) ListNotifications(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	var resp model.NotificationsResponse
	path := "/users/" + url.PathEscape(userID) + "/notifications"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	if err := g.do(ctx, Notifications, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Notifications, nil
}

// GetNotification fetches a single notification
func (g *Gateway) GetNotification(ctx context.Context, id string) (*model.Notification, error) {
	return g.notification(ctx, http.MethodGet, "/notifications/"+url.PathEscape(id))
}

// MarkNotificationRead marks a notification read and returns its new state.
// Services that answer 204 yield a nil notification.
func (g *Gateway) MarkNotificationRead(ctx context.Context, id string) (*model.Notification, error) {
	var resp model.NotificationResponse
	path := "/notifications/" + url.PathEscape(id) + "/read"
	if err := g.do(ctx, Notifications, http.MethodPut, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Notification, nil
}

func (g *Gateway) notification(ctx context.Context, method, path string) (*model.Notification, error) {
	var resp model.NotificationResponse
	if err := g.do(ctx, Notifications, method, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Notification == nil {
		return nil, missing(Notifications, method, path, "notification")
	}
	return resp.Notification, nil
}

// CreateNotification creates a notification
func (g *Gateway) CreateNotification(ctx context.Context, req model.CreateNotificationRequest) (*model.Notification, error) {
	if req.Data == nil {
		req.Data = map[string]any{}
	}
	var resp model.NotificationResponse
	if err := g.do(ctx, Notifications, http.MethodPost, "/notifications", req, &resp); err != nil {
		return nil, err
	}
	if resp.Notification == nil {
		return nil, missing(Notifications, http.MethodPost, "/notifications", "notification")
	}
	return resp.Notification, nil
}

// DeleteNotification deletes a notification. 204 and 200 both count as success.
func (g *Gateway) DeleteNotification(ctx context.Context, id string) error {
	_, err := g.Request(ctx, Notifications, http.MethodDelete, "/notifications/"+url.PathEscape(id), nil)
	return err
}
