package stub

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/existflow/taskboard/internal/logger"
	"github.com/existflow/taskboard/internal/model"
)

func (s *Stub) authResponse(c echo.Context, code int, u model.User) error {
	token, err := s.store.issueToken(u.ID)
	if err != nil {
		s.log.Error("token error", logger.F("error", err))
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(code, model.AuthResponse{User: &u, Token: token})
}

// handleSignup handles account creation
func (s *Stub) handleSignup(c echo.Context) error {
	var req model.SignupRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		return errorJSON(c, http.StatusBadRequest, "Email, password, first name, and last name are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.opts.BcryptCost)
	if err != nil {
		s.log.Error("bcrypt error", logger.F("error", err))
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	now := time.Now().UTC()
	u := model.User{
		ID:        uuid.NewString(),
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if !s.store.addAccount(u, hash) {
		return errorJSON(c, http.StatusConflict, "User already exists")
	}

	s.log.Info("user registered", logger.F("user_id", u.ID))
	return s.authResponse(c, http.StatusCreated, u)
}

// handleLogin handles email and password login
func (s *Stub) handleLogin(c echo.Context) error {
	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return errorJSON(c, http.StatusBadRequest, "Email and password are required")
	}

	acct, ok := s.store.account(req.Email)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword(acct.hash, []byte(req.Password)); err != nil {
		return errorJSON(c, http.StatusUnauthorized, "Invalid email or password")
	}

	s.log.Info("user logged in", logger.F("user_id", acct.user.ID))
	return s.authResponse(c, http.StatusOK, acct.user)
}

// owns rejects access to another user's resources when auth is enforced
func (s *Stub) owns(c echo.Context, userID string) bool {
	caller, ok := c.Get("user_id").(string)
	return !ok || caller == userID
}

func (s *Stub) handleListTasks(c echo.Context) error {
	userID := c.Param("user_id")
	if !s.owns(c, userID) {
		return errorJSON(c, http.StatusForbidden, "forbidden")
	}
	tasks := s.store.userTasks(userID)
	return c.JSON(http.StatusOK, model.TasksResponse{Tasks: tasks, Total: len(tasks)})
}

func (s *Stub) handleCreateTask(c echo.Context) error {
	var req model.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Title == "" || req.UserID == "" {
		return errorJSON(c, http.StatusBadRequest, "Title and user_id are required")
	}
	if !s.owns(c, req.UserID) {
		return errorJSON(c, http.StatusForbidden, "forbidden")
	}

	task := s.store.addTask(model.Task{
		Title:       req.Title,
		Description: req.Description,
		UserID:      req.UserID,
		DueDate:     req.DueDate,
	})
	return c.JSON(http.StatusCreated, model.TaskResponse{Task: &task})
}

func (s *Stub) handleListNotifications(c echo.Context) error {
	userID := c.Param("user_id")
	if !s.owns(c, userID) {
		return errorJSON(c, http.StatusForbidden, "forbidden")
	}

	limit, offset := 50, 0
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 {
		limit = l
	}
	if o, err := strconv.Atoi(c.QueryParam("offset")); err == nil && o >= 0 {
		offset = o
	}

	list := s.store.userNotifications(userID, limit, offset)
	return c.JSON(http.StatusOK, model.NotificationsResponse{Notifications: list, Total: len(list)})
}

func (s *Stub) handleCreateNotification(c echo.Context) error {
	var req model.CreateNotificationRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.UserID == "" || req.Title == "" || req.Message == "" {
		return errorJSON(c, http.StatusBadRequest, "user_id, title, and message are required")
	}
	if !req.Type.Valid() {
		return errorJSON(c, http.StatusBadRequest, "Invalid notification type. Must be email, in_app, or push")
	}
	if !s.owns(c, req.UserID) {
		return errorJSON(c, http.StatusForbidden, "forbidden")
	}
	if req.Data == nil {
		req.Data = map[string]any{}
	}

	n := s.store.addNotification(model.Notification{
		UserID:  req.UserID,
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
		Data:    req.Data,
	})
	return c.JSON(http.StatusCreated, model.NotificationResponse{Notification: &n})
}

// lookup finds a notification the caller may access
func (s *Stub) lookup(c echo.Context) (model.Notification, bool) {
	n, ok := s.store.notification(c.Param("id"))
	if !ok || !s.owns(c, n.UserID) {
		return model.Notification{}, false
	}
	return n, true
}

func notFound(c echo.Context) error {
	return errorJSON(c, http.StatusNotFound, "Notification not found")
}

func (s *Stub) handleGetNotification(c echo.Context) error {
	n, ok := s.lookup(c)
	if !ok {
		return notFound(c)
	}
	return c.JSON(http.StatusOK, model.NotificationResponse{Notification: &n})
}

func (s *Stub) handleMarkRead(c echo.Context) error {
	n, ok := s.lookup(c)
	if !ok {
		return notFound(c)
	}
	n, _ = s.store.markRead(n.ID)
	return c.JSON(http.StatusOK, model.NotificationResponse{Notification: &n})
}

func (s *Stub) handleDeleteNotification(c echo.Context) error {
	n, ok := s.lookup(c)
	if !ok {
		return notFound(c)
	}
	s.store.deleteNotification(n.ID)
	return c.NoContent(http.StatusNoContent)
}

// SeedUser registers an account directly, for tests and demos
func (s *Stub) SeedUser(first, last, email, password string) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return model.User{}, err
	}
	now := time.Now().UTC()
	u := model.User{ID: uuid.NewString(), Email: strings.TrimSpace(email), FirstName: first, LastName: last, CreatedAt: now, UpdatedAt: now}
	if !s.store.addAccount(u, hash) {
		return model.User{}, fmt.Errorf("user %s already exists", email)
	}
	return u, nil
}

// Tasks returns the tasks stored for userID, newest first
func (s *Stub) Tasks(userID string) []model.Task {
	return s.store.userTasks(userID)
}

// Notifications returns the notifications stored for userID, newest first
func (s *Stub) Notifications(userID string) []model.Notification {
	return s.store.userNotifications(userID, 0, 0)
}
