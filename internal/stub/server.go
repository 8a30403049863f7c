// Package stub serves the auth, task and notification APIs from memory on
// a single echo router. It backs local development and end-to-end tests.
package stub

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/existflow/taskboard/internal/logger"
)

// Prefix is the version prefix every route is mounted under
const Prefix = "/api/v1"

// Options configures a Stub
type Options struct {
	Logger *logger.Logger
	// BcryptCost defaults to bcrypt.DefaultCost
	BcryptCost int
	// RequireAuth rejects task and notification calls without a valid bearer token
	RequireAuth bool
}

// Stub is an in-memory implementation of the three services
type Stub struct {
	opts  Options
	log   *logger.Logger
	echo  *echo.Echo
	store *store

	faultMu           sync.RWMutex
	failNotifications bool
	delays            map[string]time.Duration
	holds             map[string]chan struct{}
}

// New creates a stub
func New(opts Options) *Stub {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	s := &Stub{
		opts:   opts,
		log:    opts.Logger.Named("stub"),
		store:  newStore(),
		delays: make(map[string]time.Duration),
		holds:  make(map[string]chan struct{}),
	}
	s.setupEcho()
	return s
}

func (s *Stub) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(s.logRequests)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())
	e.Use(s.faults)

	e.GET("/health", s.handleHealth)

	api := e.Group(Prefix)

	api.POST("/auth/signup", s.handleSignup)
	api.POST("/auth/login", s.handleLogin)

	protected := api.Group("")
	if s.opts.RequireAuth {
		protected.Use(s.authMiddleware)
	}
	protected.GET("/users/:user_id/tasks", s.handleListTasks)
	protected.POST("/tasks", s.handleCreateTask)
	protected.GET("/users/:user_id/notifications", s.handleListNotifications)
	protected.POST("/notifications", s.handleCreateNotification)
	protected.GET("/notifications/:id", s.handleGetNotification)
	protected.PUT("/notifications/:id/read", s.handleMarkRead)
	protected.DELETE("/notifications/:id", s.handleDeleteNotification)

	s.echo = e
}

// Handler returns the HTTP handler
func (s *Stub) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown
func (s *Stub) Start(addr string) error {
	s.log.Info("stub listening", logger.F("addr", addr), logger.F("prefix", Prefix))
	return s.echo.Start(addr)
}

// Shutdown stops the listener
func (s *Stub) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Stub) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "healthy",
		"service":   "stub",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func errorJSON(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"error": msg})
}
