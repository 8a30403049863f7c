// Package gateway wraps outbound calls to the auth, task and notification
// services and normalizes every outcome into either a decoded body or a
// *Error. Calls are fire-once: no retries and no caching.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/existflow/taskboard/internal/logger"
)

// Service identifies one of the three backends
type Service string

const (
	Auth          Service = "auth"
	Tasks         Service = "tasks"
	Notifications Service = "notifications"
)

// Label is the human name used in messages
func (s Service) Label() string {
	switch s {
	case Auth:
		return "auth"
	case Tasks:
		return "task"
	case Notifications:
		return "notification"
	default:
		return string(s)
	}
}

// Endpoints holds the base URL of each service, including the version prefix
type Endpoints struct {
	Auth          string
	Tasks         string
	Notifications string
}

// TokenSource yields the bearer token to attach, or "" for none
type TokenSource func() string

// maxErrorBody caps how much of an error response is read
const maxErrorBody = 64 << 10

// Gateway performs JSON-over-HTTP calls against the configured services
type Gateway struct {
	endpoints  map[Service]string
	httpClient *http.Client
	token      TokenSource
	log        *logger.Logger
}

// Option customizes a Gateway
type Option func(*Gateway)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.httpClient = c }
}

// WithTimeout sets the per-request timeout of the default client
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.httpClient.Timeout = d }
}

// WithTokenSource attaches a bearer token to every request when available
func WithTokenSource(ts TokenSource) Option {
	return func(g *Gateway) { g.token = ts }
}

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option {
	return func(g *Gateway) { g.log = l.Named("gateway") }
}

// New creates a gateway for the given endpoints
func New(endpoints Endpoints, opts ...Option) *Gateway {
	g := &Gateway{
		endpoints: map[Service]string{
			Auth:          strings.TrimRight(endpoints.Auth, "/"),
			Tasks:         strings.TrimRight(endpoints.Tasks, "/"),
			Notifications: strings.TrimRight(endpoints.Notifications, "/"),
		},
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// BaseURL returns the configured base URL for svc
func (g *Gateway) BaseURL(svc Service) string {
	return g.endpoints[svc]
}

// Request sends one request and returns the raw 2xx body.
// Every failure is a *Error.
func (g *Gateway) Request(ctx context.Context, svc Service, method, path string, body any) (json.RawMessage, error) {
	fail := func(kind Kind, code int, msg string, err error) *Error {
		return &Error{Service: svc, Method: method, Path: path, StatusCode: code, Kind: kind, Message: msg, Err: err}
	}

	base, ok := g.endpoints[svc]
	if !ok || base == "" {
		return nil, fail(KindTransport, 0, fmt.Sprintf("no address configured for the %s service", svc.Label()), nil)
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fail(KindTransport, 0, "could not encode request", fmt.Errorf("marshaling request body: %w", err))
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, bodyReader)
	if err != nil {
		return nil, fail(KindTransport, 0, "could not build request", fmt.Errorf("creating request: %w", err))
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.token != nil {
		if tok := g.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.log.Warn("request failed",
			logger.F("service", svc), logger.F("method", method), logger.F("path", path),
			logger.F("request_id", requestID), logger.F("error", err))
		return nil, fail(KindTransport, 0,
			fmt.Sprintf("cannot reach the %s service", svc.Label()),
			fmt.Errorf("executing request %s %s: %w", method, path, err))
	}
	defer resp.Body.Close()

	g.log.Debug("request done",
		logger.F("service", svc), logger.F("method", method), logger.F("path", path),
		logger.F("status", resp.StatusCode), logger.F("duration", time.Since(start).String()),
		logger.F("request_id", requestID))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if msg := errorMessage(raw); msg != "" {
			return nil, fail(KindStatus, resp.StatusCode, msg, nil)
		}
		return nil, fail(KindStatusNoBody, resp.StatusCode, synthesizeMessage(svc, resp.StatusCode), nil)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fail(KindTransport, resp.StatusCode,
			fmt.Sprintf("connection to the %s service dropped", svc.Label()),
			fmt.Errorf("reading response body: %w", err))
	}
	return raw, nil
}

// do sends a request and decodes a 2xx body into out (when out is non-nil)
func (g *Gateway) do(ctx context.Context, svc Service, method, path string, body, out any) error {
	raw, err := g.Request(ctx, svc, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{
			Service: svc, Method: method, Path: path, StatusCode: http.StatusOK, Kind: KindDecode,
			Message: fmt.Sprintf("unexpected response from the %s service", svc.Label()),
			Err:     fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err),
		}
	}
	return nil
}

// errorMessage extracts {"error": "..."} or {"message": "..."} from an error body
func errorMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(raw), &body); err != nil {
		return ""
	}
	if s := strings.TrimSpace(body.Error); s != "" {
		return s
	}
	return strings.TrimSpace(body.Message)
}
