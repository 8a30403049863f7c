package stub

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

func routeKey(method, route string) string {
	return method + " " + route
}

// FailNotifications makes POST /notifications answer 503 with no body
func (s *Stub) FailNotifications(fail bool) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	s.failNotifications = fail
}

// Delay adds latency to one route, e.g. Delay("GET", "/users/:user_id/tasks", time.Second).
// A zero duration removes it.
func (s *Stub) Delay(method, route string, d time.Duration) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	if d <= 0 {
		delete(s.delays, routeKey(method, route))
		return
	}
	s.delays[routeKey(method, route)] = d
}

// Hold blocks every request to route until the returned release is called
func (s *Stub) Hold(method, route string) (release func()) {
	ch := make(chan struct{})
	s.faultMu.Lock()
	s.holds[routeKey(method, route)] = ch
	s.faultMu.Unlock()

	return func() {
		s.faultMu.Lock()
		defer s.faultMu.Unlock()
		if s.holds[routeKey(method, route)] == ch {
			delete(s.holds, routeKey(method, route))
		}
		select {
		case <-ch:
		default:
			close(ch)
		}
	}
}

func (s *Stub) faults(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		key := routeKey(req.Method, strings.TrimPrefix(c.Path(), Prefix))

		s.faultMu.RLock()
		delay := s.delays[key]
		hold := s.holds[key]
		fail := s.failNotifications && key == routeKey(http.MethodPost, "/notifications")
		s.faultMu.RUnlock()

		if hold != nil {
			select {
			case <-hold:
			case <-req.Context().Done():
				return req.Context().Err()
			}
		}
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-req.Context().Done():
				return req.Context().Err()
			}
		}
		if fail {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return next(c)
	}
}
