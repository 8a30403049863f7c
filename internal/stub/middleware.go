package stub

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/existflow/taskboard/internal/logger"
)

func (s *Stub) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()

		err := next(c)

		res := c.Response()
		s.log.Info("HTTP Response",
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("status", res.Status),
			logger.F("size", res.Size),
			logger.F("duration", time.Since(start).String()),
			logger.F("request_id", req.Header.Get(echo.HeaderXRequestID)))

		return err
	}
}

// authMiddleware checks for a token issued by signup or login
func (s *Stub) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		auth := c.Request().Header.Get("Authorization")
		if auth == "" {
			return errorJSON(c, http.StatusUnauthorized, "authorization required")
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth {
			return errorJSON(c, http.StatusUnauthorized, "invalid authorization format")
		}

		userID, ok := s.store.userForToken(token)
		if !ok {
			return errorJSON(c, http.StatusUnauthorized, "invalid token")
		}

		c.Set("user_id", userID)
		return next(c)
	}
}
