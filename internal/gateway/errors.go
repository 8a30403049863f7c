package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a gateway failure
type Kind int

const (
	// KindTransport means the service could not be reached
	KindTransport Kind = iota + 1
	// KindStatus is a non-2xx response carrying a readable error message
	KindStatus
	// KindStatusNoBody is a non-2xx response without a parseable message
	KindStatusNoBody
	// KindDecode is a 2xx response whose body did not match the expected shape
	KindDecode
)

// String returns a short name for the kind
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindStatusNoBody:
		return "status_no_body"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is the single failure shape returned by the gateway.
// Message is always suitable for showing to the user.
type Error struct {
	Service    Service
	Method     string
	Path       string
	StatusCode int
	Kind       Kind
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts a *Error from err's chain
func AsError(err error) (*Error, bool) {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr, true
	}
	return nil, false
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	if gwErr, ok := AsError(err); ok {
		return gwErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 from any service
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// synthesizeMessage builds a message from the status code alone
func synthesizeMessage(svc Service, code int) string {
	text := http.StatusText(code)
	if text == "" {
		return fmt.Sprintf("%s service returned status %d", svc.Label(), code)
	}
	return fmt.Sprintf("%s service returned %d %s", svc.Label(), code, text)
}
