package presenter

import (
	"fmt"
	"net/http"

	"github.com/existflow/taskboard/internal/gateway"
)

// FailurePlaceholder builds the inline error state for a failed load of
// resource from the service at addr
func FailurePlaceholder(resource string, svc gateway.Service, addr string) func(error) Placeholder {
	return func(err error) Placeholder {
		return Placeholder{
			Kind:    PlaceholderError,
			Title:   "Could not load " + resource,
			Message: err.Error(),
			Hint:    remediation(svc, addr, err),
		}
	}
}

func remediation(svc gateway.Service, addr string, err error) string {
	gwErr, ok := gateway.AsError(err)
	if !ok {
		return fmt.Sprintf("Confirm the %s service is reachable at %s.", svc.Label(), addr)
	}

	switch {
	case gwErr.Kind == gateway.KindTransport:
		return fmt.Sprintf("Confirm the %s service is reachable at %s.", svc.Label(), addr)
	case gwErr.StatusCode == http.StatusUnauthorized, gwErr.StatusCode == http.StatusForbidden:
		return "Your session may have expired. Log out and sign in again."
	case gwErr.Kind == gateway.KindDecode:
		return fmt.Sprintf("Check that %s points at the %s service.", addr, svc.Label())
	case gwErr.StatusCode >= 500:
		return fmt.Sprintf("The %s service at %s reported a problem. Try again shortly.", svc.Label(), addr)
	default:
		return fmt.Sprintf("Confirm the %s service is reachable at %s.", svc.Label(), addr)
	}
}
