package fetch

import (
	"errors"

	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/services"
)

// queryError is what a Query exposes for err: the server's error payload for
// an HTTP error response, or err itself.
func queryError(err error) any {
	var httpErr *services.HTTPError
	if errors.As(err, &httpErr) && !httpErr.Transport() {
		return httpErr.Body
	}
	return err
}

// mutationError is like queryError but always yields an object for HTTP
// errors: a scalar body is wrapped as {"error": body}.
func mutationError(err error) any {
	var httpErr *services.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Transport() {
		return err
	}
	switch httpErr.Body.(type) {
	case map[string]any, []any:
		return httpErr.Body
	default:
		return map[string]any{"error": httpErr.Body}
	}
}
