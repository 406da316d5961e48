package api

import (
	"errors"
	"fmt"
	"net/http"

	contextutils "spotfinder/internal/utils"
)

// NetworkError reports a failed backend call: a transport failure, a non-2xx status
// or a reply that could not be decoded. errors.Is(err, contextutils.ErrNetwork) holds for it.
type NetworkError struct {
	Op         string
	StatusCode int
	Body       string
	Cause      error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: backend returned %d", e.Op, e.StatusCode)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Cause)
	default:
		return e.Op + ": request failed"
	}
}

// Unwrap exposes both the taxonomy sentinel and the underlying cause
func (e *NetworkError) Unwrap() []error {
	if e.Cause == nil {
		return []error{contextutils.ErrNetwork}
	}
	return []error{contextutils.ErrNetwork, e.Cause}
}

// AppError converts to the shared error taxonomy. A 404 becomes RECORD_NOT_FOUND.
func (e *NetworkError) AppError() *contextutils.AppError {
	if e.StatusCode == http.StatusNotFound {
		return contextutils.NewAppErrorWithCause(contextutils.ErrorCodeRecordNotFound, contextutils.SeverityInfo,
			"Study spot not found", e.Error(), e)
	}
	return contextutils.NewAppErrorWithCause(contextutils.ErrorCodeNetwork, contextutils.SeverityError,
		contextutils.ErrNetwork.Message, e.Error(), e)
}

// IsNotFound reports whether err is a backend 404
func IsNotFound(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr) && netErr.StatusCode == http.StatusNotFound
}
