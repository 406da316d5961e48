package handlers

import (
	"errors"
	"net/http"

	"spotfinder/internal/api"
	"spotfinder/internal/middleware"
	contextutils "spotfinder/internal/utils"

	"github.com/gin-gonic/gin"
)

// asAppError maps backend failures onto the shared error taxonomy
func asAppError(err error) *contextutils.AppError {
	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		return netErr.AppError()
	}
	var appErr *contextutils.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return contextutils.NewAppErrorWithCause(
		contextutils.ErrorCodeInternalError,
		contextutils.SeverityError,
		"Internal server error",
		err.Error(),
		err,
	)
}

// HandleAppError sends err as a structured JSON error; used by the /api endpoints
func HandleAppError(c *gin.Context, err error) {
	middleware.StandardizeAppError(c, asAppError(err))
}

// HandleValidationError reports a bad path or query parameter as JSON
func HandleValidationError(c *gin.Context, field, value, reason string) {
	middleware.StandardizeAppError(c, contextutils.NewAppError(
		contextutils.ErrorCodeInvalidInput,
		contextutils.SeverityWarn,
		"Invalid "+field,
		"Value '"+value+"' is invalid: "+reason,
	))
}

// renderErrorPage shows the HTML error page for err
func renderErrorPage(c *gin.Context, err error) {
	appErr := asAppError(err)
	status := middleware.StatusForCode(appErr.Code)
	_ = c.Error(err)
	c.HTML(status, "error.html", page(c, http.StatusText(status), "", gin.H{
		"Status":  status,
		"Message": errorPageMessage(appErr),
	}))
}

func errorPageMessage(appErr *contextutils.AppError) string {
	switch appErr.Code {
	case contextutils.ErrorCodeRecordNotFound:
		return "That study spot could not be found."
	case contextutils.ErrorCodeNetwork:
		return "The study spot service is not reachable right now. Please try again later."
	case contextutils.ErrorCodeInvalidInput:
		return appErr.Message
	default:
		return "Something went wrong. Please try again."
	}
}
