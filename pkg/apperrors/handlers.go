package apperrors

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the wire envelope for failures. Field-level validation
// problems go into Errors; everything else is a single terse message.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Errors  interface{} `json:"errors,omitempty"`
}

// GinErrorHandler writes AppErrors as JSON. With Debug disabled the internal
// error text of 5xx responses is replaced by a generic message.
type GinErrorHandler struct {
	Debug bool
}

func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	message := appErr.Message
	var details interface{}
	if appErr.Code == CodeValidationFailed {
		details = appErr.Details
	}
	if appErr.HTTPCode >= 500 && !h.Debug {
		message = "Internal server error"
		details = nil
	}

	c.JSON(appErr.HTTPCode, ErrorResponse{
		Success: false,
		Message: message,
		Errors:  details,
	})
}

// AsAppError converts err to *AppError when possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
