package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mouwaficbdr/my-facebook/internal/config"
	"github.com/mouwaficbdr/my-facebook/internal/logger"
	"github.com/mouwaficbdr/my-facebook/internal/validator"
	"github.com/mouwaficbdr/my-facebook/pkg/apperrors"
)

type BaseHandler struct {
	validator    *validator.Validator
	errorHandler *apperrors.GinErrorHandler
}

func NewBaseHandler(v *validator.Validator, env config.Environment) *BaseHandler {
	return &BaseHandler{
		validator: v,
		errorHandler: &apperrors.GinErrorHandler{
			Debug: !env.IsProduction(),
		},
	}
}

// BindAndValidateJSON binds the JSON body into obj and runs the field rules.
// On failure it writes the error response and returns false.
func (h *BaseHandler) BindAndValidateJSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind JSON body", err, "path", c.Request.URL.Path)
		h.errorHandler.HandleGinError(c, apperrors.NewBadRequestError("Invalid request body"))
		return false
	}

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			h.errorHandler.HandleGinError(c, apperrors.ValidationError(vErr.Errors))
		} else {
			logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
			h.errorHandler.HandleGinError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

// HandleServiceError logs and writes a service-layer error.
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	if appErr, ok := apperrors.AsAppError(err); ok {
		if appErr.HTTPCode >= 500 {
			logger.CtxWithError(ctx, "Service error", appErr, "path", c.Request.URL.Path)
		} else {
			logger.CtxWarn(ctx, "Service error", "error", appErr.Message, "path", c.Request.URL.Path)
		}
		h.errorHandler.HandleGinError(c, appErr)
		return
	}

	logger.CtxWithError(ctx, "Internal server error", err, "path", c.Request.URL.Path)
	h.errorHandler.HandleGinError(c, apperrors.InternalError(err))
}
