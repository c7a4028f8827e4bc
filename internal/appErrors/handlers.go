package appErrors

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradelink_backend/internal/logger"
)

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// HandleError writes err to the Gin response, converting anything that is
// not an *AppError into a 500. Server-side errors are logged with request
// context; the raw cause is never leaked for those.
func HandleError(c *gin.Context, err error) {
	var appErr *AppError
	if !As(err, &appErr) {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= http.StatusInternalServerError {
		logger.CtxWithError(c.Request.Context(), "request failed", err,
			"code", string(appErr.Code),
			"path", c.Request.URL.Path,
		)
	}

	c.JSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}
