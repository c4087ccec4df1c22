package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/healthmate/healthmate-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondWithError sends an error response. AppErrors carry their own status
// and message; anything else becomes a generic 500, with the internal detail
// exposed only outside release mode.
func RespondWithError(c *gin.Context, err error) {
	if appErr, ok := errors.As(err); ok {
		resp := Response{Success: false, Message: appErr.Message}
		if appErr.Status() >= http.StatusInternalServerError && gin.Mode() != gin.ReleaseMode && appErr.Err != nil {
			resp.Error = appErr.Err.Error()
		}
		c.JSON(appErr.Status(), resp)
		return
	}

	log.Error().
		Err(err).
		Str("path", c.Request.URL.Path).
		Str("method", c.Request.Method).
		Msg("unhandled error")

	resp := Response{Success: false, Message: "Something went wrong!"}
	if gin.Mode() != gin.ReleaseMode {
		resp.Error = err.Error()
	}
	c.JSON(http.StatusInternalServerError, resp)
}
