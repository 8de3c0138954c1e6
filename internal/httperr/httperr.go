package httperr

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huseyingedek/geras-api/internal/logger"
)

type HTTPError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Reason  string `json:"reason,omitempty"`
	Details any    `json:"details,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ExposeInternal echoes raw error text in 500 bodies. Off in production.
var ExposeInternal = true

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Success: false,
		Message: message,
		Error:   code,
	})
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

// Abort writes the error envelope and stops the middleware chain.
func Abort(c *gin.Context, status int, code string) {
	c.AbortWithStatusJSON(status, HTTPError{
		Success: false,
		Message: MessageFor(code),
		Error:   code,
	})
}

// Respond maps any use-case error onto the response envelope.
func Respond(c *gin.Context, err error) {
	if be, ok := AsBusiness(err); ok {
		body := HTTPError{
			Success: false,
			Message: be.Message,
			Error:   be.Code,
			Reason:  be.Code,
			Details: be.Details,
		}
		c.JSON(be.Status, body)
		return
	}

	if IsLockTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		c.JSON(http.StatusServiceUnavailable, HTTPError{
			Success: false,
			Message: "Sistem yoğun, lütfen tekrar deneyin.",
			Error:   "TRANSACTION_TIMEOUT",
		})
		return
	}

	logger.ErrorWithStack(err).Str("path", c.FullPath()).Msg("unhandled request error")

	body := HTTPError{
		Success: false,
		Message: MessageFor(CodeInternal),
		Error:   CodeInternal,
	}
	if ExposeInternal {
		body.Details = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}
