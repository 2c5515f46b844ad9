package web

import (
	"errors"
	"net/http"

	"bitbucket.org/crgw/transfers-web/internal/schema"
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error         string `json:"error"`
	Field         string `json:"field,omitempty"`
	CorrelationId string `json:"correlationId,omitempty"`
}

// HandleError logs err and aborts the request with a JSON error body.
func HandleError(c *gin.Context, status int, message string, err error) {
	event := Logger(c).Warn()
	if status >= http.StatusInternalServerError {
		event = Logger(c).Error()
	}

	event.
		Err(err).
		Int("code", status).
		Msg(message)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:         message,
		CorrelationId: c.GetString(CorrelationIdKey),
	})
}

// StatusFor maps the error taxonomy onto HTTP status codes.
func StatusFor(err error) int {
	var (
		validationErr   schema.ValidationError
		apiErr          schema.APIError
		preconditionErr schema.PreconditionError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, schema.ErrMissingSession), errors.Is(err, schema.ErrSessionNotFound),
		errors.Is(err, schema.ErrMissingBookingAccess):
		return http.StatusUnauthorized
	case errors.As(err, &preconditionErr):
		return http.StatusPreconditionFailed
	case errors.Is(err, schema.ErrFlowNotFound), errors.Is(err, schema.ErrChatNotFound):
		return http.StatusNotFound
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// RespondError answers with the user facing message for a classified error.
func RespondError(c *gin.Context, err error) {
	status := StatusFor(err)

	message := schema.UserMessage(err)
	switch {
	case errors.Is(err, schema.ErrFlowNotFound):
		message = "This booking session has expired, please start again."
	case errors.Is(err, schema.ErrChatNotFound):
		message = "This conversation has expired, please start again."
	case errors.Is(err, schema.ErrSessionNotFound):
		message = "Please sign in again."
	}

	event := Logger(c).Warn()
	if status >= http.StatusInternalServerError {
		event = Logger(c).Error()
	}
	event.Err(err).Int("code", status).Msg("request failed")

	response := ErrorResponse{
		Error:         message,
		CorrelationId: c.GetString(CorrelationIdKey),
	}

	var validationErr schema.ValidationError
	if errors.As(err, &validationErr) {
		response.Field = validationErr.Field
	}

	c.AbortWithStatusJSON(status, response)
}
