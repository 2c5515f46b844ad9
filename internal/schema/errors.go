package schema

import (
	"errors"
	"fmt"
)

const GenericErrorMessage = "Something went wrong, please try again."

var (
	ErrMissingQuoteToken = PreconditionError{Reason: "quote authorization token missing"}
	ErrMissingAccount    = PreconditionError{Reason: "account identifier missing"}
	ErrMissingSession    = PreconditionError{Reason: "session missing or expired"}
	ErrFlowBusy          = PreconditionError{Reason: "another change to this booking is still running"}

	// ErrMissingBookingAccess is returned before a booking call that carries
	// neither a session nor the booking reference and email.
	ErrMissingBookingAccess = PreconditionError{Reason: "booking reference and email missing"}

	ErrFlowNotFound    = errors.New("flow not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrChatNotFound    = errors.New("chat session not found")
)

// ValidationError is raised before any network call is attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field string, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// APIError is a non successful answer from a remote API. Message is the server
// provided `error` field and may be empty.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("api request failed: %v", e.Err)
	}

	return fmt.Sprintf("api error %d", e.StatusCode)
}

func (e APIError) Unwrap() error {
	return e.Err
}

func (e APIError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}

	return GenericErrorMessage
}

// PreconditionError is fatal to the current action and reported without a network attempt.
type PreconditionError struct {
	Reason string
}

func (e PreconditionError) Error() string {
	return e.Reason
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsAPI(err error) bool {
	var target APIError
	return errors.As(err, &target)
}

func IsPrecondition(err error) bool {
	var target PreconditionError
	return errors.As(err, &target)
}

// UserMessage is the inline message shown for err.
func UserMessage(err error) string {
	var validationErr ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}

	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}

	var preconditionErr PreconditionError
	if errors.As(err, &preconditionErr) {
		return "Unable to continue: " + preconditionErr.Reason + "."
	}

	return GenericErrorMessage
}
