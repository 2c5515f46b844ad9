package validating

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"bitbucket.org/crgw/transfers-web/internal/schema"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Struct runs the binding tags of v through gin's validator and returns the
// first failure as a schema.ValidationError.
func Struct(v any) error {
	if err := binding.Validator.ValidateStruct(v); err != nil {
		return FromError(err)
	}

	return nil
}

// FromError converts binding and validation failures into schema.ValidationError.
// Other errors are returned unchanged.
func FromError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fieldErr := validationErrors[0]
		return schema.NewValidationError(fieldName(fieldErr.Field()), label(fieldErr.Field())+" "+message(fieldErr))
	}

	if errors.Is(err, openapi_types.ErrValidationEmail) {
		return schema.NewValidationError("email", "Email must be a valid email address")
	}

	if errors.Is(err, io.EOF) {
		return schema.NewValidationError("", "request body is required")
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return schema.NewValidationError("", "request body is not valid JSON")
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return schema.NewValidationError(typeErr.Field, label(typeErr.Field)+" has the wrong type")
	}

	// encoding/json does not say which field a failed time.Time belongs to
	var parseErr *time.ParseError
	if errors.As(err, &parseErr) {
		return schema.NewValidationError("", fmt.Sprintf("%q is not a valid date and time, use a format like 2026-10-20T09:30:00Z", parseErr.Value))
	}

	return err
}

func fieldName(name string) string {
	if name == "" {
		return name
	}

	runes := []rune(name)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// label turns a json field path into words for the user, "journey.pickupAt"
// becomes "Pickup at".
func label(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		path = path[i+1:]
	}
	if path == "" {
		return "Value"
	}

	var words strings.Builder
	for i, r := range path {
		switch {
		case i == 0:
			words.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			words.WriteRune(' ')
			words.WriteRune(unicode.ToLower(r))
		default:
			words.WriteRune(r)
		}
	}

	return words.String()
}

func message(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min", "max", "len":
		return "has an invalid length"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fieldErr.Param(), " ", ", ")
	case "gte", "lte", "gt", "lt":
		return "is out of range"
	default:
		return "is invalid"
	}
}
