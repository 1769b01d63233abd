package helper

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindForbidden
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// ServiceError is returned by feature services; controllers render it via
// WriteServiceError.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Fields  map[string][]string
}

func (e *ServiceError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	parts := make([]string, 0, len(e.Fields))
	for f, msgs := range e.Fields {
		parts = append(parts, f+": "+strings.Join(msgs, "; "))
	}
	return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, strings.Join(parts, ", "))
}

func NotFound(format string, args ...any) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *ServiceError {
	return &ServiceError{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// Invalid builds a validation error for a single field.
func Invalid(field, msg string) *ServiceError {
	return &ServiceError{
		Kind:    KindValidation,
		Message: "validation failed",
		Fields:  map[string][]string{field: {msg}},
	}
}

func InvalidFields(fields map[string][]string) *ServiceError {
	return &ServiceError{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

func IsKind(err error, kind ErrorKind) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Kind == kind
}

// WriteServiceError renders err into the JSON envelope. input is echoed back
// on validation failures; redirectTo is sent with forbidden responses.
func WriteServiceError(c *fiber.Ctx, err error, input any, redirectTo string) error {
	var se *ServiceError
	if errors.As(err, &se) {
		switch se.Kind {
		case KindNotFound:
			return JsonError(c, fiber.StatusNotFound, se.Message)
		case KindForbidden:
			return JsonForbidden(c, se.Message, redirectTo)
		case KindValidation:
			return JsonValidationError(c, se.Fields, input)
		}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
	return JsonError(c, fiber.StatusInternalServerError, "")
}

// ValidationFields flattens validator or service errors into field -> messages,
// keyed by the json field name.
func ValidationFields(err error) map[string][]string {
	out := map[string][]string{}
	var se *ServiceError
	if errors.As(err, &se) && len(se.Fields) > 0 {
		for k, v := range se.Fields {
			out[k] = append(out[k], v...)
		}
		return out
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		out["_"] = []string{err.Error()}
		return out
	}
	for _, fe := range ve {
		name := fe.Field()
		out[name] = append(out[name], describeTag(fe))
	}
	return out
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "minwords":
		return "must contain at least " + fe.Param() + " words"
	case "uuid":
		return "must be a valid id"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}
