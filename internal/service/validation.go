package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports a request that is empty or misses required fields.
type ValidationError struct {
	Message string
	Err     error
}

func NewValidationError(message string, err error) *ValidationError {
	return &ValidationError{Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

var errNoData = NewValidationError("No data provided", nil)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest checks the validate tags of req and turns failures into a
// single ValidationError naming every offending field.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NewValidationError("Invalid payload", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return NewValidationError(strings.Join(msgs, "; "), err)
}

func describe(fe validator.FieldError) string {
	// drop the struct name: "CreateOrderRequest.items[0].price" -> "items[0].price"
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	if fe.Tag() == "required" {
		return field + " is required"
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
