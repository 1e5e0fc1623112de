package catalog

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/five82/discografia/internal/crud"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// present rejects whitespace-only strings, which required lets through.
		_ = v.RegisterValidation("present", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		validate = v
	})
	return validate
}

// firstFailure validates record and maps the first failing field to its
// message. Fields are checked in declaration order.
func firstFailure(record any, messages map[string]string) *crud.ValidationError {
	err := structValidator().Struct(record)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &crud.ValidationError{Message: err.Error()}
	}
	field := fieldErrs[0].Field()
	msg, ok := messages[field]
	if !ok {
		msg = fieldErrs[0].Error()
	}
	return &crud.ValidationError{Field: field, Message: msg}
}
