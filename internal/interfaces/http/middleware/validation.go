package middleware

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/eventi/backend/internal/domain/event"
	"github.com/eventi/backend/internal/domain/shared"
	"github.com/eventi/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Form level messages
const (
	MsgInvalidValue = "Valore non valido."
	MsgInvalidForm  = "I dati inviati non sono validi."
)

// SetupValidator names fields after their form keys and registers the
// custom form tags on gin's validator.
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})
	return dto.RegisterValidations(v)
}

// ValidationErrors translates a binding error into per-field messages.
// Errors that are not field validations land under the empty key.
func ValidationErrors(err error) *shared.ValidationError {
	ve := shared.NewValidationError()
	if err == nil {
		return ve
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		ve.Add("", MsgInvalidForm)
		return ve
	}
	for _, fe := range fieldErrors {
		ve.Add(fe.Field(), validationMessage(fe))
	}
	return ve
}

// validationMessage returns the Italian message of a failed tag
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return event.MsgRequired
	case "max":
		if fe.Kind() == reflect.String {
			if n, err := strconv.Atoi(fe.Param()); err == nil {
				return event.TooLongMessage(n)
			}
		}
		return MsgInvalidValue
	case dto.TagDate:
		return event.MsgInvalidDate
	case dto.TagDateFine:
		return event.MsgEndBeforeStart
	case "numeric":
		return event.MsgInvalidNumber
	case "oneof":
		return event.MsgInvalidChoice
	default:
		return MsgInvalidValue
	}
}
