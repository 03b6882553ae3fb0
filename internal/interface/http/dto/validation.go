package dto

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields under their form names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError lists the messages to show next to each invalid form field.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid fields: " + strings.Join(names, ", ")
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// MissingFieldsMessage is the form-level message shown when validation fails.
func MissingFieldsMessage(action string) string {
	return "Missing Fields. Failed to " + action + "."
}

// check runs the struct tags and maps each failing field to its message.
func check(form interface{}, messages map[string]string) *ValidationError {
	verr := &ValidationError{}

	err := validate.Struct(form)
	if err == nil {
		return verr
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.add("form", err.Error())
		return verr
	}
	for _, fe := range fieldErrs {
		field := fe.Field()
		if len(verr.Fields[field]) > 0 {
			continue
		}
		msg, ok := messages[field]
		if !ok {
			msg = "Invalid value."
		}
		verr.add(field, msg)
	}
	return verr
}
