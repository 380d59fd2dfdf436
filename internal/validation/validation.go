// Package validation checks request payloads with struct tags and turns the
// failures into field-level messages keyed by the JSON field name.
//
// Besides the validator built-ins two tags are registered:
//
//	date   "YYYY-MM-DD"
//	clock  "HH:MM" or "HH:MM:SS"
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/wedding-marketplace/internal/model"
)

// Errors maps a JSON field name to its messages.
type Errors map[string][]string

// Add appends msg to the messages of field.
func (e Errors) Add(field, msg string) { e[field] = append(e[field], msg) }

// First returns the first message of field, or "".
func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			switch name {
			case "-":
				return ""
			case "":
				return f.Name
			}
			return name
		})
		must(v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
			_, err := model.ParseDate(fl.Field().String())
			return err == nil
		}))
		must(v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			_, err := model.ParseClock(fl.Field().String())
			return err == nil
		}))
		validate = v
	})
	return validate
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Struct validates s and returns nil when it passes.
func Struct(s any) Errors {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	out := Errors{}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		out.Add("input", err.Error())
		return out
	}
	for _, fe := range fields {
		out.Add(fe.Field(), Message(fe.Field(), fe.Tag(), fe.Param(), fe.Kind()))
	}
	return out
}

// Message renders the message for a failed rule.  kind is the kind of the
// checked value; it picks between "characters", "items" and plain numbers.
func Message(field, tag, param string, kind reflect.Kind) string {
	label := strings.ReplaceAll(field, "_", " ")
	unit := ""
	switch kind {
	case reflect.String:
		unit = " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		unit = " items"
	}
	switch tag {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", label)
	case "date":
		return fmt.Sprintf("The %s field must be a valid date.", label)
	case "clock":
		return fmt.Sprintf("The %s field must be a valid time.", label)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", label)
	case "min", "gte":
		return fmt.Sprintf("The %s field must be at least %s%s.", label, param, unit)
	case "max", "lte":
		return fmt.Sprintf("The %s field must not be greater than %s%s.", label, param, unit)
	case "url":
		return fmt.Sprintf("The %s field must be a valid URL.", label)
	}
	return fmt.Sprintf("The %s field is invalid.", label)
}
