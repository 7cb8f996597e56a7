// Package validation checks request structs against their `validate` tags and
// reports every failing field at once.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var ErrInvalid = errors.New("validation failed")

type Problem struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Result is the outcome of Check. The zero value means the input is valid.
type Result struct {
	Problems []Problem
}

func (r Result) OK() bool { return len(r.Problems) == 0 }

// Err returns nil for a valid result and an *Error otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &Error{Problems: r.Problems}
}

func (r *Result) Add(field, rule, message string) {
	r.Problems = append(r.Problems, Problem{Field: field, Rule: rule, Message: message})
}

type Error struct {
	Problems []Problem
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e *Error) Unwrap() error { return ErrInvalid }

var (
	once     sync.Once
	validate *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Check validates v, which must be a struct or a pointer to one.
func Check(v any) Result {
	var res Result
	err := engine().Struct(v)
	if err == nil {
		return res
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.Add("", "invalid", err.Error())
		return res
	}
	for _, fe := range verrs {
		res.Add(fe.Field(), fe.Tag(), message(fe))
	}
	return res
}

func message(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return f + " is required"
	case "email":
		return f + " must be a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", f, fe.Param())
		}
		return fmt.Sprintf("%s must have at least %s items", f, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", f, fe.Param())
	case "eqfield":
		return "passwords don't match"
	default:
		return fmt.Sprintf("%s is invalid (%s)", f, fe.Tag())
	}
}
