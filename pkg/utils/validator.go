package utils

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"movie-watchlist/internal/data/entity"

	"github.com/go-playground/validator/v10"
)

// FormErrors maps a form field name to its messages. Empty means valid.
type FormErrors map[string][]string

func (e FormErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// First returns the first message for field, or "".
func (e FormErrors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func (e FormErrors) Valid() bool {
	return len(e) == 0
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields under their form names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("schema"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	if err := v.RegisterValidation("movieyear", validateMovieYear); err != nil {
		panic(fmt.Sprintf("register movieyear validator: %v", err))
	}

	return v
}

// validateMovieYear accepts a decimal year between the first film and the
// latest accepted release year.
func validateMovieYear(fl validator.FieldLevel) bool {
	year, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
	if err != nil {
		return false
	}
	return year >= entity.MinMovieYear && year <= entity.MaxMovieYear
}

// ValidateForm checks form against its validate tags. A field's errorMsg tag
// replaces the default message for every rule except required.
func ValidateForm(form any) FormErrors {
	errs := FormErrors{}

	err := validate.Struct(form)
	if err == nil {
		return errs
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.Add("form", "This form is invalid.")
		return errs
	}

	for _, fieldErr := range validationErrors {
		errs.Add(fieldErr.Field(), errorMessage(form, fieldErr))
	}
	return errs
}

func errorMessage(form any, err validator.FieldError) string {
	if err.Tag() == "required" {
		return "This field is required."
	}

	t := reflect.TypeOf(form)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if field, found := t.FieldByName(err.StructField()); found {
		if msg := field.Tag.Get("errorMsg"); msg != "" {
			return msg
		}
	}

	switch err.Tag() {
	case "email":
		return "Invalid email address."
	case "url":
		return "Invalid URL."
	case "min":
		return fmt.Sprintf("Field must be at least %s characters long.", err.Param())
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", err.Param())
	case "eqfield":
		return fmt.Sprintf("Field must be equal to %s.", strings.ToLower(err.Param()))
	default:
		return "This field is invalid."
	}
}
