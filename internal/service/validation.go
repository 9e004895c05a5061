package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/boltpath-api/internal/models"
	appErrors "github.com/noah-isme/boltpath-api/pkg/errors"
)

var phonePattern = regexp.MustCompile(`^\(\d{3}\) \d{3}-\d{4}$`)

// NewValidator returns a validator that reports json field names and knows the
// roster specific tags: phone and notpast. now defaults to the wall clock.
func NewValidator(now func() time.Time) *validator.Validate {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notpast", func(fl validator.FieldLevel) bool {
		due, err := time.Parse(models.DueDateLayout, fl.Field().String())
		if err != nil {
			return false
		}
		current := now()
		today := time.Date(current.Year(), current.Month(), current.Day(), 0, 0, 0, 0, time.UTC)
		return !due.Before(today)
	})
	return v
}

// FormatPhone re-formats whatever digits were typed into (XXX) XXX-XXXX,
// leaving shorter inputs partially formatted so validation can reject them.
func FormatPhone(value string) string {
	var digits strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	switch {
	case len(d) <= 3:
		return d
	case len(d) <= 6:
		return fmt.Sprintf("(%s) %s", d[:3], d[3:])
	default:
		if len(d) > 10 {
			d = d[:10]
		}
		return fmt.Sprintf("(%s) %s-%s", d[:3], d[3:6], d[6:])
	}
}

// compactStrings trims entries and drops blank ones.
func compactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// validationError converts validator output into a VALIDATION_ERROR with
// one message per offending field.
func validationError(err error, message string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fieldPath(fe.Namespace())
		if _, exists := fields[key]; exists {
			continue
		}
		fields[key] = describe(fe)
	}
	e := appErrors.Validation(message, fields)
	e.Err = err
	return e
}

func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "alphanum":
		return "must contain only letters and digits"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "phone":
		return "must be in format (XXX) XXX-XXXX"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "notpast":
		return "must not be in the past"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// fieldError builds a single-field validation error for checks that need roster state.
func fieldError(field, message string) error {
	return appErrors.Validation("invalid payload", map[string]string{field: message})
}
