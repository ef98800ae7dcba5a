// Package validation wraps go-playground/validator with the tags used by
// request DTOs and generated payloads.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const DateLayout = "2006-01-02"

var (
	goals = map[string]bool{
		"lose_weight": true, "gain_muscle": true, "maintain": true, "improve_fitness": true,
	}
	activityLevels = map[string]bool{
		"sedentary": true, "light": true, "moderate": true, "very_active": true, "very": true, "extreme": true,
	}
)

// New returns a validator with the custom tags registered. Field names in
// errors use the json tag so messages match the wire format.
func New() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("goal", func(fl validator.FieldLevel) bool {
		return goals[fl.Field().String()]
	})
	v.RegisterValidation("activity_level", func(fl validator.FieldLevel) bool {
		return activityLevels[fl.Field().String()]
	})
	v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})
	v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})

	return v
}

// strongPassword requires at least one lowercase letter, one uppercase letter
// and one digit.
func strongPassword(s string) bool {
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

// Message flattens a validation error into one human readable line.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fieldMessage(fe))
	}
	return strings.Join(parts, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_without":
		return fmt.Sprintf("%s is required when %s is empty", field, strings.ToLower(fe.Param()))
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be > %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "goal":
		return fmt.Sprintf("%s must be one of [lose_weight gain_muscle maintain improve_fitness]", field)
	case "activity_level":
		return fmt.Sprintf("%s must be one of [sedentary light moderate very_active extreme]", field)
	case "date":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	case "password":
		return fmt.Sprintf("%s must contain at least one lowercase letter, one uppercase letter, and one number", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// ParseDate parses an optional YYYY-MM-DD query value.
func ParseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return &t, nil
}

// ParseRange parses optional startDate/endDate values. An end before the
// start is rejected.
func ParseRange(startRaw, endRaw string) (from, to *time.Time, err error) {
	if from, err = ParseDate(startRaw); err != nil {
		return nil, nil, fmt.Errorf("startDate: %w", err)
	}
	if to, err = ParseDate(endRaw); err != nil {
		return nil, nil, fmt.Errorf("endDate: %w", err)
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, errors.New("endDate must not be before startDate")
	}
	return from, to, nil
}

// ParseLimit parses an optional limit in [1, max]; empty means def.
func ParseLimit(raw string, def, max int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > max {
		return 0, fmt.Errorf("limit must be between 1 and %d", max)
	}
	return n, nil
}
