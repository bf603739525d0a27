// Package validation validates request DTOs with go-playground/validator and
// registers the profile and content enumerations as custom tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/eligibility"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// GetValidator returns the shared validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// report json names so field errors match request bodies
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})

		mustRegister("agebracket", oneOf(eligibility.AgeBrackets))
		mustRegister("gender", oneOf(eligibility.Genders))
		mustRegister("disease", oneOf(eligibility.Diseases))
		mustRegister("energysource", oneOf(eligibility.EnergySources))
		mustRegister("aqcategory", func(fl validator.FieldLevel) bool {
			return eligibility.Category(fl.Field().String()).Valid()
		})
	})

	return validate
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

func oneOf(values []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return eligibility.IsOneOf(fl.Field().String(), values)
	}
}

// Validate checks s and returns an apperr Validation error with one message
// per failing field, or nil.
func Validate(s interface{}) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperr.Invalid(map[string]string{"body": err.Error()})
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fieldErr := range validationErrs {
		key := strings.TrimPrefix(fieldErr.Namespace(), structName(s)+".")
		if _, exists := fields[key]; !exists {
			fields[key] = translateError(fieldErr)
		}
	}
	return apperr.Invalid(fields)
}

func structName(s interface{}) string {
	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

var errorMessageTemplates = map[string]string{
	"required":     "%s is required",
	"email":        "%s must be a valid email address",
	"url":          "%s must be a valid URL",
	"uuid":         "%s must be a valid UUID",
	"agebracket":   "%s must be one of: " + strings.Join(eligibility.AgeBrackets, " "),
	"gender":       "%s must be one of: " + strings.Join(eligibility.Genders, " "),
	"disease":      "%s must be one of: " + strings.Join(eligibility.Diseases, " "),
	"energysource": "%s must be one of: " + strings.Join(eligibility.EnergySources, " "),
	"aqcategory":   "%s must be a valid air quality category",
}

var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

func translateError(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	isString := fe.Kind() == reflect.String
	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
