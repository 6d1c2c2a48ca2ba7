// Package validation validates bridge configuration with struct tags.
package validation

import (
	stdErrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mexbridge/mexbridge/domain/entities"
	"github.com/mexbridge/mexbridge/domain/errors"
)

// validate is a package-level singleton; building a validator is expensive.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report yaml field names so errors match what users wrote.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return yamlName(fld.Tag.Get("yaml"), fld.Name)
	})
	return v
}

// ValidateRuntimeConfig checks cfg against its validation tags. The first
// failing field is reported as a *errors.ConfigError.
func ValidateRuntimeConfig(cfg *entities.RuntimeConfig) error {
	if cfg == nil {
		return &errors.ConfigError{Err: fmt.Errorf("runtime config is missing")}
	}
	return ValidateStruct(cfg)
}

// ValidateStruct validates any struct carrying `validate` tags.
func ValidateStruct(target any) error {
	err := validate.Struct(target)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if stdErrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &errors.ConfigError{
			Field: fe.Field(),
			Err:   fmt.Errorf("failed on the '%s' rule (value %q)", fe.Tag(), fmt.Sprint(fe.Value())),
		}
	}
	return &errors.ConfigError{Err: err}
}

// yamlName returns the yaml key of a field, falling back to its Go name.
func yamlName(tag, fallback string) string {
	name, _, _ := strings.Cut(tag, ",")
	switch name {
	case "":
		return fallback
	case "-":
		return ""
	default:
		return name
	}
}
