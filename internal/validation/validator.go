// Package validation adapts go-playground/validator to echo.Validator.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/fleetops/fleetcheck"
	"github.com/go-playground/validator/v10"
	"github.com/golang-sql/civil"
)

// Validator implements echo.Validator using struct tags.
//
// Usage in http/server.go:
//
//	s.echo.Validator = validation.NewValidator()
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that reports fields by their JSON name and
// knows the fleet-specific tags "vehicletype", "status" and "date".
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	RegisterCustomValidators(v)

	return &Validator{
		validate: v,
	}
}

// Validate validates a struct using its validation tags. Failures are
// returned as an EINVALID error carrying one message per field.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			return fleetcheck.ErrorWithFields(FormatValidationErrors(err))
		}
		return err
	}
	return nil
}

// RegisterCustomValidators registers the fleet-specific validation tags.
func RegisterCustomValidators(v *validator.Validate) {
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("vehicletype", validateVehicleType)
	_ = v.RegisterValidation("status", validateStatus)
	_ = v.RegisterValidation("date", validateDate)
}

// validateVehicleType accepts BUS or TRAM in any case.
func validateVehicleType(fl validator.FieldLevel) bool {
	_, err := fleetcheck.ParseVehicleType(fl.Field().String())
	return err == nil
}

// validateStatus accepts OK or NOK.
func validateStatus(fl validator.FieldLevel) bool {
	return fleetcheck.Status(fl.Field().String()).IsValid()
}

// validateDate accepts a YYYY-MM-DD calendar date.
func validateDate(fl validator.FieldLevel) bool {
	_, err := civil.ParseDate(fl.Field().String())
	return err == nil
}

// FormatValidationErrors converts validator errors to field -> message pairs.
//
// Example output:
//
//	{
//	  "fleetNumber": "is required",
//	  "type": "must be BUS or TRAM",
//	  "results[3].status": "must be OK or NOK"
//	}
func FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["_error"] = err.Error()
		return errors
	}

	for _, fieldErr := range validationErrors {
		fieldName := fieldPath(fieldErr.Namespace())

		switch fieldErr.Tag() {
		case "required":
			errors[fieldName] = "is required"
		case "email":
			errors[fieldName] = "must be a valid email address"
		case "min":
			if fieldErr.Kind() == reflect.String {
				errors[fieldName] = fmt.Sprintf("must be at least %s characters", fieldErr.Param())
			} else {
				errors[fieldName] = fmt.Sprintf("must contain at least %s", fieldErr.Param())
			}
		case "max":
			if fieldErr.Kind() == reflect.String {
				errors[fieldName] = fmt.Sprintf("must be no more than %s characters", fieldErr.Param())
			} else {
				errors[fieldName] = fmt.Sprintf("must contain no more than %s", fieldErr.Param())
			}
		case "uuid":
			errors[fieldName] = "must be a valid UUID"
		case "oneof":
			errors[fieldName] = fmt.Sprintf("must be one of: %s", fieldErr.Param())
		case "vehicletype":
			errors[fieldName] = "must be BUS or TRAM"
		case "status":
			errors[fieldName] = "must be OK or NOK"
		case "date":
			errors[fieldName] = "must be a date in YYYY-MM-DD format"
		default:
			errors[fieldName] = fmt.Sprintf("failed validation: %s", fieldErr.Tag())
		}
	}

	return errors
}

// fieldPath drops the top-level struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
