package utils

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	vo "adpilot/internal/domain/permission/valueobjects"
	"adpilot/internal/shared/errors"
)

var validate *validator.Validate

// customValidations are the tags shared by ValidateStruct and gin binding.
var customValidations = map[string]validator.Func{
	"perm_part": func(fl validator.FieldLevel) bool {
		return vo.IsIdentifier(fl.Field().String())
	},
}

func init() {
	validate = validator.New()
	if err := configureValidator(validate); err != nil {
		panic(err)
	}
}

var registerOnce sync.Once

// RegisterBindingValidators installs the custom tags on gin's binding
// engine so `binding:"perm_part"` works in request structs. It panics if a
// tag cannot be registered.
func RegisterBindingValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			if err := configureValidator(v); err != nil {
				panic(err)
			}
		}
	})
}

func configureValidator(v *validator.Validate) error {
	// Use JSON tag names for validation errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return registerValidations(v, customValidations)
}

func registerValidations(v *validator.Validate, funcs map[string]validator.Func) error {
	for tag, fn := range funcs {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %q validation: %w", tag, err)
		}
	}
	return nil
}

// ValidateStruct validates a struct and returns a user-friendly error
func ValidateStruct(s interface{}) error {
	return BindingError(validate.Struct(s))
}

// BindingError converts a ShouldBind* failure into an AppError. Field
// failures become a validation error, anything else a bad request.
func BindingError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) {
		return errors.NewBadRequestError("Invalid request body", err.Error())
	}
	if len(validationErrors) == 0 {
		return nil
	}

	// Create a detailed error message
	errorMessages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		errorMessages = append(errorMessages, getFieldErrorMessage(fieldError))
	}

	return errors.NewValidationError(
		"Validation failed",
		strings.Join(errorMessages, "; "),
	)
}

// getFieldErrorMessage returns a user-friendly error message for a field validation error
func getFieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, param)
	case "alphanum":
		return fmt.Sprintf("%s must contain only alphanumeric characters", field)
	case "perm_part":
		return fmt.Sprintf("%s must start with a lowercase letter and contain only lowercase letters, digits and underscores", field)
	default:
		return fmt.Sprintf("%s failed validation for '%s'", field, tag)
	}
}
