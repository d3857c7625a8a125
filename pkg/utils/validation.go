package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldError is one rejected input field, named as it appears in JSON.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every invalid field of a request at once.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func InvalidField(field, message string) *ValidationError {
	return NewValidationError(FieldError{Field: field, Message: message})
}

var validate = func() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	registerValidators(v)
	return v
}()

var emailCheck = validator.New()

// trimmedEmail accepts an email address padded with whitespace. Callers
// trim and lowercase it before storing or looking it up.
func trimmedEmail(fl validator.FieldLevel) bool {
	return emailCheck.Var(strings.TrimSpace(fl.Field().String()), "required,email") == nil
}

func registerValidators(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("trimmed_email", trimmedEmail)
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// RegisterBindingValidators gives gin's binding validator the same field
// names and custom tags as ValidateStruct, so bind errors and service
// validation errors look the same.
func RegisterBindingValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerValidators(v)
	}
}

// ValidateStruct checks the `binding` tags of s.
func ValidateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		return FromValidatorError(err)
	}
	return nil
}

// FromValidatorError converts validator output into a *ValidationError.
// Anything else (malformed JSON, wrong types) becomes a single "body" error.
func FromValidatorError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return NewValidationError(FieldError{Field: "body", Message: "invalid request format"})
	}
	fields := make([]FieldError, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return NewValidationError(fields...)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email", "trimmed_email":
		return "must be a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "must be a date formatted YYYY-MM-DD"
	case "uuid", "uuid4":
		return "must be a valid id"
	}
	return "is invalid"
}
