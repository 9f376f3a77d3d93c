// AngelaMos | 2026
// validation.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxJSONBody = 1 << 20

// NewValidator reports field errors under their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate runs v against s and converts failures into a 422 AppError.
func Validate(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return InternalError(err, "")
	}

	return ValidationError(ValidationFields(err))
}

func ValidationFields(err error) map[string][]string {
	fields := make(map[string][]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["body"] = []string{err.Error()}
		return fields
	}

	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", field, fe.Param())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("The %s field confirmation does not match.", strings.ToLower(fe.Param()))
	case "gt", "gte":
		return fmt.Sprintf("The %s field must be greater than %s.", field, fe.Param())
	case "numeric":
		return fmt.Sprintf("The %s field must be a number.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}

// DecodeJSON reads a bounded JSON body into dst. Type mismatches are
// reported against the offending field.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)

	err := json.NewDecoder(body).Decode(dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		field := typeErr.Field
		return FieldError(field, fmt.Sprintf(
			"The %s field must be of type %s.",
			strings.ReplaceAll(field, "_", " "),
			jsonTypeName(typeErr.Type),
		))
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return FieldError("body", "The request body must be valid JSON.")
	case errors.Is(err, io.EOF):
		return FieldError("body", "The request body is required.")
	case errors.As(err, &tooLarge):
		return FieldError("body", "The request body is too large.")
	default:
		var fieldErr *FieldDecodeError
		if errors.As(err, &fieldErr) {
			return FieldError(fieldErr.Field, fieldErr.Message)
		}
		return FieldError("body", "The request body is invalid.")
	}
}

// FieldDecodeError lets custom UnmarshalJSON implementations attach their
// failure to a field.
type FieldDecodeError struct {
	Field   string
	Message string
}

func (e *FieldDecodeError) Error() string {
	return e.Field + ": " + e.Message
}

func jsonTypeName(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}
