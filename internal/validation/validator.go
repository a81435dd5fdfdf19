// Package validation validates request parameters using validator/v10.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error lists field problems keyed by the field's JSON name.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "invalid parameters: " + strings.Join(parts, "; ")
}

// Validator wraps go-playground/validator.
type Validator struct {
	v *validator.Validate
}

// New creates a validator that reports JSON field names.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// RegisterStruct adds a cross-field rule for the given struct types.
func (v *Validator) RegisterStruct(fn validator.StructLevelFunc, types ...any) {
	v.v.RegisterStructValidation(fn, types...)
}

// Validate checks s and returns *Error on failure.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = friendly(fe)
	}
	return out
}

func friendly(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_with":
		if e.Param() != "" {
			return "is required with " + e.Param()
		}
		return "is required"
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gtefield":
		return "must not be before " + e.Param()
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}
