// Package validation wraps the request validator used at the HTTP boundary.
package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	pkgerrors "canvas-backend/pkg/errors"
)

var (
	instance *validator.Validate
	once     sync.Once
)

func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New()
		// Use JSON tag names in error messages
		instance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return instance
}

// ValidateStruct validates a request DTO against its struct tags
func ValidateStruct(s interface{}) error {
	if err := get().Struct(s); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok {
			messages := make([]string, 0, len(fieldErrors))
			for _, fieldErr := range fieldErrors {
				messages = append(messages, fieldErr.Field()+" failed "+fieldErr.Tag()+" validation")
			}
			return pkgerrors.NewValidationError(strings.Join(messages, "; "))
		}
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}
