// Package validate wraps a shared validator instance for request DTOs.
package validate

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/tmasri/hometab/pkg/apperrors"
)

var v = validator.New(validator.WithRequiredStructEnabled())

// Struct validates the struct's `validate` tags and reports failures as
// ErrInvalidRequest so handlers can map them uniformly.
func Struct(s interface{}) error {
	if err := v.Struct(s); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidRequest, err.Error())
	}
	return nil
}
