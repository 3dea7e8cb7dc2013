// Package validator wires go-playground/validator into Echo's Validate
// hook so request DTOs can declare their constraints as struct tags.
package validator

import (
	"net/http"

	playground "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator implements echo.Validator.
type RequestValidator struct {
	validate *playground.Validate
}

// New returns a ready-to-use RequestValidator.
func New() *RequestValidator {
	return &RequestValidator{validate: playground.New()}
}

// Validate checks a bound struct against its `validate` tags and converts
// failures into a 400 so handlers can return the error directly.
func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
