package handler

import (
	"github.com/go-playground/validator/v10"
)

// Validator adapts go-playground/validator to Echo's Validator
// interface.  Register it once on the Echo instance; handlers then call
// c.Validate on bound request bodies.
type Validator struct {
	validate *validator.Validate
}

// NewValidator returns a Validator with the default tag rules.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}
