package handler

import "github.com/go-playground/validator/v10"

// Validator adapts go-playground/validator to echo.Validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new request validator
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate validates a request struct using its validate tags
func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}
