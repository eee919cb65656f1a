package helper

import "github.com/go-playground/validator/v10"

var Validate = validator.New()

// ValidateStruct valide un DTO annote `validate:"..."`.
func ValidateStruct(s interface{}) error {
	return Validate.Struct(s)
}
