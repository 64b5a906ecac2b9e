// Package validator checks request structs against `validate` tags.
//
// Usecases depend on the Validator interface; V10Validator is the
// go-playground/validator implementation with English messages and the
// project rules: password, alphaspace, otpcode and phone.
package validator

// Validator validates a struct, returning a V10ValidationError listing the
// failing fields.
type Validator interface {
	Validate(data any) error
}
