package validator

import (
	"errors"
	"testing"
)

type signup struct {
	FullName string `validate:"required,min=3,max=30,alphaspace"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,password"`
	Phone    string `validate:"omitempty,phone"`
	Code     string `validate:"omitempty,otpcode"`
}

func TestV10Validator(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator: %v", err)
	}

	valid := signup{FullName: "Ada Lovelace", Email: "ada@example.com", Password: "Secret123", Phone: "01012345678", Code: "0427"}

	tests := []struct {
		name      string
		mutate    func(s *signup)
		wantField string
	}{
		{name: "valid", mutate: func(*signup) {}},
		{name: "name with digits", mutate: func(s *signup) { s.FullName = "Ada 2" }, wantField: "full_name"},
		{name: "password without upper", mutate: func(s *signup) { s.Password = "secret123" }, wantField: "password"},
		{name: "password without digit", mutate: func(s *signup) { s.Password = "SecretPass" }, wantField: "password"},
		{name: "password too short", mutate: func(s *signup) { s.Password = "Ab1" }, wantField: "password"},
		{name: "phone wrong operator", mutate: func(s *signup) { s.Phone = "01312345678" }, wantField: "phone"},
		{name: "code too long", mutate: func(s *signup) { s.Code = "12345" }, wantField: "code"},
		{name: "code letters", mutate: func(s *signup) { s.Code = "12a4" }, wantField: "code"},
		{name: "bad email", mutate: func(s *signup) { s.Email = "nope" }, wantField: "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			in := valid
			tt.mutate(&in)

			// Act
			err := v.Validate(in)

			// Assert
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}

			var verr V10ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want V10ValidationError", err)
			}
			if verr.Values()[tt.wantField] == "" {
				t.Fatalf("no message for %q in %v", tt.wantField, verr)
			}
		})
	}
}

func TestV10Validator_CustomMessages(t *testing.T) {
	// Arrange
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator: %v", err)
	}
	in := signup{FullName: "Ada 2", Email: "ada@example.com", Password: "Secret123"}

	// Act
	err = v.Validate(in)

	// Assert
	var verr V10ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() = %v, want V10ValidationError", err)
	}
	if got, want := verr.Values()["full_name"], "full_name can contain only letters and spaces"; got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
}
