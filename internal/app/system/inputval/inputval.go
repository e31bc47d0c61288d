// Package inputval validates the sign-in and registration forms before any
// call to the upstream API is made.
package inputval

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/dalemusser/hygienedash/internal/domain/models"
	"github.com/go-playground/validator/v10"
)

var phoneRE = regexp.MustCompile(`^\+?[0-9]{9,15}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.IsValidRole(fl.Field().String())
	})
	return v
}

// IsValidPhone reports whether s is 9 to 15 digits with an optional leading '+'.
// Callers normalize first.
func IsValidPhone(s string) bool {
	return phoneRE.MatchString(s)
}

// PhoneForm is the first step of both OTP flows.
type PhoneForm struct {
	Phone string `validate:"required,phone"`
}

// LoginForm completes an OTP sign-in.
type LoginForm struct {
	Phone string `validate:"required,phone"`
	OTP   string `validate:"required,numeric,min=4,max=8"`
}

// RegisterOTPForm requests a registration code.
type RegisterOTPForm struct {
	Phone   string `validate:"required,phone"`
	Name    string `validate:"required,max=100"`
	Role    string `validate:"required,role"`
	Consent bool   `validate:"required"`
}

// RegisterForm verifies the code and creates the account.
type RegisterForm struct {
	Phone   string `validate:"required,phone"`
	OTP     string `validate:"required,numeric,min=4,max=8"`
	Name    string `validate:"required,max=100"`
	Role    string `validate:"required,role"`
	Consent bool   `validate:"required"`
}

// DemoLoginForm is the username/password form used in demo mode.
type DemoLoginForm struct {
	Username string `validate:"required,max=64"`
	Password string `validate:"required,max=128"`
}

// DemoSignupForm is the demo-mode sign-up form.
type DemoSignupForm struct {
	Username string `validate:"required,max=64"`
	Email    string `validate:"omitempty,email"`
	Password string `validate:"required,max=128"`
	Confirm  string `validate:"eqfield=Password"`
	Role     string `validate:"required,role"`
}

// Error is a validation failure with a message fit to show inline.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Validate checks a form struct and returns the first failure as *Error,
// or nil when the form is valid.
func Validate(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return fmt.Errorf("validate form: %w", err)
	}
	fe := ve[0]
	return &Error{Field: fe.Field(), Message: message(fe)}
}

func message(fe validator.FieldError) string {
	switch fe.Field() {
	case "Phone":
		if fe.Tag() == "required" {
			return "Phone number is required."
		}
		return "Enter a valid phone number, for example 0772207616."
	case "OTP":
		if fe.Tag() == "required" {
			return "Enter the code we sent to your phone."
		}
		return "The code must be 4 to 8 digits."
	case "Name":
		if fe.Tag() == "required" {
			return "Full name is required."
		}
		return "Name must be 100 characters or fewer."
	case "Role":
		return "Choose a valid role."
	case "Consent":
		return "You must agree to the terms to register."
	case "Confirm":
		return "Passwords do not match"
	case "Email":
		return "Enter a valid email address."
	case "Username", "Password":
		return "Username and password are required."
	}
	return fmt.Sprintf("%s is invalid.", fe.Field())
}
