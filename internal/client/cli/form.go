package cli

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// signUpForm mirrors the fields a registration form collects.
type signUpForm struct {
	Name     string `validate:"required,min=2"`
	Email    string `validate:"required,email"`
	Phone    string `validate:"required,min=10"`
	Password string `validate:"required,min=6"`
}

type signInForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

var formValidator = validator.New()

var (
	errAllFieldsRequired = errors.New("all fields are required for account creation")
	errEmailAndPassword  = errors.New("email and password are required")
	errNameTooShort      = errors.New("name must be at least 2 characters long")
	errPhoneInvalid      = errors.New("please enter a valid phone number")
	errEmailInvalid      = errors.New("please enter a valid email address")
	errPasswordTooShort  = errors.New("password must be at least 6 characters long")
)

// validateForm checks a form and returns the first problem in the words a
// sign-in dialog would show.
func validateForm(form any) error {
	err := formValidator.Struct(form)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}

	for _, fe := range errs {
		if fe.Tag() == "required" {
			if _, ok := form.(signUpForm); ok {
				return errAllFieldsRequired
			}
			return errEmailAndPassword
		}
	}

	fe := errs[0]
	switch fe.Field() {
	case "Name":
		return errNameTooShort
	case "Phone":
		return errPhoneInvalid
	case "Email":
		return errEmailInvalid
	case "Password":
		return errPasswordTooShort
	}
	return err
}
