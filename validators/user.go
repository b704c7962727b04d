package validators

import (
	"errors"
	"net/mail"
	"unicode/utf8"
)

var (
	ErrEmailInvalid     = errors.New("invalid email address")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong  = errors.New("password can't be longer than 128 characters")
)

func EmailValidator(email string) error {
	if email == "" {
		return ErrEmailInvalid
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return ErrEmailInvalid
	}

	return nil
}

func PasswordValidator(password string) error {
	n := utf8.RuneCountInString(password)

	if n < 8 {
		return ErrPasswordTooShort
	}

	if n > 128 {
		return ErrPasswordTooLong
	}

	return nil
}
