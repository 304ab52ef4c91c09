package validators

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordInvalid  = errors.New("password contains invalid characters")
	ErrPasswordTooLong  = errors.New("password is too long")
	ErrPasswordEmpty    = errors.New("no password provided")
)

func PasswordValidator(p string) error {
	if p == "" {
		return ErrPasswordEmpty
	}

	if !utf8.ValidString(p) || strings.ContainsRune(p, 0) {
		return ErrPasswordInvalid
	}

	n := utf8.RuneCountInString(p)
	if n < 8 {
		return ErrPasswordTooShort
	}

	if n > 255 {
		return ErrPasswordTooLong
	}

	return nil
}
