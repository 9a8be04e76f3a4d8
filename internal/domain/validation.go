package domain

import (
	"regexp"
	"unicode/utf8"
)

// MinPasswordLength - shortest password accepted by the signup form
const MinPasswordLength = 8

const (
	MsgInvalidEmail     = "Invalid email format"
	MsgPasswordTooShort = "Password must be at least 8 characters"
)

// emailPart excludes '@' and every character browsers treat as whitespace:
// \s in RE2 is ASCII only, so VT, NEL, NBSP, BOM and the Unicode spaces are listed.
const emailPart = `[^\s\x{0B}\x{85}\x{A0}\x{FEFF}\p{Z}@]+`

var emailRegex = regexp.MustCompile(`^` + emailPart + `@` + emailPart + `\.` + emailPart + `$`)

// ValidationErrors - per-field messages of a rejected signup form
type ValidationErrors struct {
	Email    string
	Password string
}

// Empty reports whether no field failed.
func (v ValidationErrors) Empty() bool {
	return v.Email == "" && v.Password == ""
}

func (v ValidationErrors) Error() string {
	switch {
	case v.Email != "" && v.Password != "":
		return v.Email + "; " + v.Password
	case v.Email != "":
		return v.Email
	default:
		return v.Password
	}
}

// ValidEmail reports whether email has the local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateSignup checks the form before any network call.
func ValidateSignup(form SignupForm) ValidationErrors {
	var v ValidationErrors
	if !ValidEmail(form.Email) {
		v.Email = MsgInvalidEmail
	}
	if utf8.RuneCountInString(form.Password) < MinPasswordLength {
		v.Password = MsgPasswordTooShort
	}
	return v
}
