package userservice

import (
	"unicode/utf8"

	"github.com/sushihentaime/bloglist/internal/common"
)

const (
	minUsernameLength = 3
	minPasswordLength = 3
	// bcrypt only accepts up to 72 bytes of input.
	maxPasswordBytes = 72
)

var (
	ErrPasswordTooShort  = common.NewValidationError("password must be atleast 3 characters long")
	ErrPasswordTooLong   = common.NewValidationError("password must be at most 72 bytes long")
	ErrDuplicateUsername = common.NewValidationError("username: expected `username` to be unique")
)

func validateUsername(v *common.Validator, username string) {
	v.Check(username != "", "username", "must be provided")
	v.Check(v.CheckMinLength(username, minUsernameLength), "username", "must be at least 3 characters long")
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > maxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}
