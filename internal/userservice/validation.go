package userservice

import (
	"unicode/utf8"

	"github.com/sushihentaime/bloglist/internal/common"
)

const (
	MinPasswordLength = 3
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MaxNameLength     = 100
)

// ValidPassword is the password policy: at least MinPasswordLength characters.
// The empty string, which is what an absent password decodes to, fails.
func ValidPassword(password string) bool {
	return utf8.RuneCountInString(password) >= MinPasswordLength
}

// validateUser holds the rules the users table is expected to enforce.
func validateUser(v *common.Validator, u *User) {
	validateUsername(v, u.Username)
	v.Check(v.CheckStringLength(u.Name, 0, MaxNameLength), "name", "must be at most 100 characters long")
}

func validateUsername(v *common.Validator, username string) {
	v.Check(username != "", "username", "must be provided")
	v.Check(v.CheckStringLength(username, MinUsernameLength, MaxUsernameLength), "username", "must be between 3 and 50 characters long")
}
