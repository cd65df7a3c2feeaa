package forms

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/developer-az/food-tracker/internal/util"
)

var usernameRe = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]{3,150}$`)

// RegisterForm creates an account.
type RegisterForm struct {
	Username  string `form:"username" json:"username"`
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
	Email     string `form:"email" json:"email"`
	Password1 string `form:"password1" json:"password1"`
	Password2 string `form:"password2" json:"password2"`
}

// Validate checks the fields and normalises whitespace in place.
func (f *RegisterForm) Validate() error {
	ve := &util.ValidationError{}

	f.Username = requiredString(ve, "username", f.Username, 150)
	if f.Username != "" && !usernameRe.MatchString(f.Username) {
		ve.Add("username", "Enter a valid username: 3-150 letters, digits and @/./+/-/_ only.")
	}
	f.FirstName = requiredString(ve, "first_name", f.FirstName, 30)
	f.LastName = requiredString(ve, "last_name", f.LastName, 30)
	f.Email = requiredString(ve, "email", f.Email, 254)
	if f.Email != "" {
		if addr, err := mail.ParseAddress(f.Email); err != nil || addr.Address != f.Email {
			ve.Add("email", "Enter a valid email address.")
		}
	}

	switch {
	case f.Password1 == "":
		ve.Add("password1", requiredMsg)
	case !IsStrongPassword(f.Password1):
		ve.Add("password1", "Password must be 8-32 characters and contain upper-case, lower-case letters and digits.")
	case strings.EqualFold(f.Password1, f.Username):
		ve.Add("password1", "The password is too similar to the username.")
	}
	if f.Password2 == "" {
		ve.Add("password2", requiredMsg)
	} else if f.Password1 != f.Password2 {
		ve.Add("password2", "The two password fields didn't match.")
	}

	return ve.OrNil()
}

// LoginForm signs a user in.
type LoginForm struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	Next     string `form:"next" json:"next"`
}

func (f *LoginForm) Validate() error {
	ve := &util.ValidationError{}
	f.Username = requiredString(ve, "username", f.Username, 150)
	if f.Password == "" {
		ve.Add("password", requiredMsg)
	}
	return ve.OrNil()
}

// IsStrongPassword requires 8-32 characters with upper, lower and digit.
func IsStrongPassword(pwd string) bool {
	if len(pwd) < 8 || len(pwd) > 32 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, ch := range pwd {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}
