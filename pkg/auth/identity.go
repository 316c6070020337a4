// Package auth holds the identity carried in a session, password hashing and
// the signed remember-me token.
package auth

import (
	"errors"
	"net/url"
	"strings"

	"github.com/shashiranjanraj/eatn/pkg/session"
)

// Account types.
const (
	RoleStudent = "Student"
	RoleAdmin   = "Admin"
)

var (
	// ErrUnauthenticated means no identity is attached to the session.
	ErrUnauthenticated = errors.New("auth: not logged in")
	// ErrForbidden means the identity lacks the required account type.
	ErrForbidden = errors.New("auth: insufficient role")
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password so the two cannot be told apart.
	ErrInvalidCredentials = errors.New("auth: invalid username or password")
)

const (
	keyUserID      = "user_id"
	keyUsername    = "username"
	keyAccountType = "account_type"
)

// Identity is what a logged-in session knows about its user.
type Identity struct {
	UserID      uint
	Username    string
	AccountType string
}

func (i Identity) IsAdmin() bool { return i.AccountType == RoleAdmin }

// ValidRole reports whether role is an account type users can hold.
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleAdmin
}

// FromSession reads the identity stored by Login.
func FromSession(sess *session.Session) (Identity, bool) {
	if sess == nil {
		return Identity{}, false
	}
	id, ok := sess.GetInt(keyUserID)
	if !ok || id <= 0 {
		return Identity{}, false
	}
	name, _ := sess.GetString(keyUsername)
	role, _ := sess.GetString(keyAccountType)
	return Identity{UserID: uint(id), Username: name, AccountType: role}, true
}

// Login moves sess to a fresh id, drops everything it held and stores id.
func Login(sess *session.Session, id Identity) {
	sess.Regenerate()
	sess.Set(keyUserID, id.UserID)
	sess.Set(keyUsername, id.Username)
	sess.Set(keyAccountType, id.AccountType)
}

// Logout destroys the session.
func Logout(sess *session.Session) {
	sess.Invalidate()
}

// SafeRedirect returns target when it is a local path and fallback otherwise.
func SafeRedirect(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, "\\") {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return target
}

// LoginURL builds the login page URL carrying an error and a continuation.
func LoginURL(errMsg, redirect string) string {
	q := url.Values{}
	if errMsg != "" {
		q.Set("error", errMsg)
	}
	if r := SafeRedirect(redirect, ""); r != "" {
		q.Set("redirect", r)
	}
	if len(q) == 0 {
		return "/login"
	}
	return "/login?" + q.Encode()
}
