package access

import "errors"

// ErrUnauthorized is returned when the caller lacks the capability an
// operation requires. HTTP handlers surface it as 403.
var ErrUnauthorized = errors.New("unauthorized: only admins can access this data")

// Principal is the resolved caller of an operation. The set of variants is
// closed: Anonymous and AuthenticatedUser.
type Principal interface {
	principal()
}

type Anonymous struct{}

type AuthenticatedUser struct {
	ID      uint
	Email   string
	IsAdmin bool
}

func (Anonymous) principal()         {}
func (AuthenticatedUser) principal() {}

// UserOf returns the authenticated user behind p, if any.
func UserOf(p Principal) (AuthenticatedUser, bool) {
	switch v := p.(type) {
	case AuthenticatedUser:
		return v, true
	case *AuthenticatedUser:
		if v != nil {
			return *v, true
		}
	}
	return AuthenticatedUser{}, false
}

func IsAdmin(p Principal) bool {
	u, ok := UserOf(p)
	return ok && u.IsAdmin
}

// RequireAdmin is the capability gate for admin-only operations.
func RequireAdmin(p Principal) error {
	if !IsAdmin(p) {
		return ErrUnauthorized
	}
	return nil
}
