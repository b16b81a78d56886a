package models

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// User is an authenticable account, optionally attached to a sector
// organization. Deleting the organization nullifies the reference but
// keeps the account.
type User struct {
	ID                   int64    `json:"id" db:"id"`
	Username             string   `json:"username" db:"username"`
	Nombre               string   `json:"nombre,omitempty" db:"nombre"`
	Email                string   `json:"email,omitempty" db:"email"`
	PasswordHash         string   `json:"-" db:"password_hash"`
	IsStaff              bool     `json:"is_staff" db:"is_staff"`
	Active               bool     `json:"active" db:"active"`
	OrganismoSectorialID *int64   `json:"organismo_sectorial_id,omitempty" db:"organismo_sectorial_id"`
	Groups               []string `json:"groups,omitempty"`

	AuditFields // Embedded audit fields
}

// CheckPassword reports whether the plaintext password matches the
// stored bcrypt hash
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// InGroup reports whether the user belongs to the named group
func (u *User) InGroup(name string) bool {
	for _, group := range u.Groups {
		if group == name {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user has administrator privileges
func (u *User) IsAdmin() bool {
	return u.IsStaff
}

// UserForm represents form data for creating/updating user accounts
type UserForm struct {
	Username             string `json:"username"`
	Nombre               string `json:"nombre"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	IsStaff              bool   `json:"is_staff"`
	Active               bool   `json:"active"`
	OrganismoSectorialID *int64 `json:"organismo_sectorial_id"`
}

// Validate validates the user form data
func (f *UserForm) Validate() ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(f.Username) == "" {
		errs = append(errs, ValidationError{Field: "username", Message: "username is required"})
	}

	if len(f.Username) > 150 {
		errs = append(errs, ValidationError{Field: "username", Message: "username must be at most 150 characters"})
	}

	if len(f.Email) > 255 {
		errs = append(errs, ValidationError{Field: "email", Message: "email must be at most 255 characters"})
	}

	return errs
}
