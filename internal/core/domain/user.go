package domain

import (
	"strings"
	"time"
)

// Role is the access level of a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole normalises s into a Role. Anything that is not ADMIN is USER.
func ParseRole(s string) Role {
	if Role(strings.ToUpper(strings.TrimSpace(s))) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User owns zero or more appointments. Deleting a user deletes them too.
type User struct {
	ID           string
	Name         string
	Email        string
	Address      string
	Phone        string
	DateOfBirth  time.Time
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanLogin reports whether the user has a password set.
func (u *User) CanLogin() bool {
	return u.PasswordHash != ""
}
