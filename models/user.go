package models

import "time"

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleDirector UserRole = "director"
	RoleUser     UserRole = "user"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleDirector, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
