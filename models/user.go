package models

import "time"

type User struct {
	ID           int       `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password"`
	FullName     string    `json:"fullName" db:"full_name"`
	IsAdmin      bool      `json:"isAdmin" db:"is_admin"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// InsertUser carries the registration payload. Password is the plaintext
// submitted by the client; it must be hashed before it reaches a repository.
type InsertUser struct {
	Username string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"fullName" validate:"required"`
	IsAdmin  bool   `json:"-"`
}

// Sanitized returns a copy of the user with the password hash cleared.
// Every user object that leaves the auth layer goes through this.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
