package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User holds the credentials of an account. The public face of a user is its Profile.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
