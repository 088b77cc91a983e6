package domain

import "errors"

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrTooManyAttempts = errors.New("too many login attempts")
var ErrInvalidToken = errors.New("invalid token")

// User is the aggregate root. All notes live inside the user document and are
// only reachable through it; removing a user removes its notes by containment.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Notes        []Note `json:"notes"`
}
