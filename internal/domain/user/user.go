package user

import (
	"errors"
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// the only role handed out on registration; the librarian account is seeded separately.
const DefaultRole = "student"

const RoleLibrarian = "librarian"

var ErrNotFound = errors.New("user not found")

// error if the email is already registered
var ErrEmailTaken = errors.New("email already taken")

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
