package models

import (
	"time"

	"github.com/google/uuid"
)

// RoleAdmin is the only role allowed into the dashboard.
const RoleAdmin = "ADMIN"

// Admin is a dashboard account.
type Admin struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email  string `json:"email"`
	Nom    string `json:"nom"`
	Prenom string `json:"prenom"`
	Role   string `json:"role"`

	PasswordHash string `json:"-"` // Don't return password in JSON
	IsActive     bool   `json:"is_active"`
}

// User is the public view of an admin returned at login.
type User struct {
	ID     string `json:"id" yaml:"id"`
	Nom    string `json:"nom" yaml:"nom"`
	Prenom string `json:"prenom" yaml:"prenom"`
	Email  string `json:"email" yaml:"email"`
	Role   string `json:"role" yaml:"role"`
}

// PublicUser strips credentials from an admin.
func (a *Admin) PublicUser() User {
	return User{
		ID:     a.ID.String(),
		Nom:    a.Nom,
		Prenom: a.Prenom,
		Email:  a.Email,
		Role:   a.Role,
	}
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
