// Package models defines the user-administration types exchanged with the
// remote API and the forms the console collects.
package models

import (
	"time"
)

// Role tags a user account. It drives what the console lets the account do.
type Role string

const (
	RoleUser      Role = "usuario"
	RoleSupporter Role = "apoiador"
)

// CanManageUsers reports whether the role may create or edit users.
// Supporters are read-only.
func (r Role) CanManageUsers() bool {
	return r != RoleSupporter
}

// UserProfile is a user record as served by the API. Passwords are
// write-only and never appear here.
type UserProfile struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email,omitempty"`
	Role      Role       `json:"role"`
	Phone     string     `json:"phone,omitempty"`
	Bio       string     `json:"bio,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// UsersPage is one page of GET /users.
type UsersPage struct {
	Data       []UserProfile `json:"data"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"totalPages"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body of POST /auth/login. Email and Role are not part
// of the documented contract but are honoured when present.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Role        Role   `json:"role,omitempty"`
}

// Profile returns the identity to store in the session. Without a role from
// the server the account is treated as a regular user.
func (r LoginResponse) Profile() UserProfile {
	role := r.Role
	if role == "" {
		role = RoleUser
	}
	return UserProfile{ID: r.ID, Name: r.Name, Email: r.Email, Role: role}
}

type CreateUserPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Bio      string `json:"bio"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

type UpdateUserPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Bio      string `json:"bio"`
	Password string `json:"password,omitempty"`
	Role     Role   `json:"role"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type PasswordResetValidation struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type PasswordResetPayload struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

type PasswordChangePayload struct {
	Password string `json:"password"`
}
