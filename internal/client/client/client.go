package client

import (
	"context"

	"github.com/dmitrijs2005/gophadmin/internal/client/models"
)

// Client is the contract the console needs from the remote user API.
type Client interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ValidatePasswordReset(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, email, newPassword string) error

	Register(ctx context.Context, p models.CreateUserPayload) (*models.UserProfile, error)
	CreateByAuth(ctx context.Context, p models.CreateUserPayload) (*models.UserProfile, error)
	GetUsers(ctx context.Context, page, limit int, q string) (*models.UsersPage, error)
	GetUser(ctx context.Context, id string) (*models.UserProfile, error)
	UpdateUser(ctx context.Context, id string, p models.UpdateUserPayload) (*models.UserProfile, error)
	UpdatePassword(ctx context.Context, id, password string) error
	DeleteUser(ctx context.Context, id string) error
}

// TokenSource yields the bearer token for authorized calls. An empty string
// means there is no session.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a plain function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }
