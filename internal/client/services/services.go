// Package services contains the console's application services: login,
// registration, password reset, the user form and the settings page.
//
// Every operation reports its outcome to the user exactly once through a
// Notifier and also returns the error, so callers may ignore it.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/gophadmin/internal/client/models"
	"github.com/dmitrijs2005/gophadmin/internal/client/session"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidResetCode   = errors.New("invalid reset code")
	ErrForbidden          = errors.New("operation not allowed for this role")
	ErrNoSession          = errors.New("no active session")
	ErrResetStep          = errors.New("password reset step out of order")
)

type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// SessionReader exposes the logged-in user.
type SessionReader interface {
	Current() session.Snapshot
}

// SessionWriter starts a session after a successful login.
type SessionWriter interface {
	Login(ctx context.Context, token string, user models.UserProfile) error
}

// formMessage turns a validation error into the line shown to the user.
func formMessage(err error) string {
	return strings.TrimPrefix(err.Error(), models.ErrValidation.Error()+": ")
}

func currentUser(s SessionReader) (models.UserProfile, error) {
	snap := s.Current()
	if !snap.Authenticated() {
		return models.UserProfile{}, ErrNoSession
	}
	return *snap.User, nil
}
