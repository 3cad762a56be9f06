package services

import (
	"context"

	"github.com/dmitrijs2005/gophadmin/internal/client/client"
	"github.com/dmitrijs2005/gophadmin/internal/client/models"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
)

// AuthService covers the public, session-less flows.
//
// Contract:
//   - Login: authenticate and start a session. Any API failure is reported as
//     ErrInvalidCredentials without detail.
//   - Register: self sign-up; the new account is always a regular user.
type AuthService interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, form models.RegistrationForm) error
}

type authService struct {
	client  client.Client
	session SessionWriter
	notify  Notifier
	logger  logging.Logger
}

func NewAuthService(c client.Client, s SessionWriter, n Notifier, l logging.Logger) AuthService {
	return &authService{client: c, session: s, notify: n, logger: l}
}

func (a *authService) Login(ctx context.Context, email, password string) error {
	form := models.LoginForm{Email: email, Password: password}
	if err := form.Validate(); err != nil {
		a.notify.Error(formMessage(err))
		return err
	}

	resp, err := a.client.Login(ctx, form.Email, form.Password)
	if err != nil {
		a.logger.Warn(ctx, "login failed", "email", form.Email, "error", err)
		a.notify.Error(ErrInvalidCredentials.Error())
		return ErrInvalidCredentials
	}

	if err := a.session.Login(ctx, resp.AccessToken, resp.Profile()); err != nil {
		a.logger.Error(ctx, "could not start session", "error", err)
		a.notify.Error("failed to start session")
		return err
	}

	a.notify.Success("logged in")
	return nil
}

func (a *authService) Register(ctx context.Context, form models.RegistrationForm) error {
	if err := form.Validate(); err != nil {
		a.notify.Error(formMessage(err))
		return err
	}

	u, err := a.client.Register(ctx, form.Payload())
	if err != nil {
		a.logger.Warn(ctx, "registration failed", "email", form.Email, "error", err)
		a.notify.Error(client.MessageOf(err, "failed to register user"))
		return err
	}

	a.logger.Info(ctx, "user registered", "user_id", u.ID)
	a.notify.Success("user registered")
	return nil
}
