package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophadmin/internal/client/client"
	"github.com/dmitrijs2005/gophadmin/internal/client/models"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
)

type ResetStep int

const (
	StepEmail ResetStep = iota
	StepCode
	StepNewPassword
	StepDone
)

func (s ResetStep) String() string {
	switch s {
	case StepCode:
		return "code"
	case StepNewPassword:
		return "new-password"
	case StepDone:
		return "done"
	}
	return "email"
}

// PasswordReset walks one forgotten-password flow: request a code by email,
// validate it, then set a new password. The email from the first step is
// reused by the later ones.
type PasswordReset struct {
	client client.Client
	notify Notifier
	logger logging.Logger

	mu    sync.Mutex
	step  ResetStep
	email string
}

func NewPasswordReset(c client.Client, n Notifier, l logging.Logger) *PasswordReset {
	return &PasswordReset{client: c, notify: n, logger: l}
}

func (p *PasswordReset) Step() ResetStep {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.step
}

func (p *PasswordReset) Email() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.email
}

// RequestCode asks the server to send a code. It may be repeated while the
// code has not been validated yet.
func (p *PasswordReset) RequestCode(ctx context.Context, email string) error {
	if err := p.expect(StepEmail, StepCode); err != nil {
		return err
	}

	email = strings.TrimSpace(email)
	if err := models.ValidateEmail(email); err != nil {
		p.notify.Error("email: " + formMessage(err))
		return err
	}

	if err := p.client.RequestPasswordReset(ctx, email); err != nil {
		p.logger.Warn(ctx, "reset code request failed", "email", email, "error", err)
		p.notify.Error("failed to request code, check the email")
		return err
	}

	p.mu.Lock()
	p.email = email
	p.step = StepCode
	p.mu.Unlock()

	p.notify.Success("code sent, check your email")
	return nil
}

func (p *PasswordReset) ValidateCode(ctx context.Context, code string) error {
	if err := p.expect(StepCode); err != nil {
		return err
	}

	code = strings.TrimSpace(code)
	if err := models.ValidateResetCode(code); err != nil {
		p.notify.Error("code: " + formMessage(err))
		return err
	}

	if err := p.client.ValidatePasswordReset(ctx, p.Email(), code); err != nil {
		p.logger.Warn(ctx, "reset code rejected", "error", err)
		p.notify.Error("invalid code")
		return fmt.Errorf("%w: %w", ErrInvalidResetCode, err)
	}

	p.mu.Lock()
	p.step = StepNewPassword
	p.mu.Unlock()

	p.notify.Success("code validated")
	return nil
}

func (p *PasswordReset) Reset(ctx context.Context, newPassword string) error {
	if err := p.expect(StepNewPassword); err != nil {
		return err
	}

	if err := models.ValidateNewPassword(newPassword); err != nil {
		p.notify.Error("new password: " + formMessage(err))
		return err
	}

	if err := p.client.ResetPassword(ctx, p.Email(), newPassword); err != nil {
		p.logger.Warn(ctx, "password reset failed", "error", err)
		p.notify.Error("failed to reset password")
		return err
	}

	p.mu.Lock()
	p.step = StepDone
	p.mu.Unlock()

	p.notify.Success("password reset, you can log in now")
	return nil
}

func (p *PasswordReset) expect(steps ...ResetStep) error {
	current := p.Step()
	for _, s := range steps {
		if s == current {
			return nil
		}
	}
	err := fmt.Errorf("%w: currently at %s", ErrResetStep, current)
	p.notify.Error(err.Error())
	return err
}
