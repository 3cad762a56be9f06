package cli

import (
	"context"

	"github.com/dmitrijs2005/gophadmin/internal/client/models"
	"github.com/dmitrijs2005/gophadmin/internal/client/router"
	"github.com/dmitrijs2005/gophadmin/internal/client/services"
)

type loginView struct {
	app *App
}

func (v *loginView) Mount(ctx context.Context) error {
	v.app.println("== Login ==")
	v.app.println("Type 'login' to sign in, 'register' to create an account or 'reset' if you forgot your password.")
	return nil
}

func (v *loginView) Unmount() {}

func (v *loginView) Commands() []string { return []string{"login"} }

// Handle prompts for credentials and, once logged in, opens the dashboard.
func (v *loginView) Handle(ctx context.Context, cmd string, args []string) (bool, error) {
	if cmd != "login" {
		return false, nil
	}

	a := v.app
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return true, err
	}
	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return true, err
	}
	defer wipe(password)

	if err := a.auth.Login(ctx, email, string(password)); err != nil {
		return true, err
	}
	return true, a.nav.Navigate(ctx, router.PathDashboard)
}

type registerView struct {
	app *App
}

func (v *registerView) Mount(ctx context.Context) error {
	v.app.println("== Create account ==")
	v.app.println("Type 'register' to fill in the form.")
	return nil
}

func (v *registerView) Unmount() {}

func (v *registerView) Commands() []string { return []string{"register"} }

func (v *registerView) Handle(ctx context.Context, cmd string, args []string) (bool, error) {
	if cmd != "register" {
		return false, nil
	}

	a := v.app
	var form models.RegistrationForm
	var err error

	if form.Name, err = getSimpleText(a.reader, "Name", a.out); err != nil {
		return true, err
	}
	if form.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return true, err
	}
	if form.Phone, err = getSimpleText(a.reader, "Phone (optional)", a.out); err != nil {
		return true, err
	}
	if form.Bio, err = getSimpleText(a.reader, "Bio", a.out); err != nil {
		return true, err
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return true, err
	}
	defer wipe(password)
	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return true, err
	}
	defer wipe(confirm)
	form.Password, form.ConfirmPassword = string(password), string(confirm)

	if err := a.auth.Register(ctx, form); err != nil {
		return true, err
	}
	return true, a.nav.Navigate(ctx, router.PathLogin)
}

// forgotView runs the three-step password reset. Each 'reset' continues
// from the step reached so far.
type forgotView struct {
	app  *App
	flow *services.PasswordReset
}

func (v *forgotView) Mount(ctx context.Context) error {
	v.flow = services.NewPasswordReset(v.app.api, v.app.notify, v.app.logger)
	v.app.println("== Forgot password ==")
	v.app.println("Type 'reset' to receive a code by email and choose a new password.")
	return nil
}

func (v *forgotView) Unmount() {}

func (v *forgotView) Commands() []string { return []string{"reset"} }

func (v *forgotView) Handle(ctx context.Context, cmd string, args []string) (bool, error) {
	if cmd != "reset" {
		return false, nil
	}

	a := v.app
	for {
		var err error
		switch v.flow.Step() {
		case services.StepEmail:
			var email string
			if email, err = getSimpleText(a.reader, "Email", a.out); err == nil {
				err = v.flow.RequestCode(ctx, email)
			}
		case services.StepCode:
			var code string
			if code, err = getSimpleText(a.reader, "6-digit code sent to "+v.flow.Email(), a.out); err == nil {
				err = v.flow.ValidateCode(ctx, code)
			}
		case services.StepNewPassword:
			var password []byte
			if password, err = getPassword(a.reader, "New password", a.out); err == nil {
				err = v.flow.Reset(ctx, string(password))
				wipe(password)
			}
		case services.StepDone:
			return true, a.nav.Navigate(ctx, router.PathLogin)
		}
		if err != nil {
			return true, err
		}
	}
}
