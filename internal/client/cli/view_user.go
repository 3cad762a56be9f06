package cli

import (
	"context"

	"github.com/dmitrijs2005/gophadmin/internal/client/models"
	"github.com/dmitrijs2005/gophadmin/internal/client/router"
)

// userFormView creates a user (no id) or edits one.
type userFormView struct {
	app  *App
	id   string
	form models.UserForm
}

func (v *userFormView) Mount(ctx context.Context) error {
	a := v.app
	if v.id == "" {
		a.println("== New user ==")
		v.form = models.UserForm{Role: models.RoleUser}
	} else {
		a.println("== Edit user ==")
		form, err := a.users.Load(ctx, v.id)
		if err != nil {
			return err
		}
		v.form = form
	}

	renderForm(a.out, v.form)
	if !a.users.CanManage() {
		a.println("Read-only: your role cannot create or edit users.")
	}
	return nil
}

func (v *userFormView) Unmount() {}

func (v *userFormView) Commands() []string { return []string{"show", "save"} }

func (v *userFormView) Handle(ctx context.Context, cmd string, args []string) (bool, error) {
	switch cmd {
	case "show":
		renderForm(v.app.out, v.form)
		return true, nil
	case "save":
		return true, v.save(ctx)
	}
	return false, nil
}

func (v *userFormView) save(ctx context.Context) error {
	a := v.app
	if !a.users.CanManage() {
		// Refused without prompting or calling the API.
		return a.users.Save(ctx, v.id, v.form)
	}

	form := v.form
	var err error
	if form.Name, err = getTextWithDefault(a.reader, "Name", form.Name, a.out); err != nil {
		return err
	}
	if form.Email, err = getTextWithDefault(a.reader, "Email", form.Email, a.out); err != nil {
		return err
	}
	if form.Phone, err = getTextWithDefault(a.reader, "Phone", form.Phone, a.out); err != nil {
		return err
	}
	if form.Bio, err = getTextWithDefault(a.reader, "Bio", form.Bio, a.out); err != nil {
		return err
	}
	role, err := getTextWithDefault(a.reader, "Role (usuario|apoiador)", string(form.Role), a.out)
	if err != nil {
		return err
	}
	form.Role = models.Role(role)

	prompt := "Password"
	if v.id != "" {
		prompt = "New password (empty keeps the current one)"
	}
	password, err := getPassword(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	defer wipe(password)
	form.Password = string(password)

	if err := a.users.Save(ctx, v.id, form); err != nil {
		return err
	}
	return a.nav.Navigate(ctx, router.PathDashboard)
}
