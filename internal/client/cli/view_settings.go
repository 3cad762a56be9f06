package cli

import (
	"context"

	"github.com/dmitrijs2005/gophadmin/internal/client/models"
)

type settingsView struct {
	app     *App
	profile models.UserProfile
}

func (v *settingsView) Mount(ctx context.Context) error {
	v.app.println("== Settings ==")
	profile, err := v.app.settings.LoadProfile(ctx)
	if err != nil {
		return err
	}
	v.profile = profile
	renderProfile(v.app.out, profile)
	return nil
}

func (v *settingsView) Unmount() {}

func (v *settingsView) Commands() []string { return []string{"show", "profile", "password"} }

func (v *settingsView) Handle(ctx context.Context, cmd string, args []string) (bool, error) {
	a := v.app

	switch cmd {
	case "show":
		renderProfile(a.out, v.profile)
		return true, nil

	case "profile":
		var form models.ProfileForm
		var err error
		if form.Phone, err = getTextWithDefault(a.reader, "Phone", v.profile.Phone, a.out); err != nil {
			return true, err
		}
		if form.Bio, err = getTextWithDefault(a.reader, "Bio", v.profile.Bio, a.out); err != nil {
			return true, err
		}
		if err := a.settings.SaveProfile(ctx, form); err != nil {
			return true, err
		}
		v.profile.Phone, _ = models.NormalizePhone(form.Phone)
		v.profile.Bio = form.Bio
		return true, nil

	case "password":
		password, err := getPassword(a.reader, "New password", a.out)
		if err != nil {
			return true, err
		}
		defer wipe(password)
		return true, a.settings.ChangePassword(ctx, string(password))
	}
	return false, nil
}
