package services

import (
	"context"

	"github.com/dmitrijs2005/gophadmin/internal/client/client"
	"github.com/dmitrijs2005/gophadmin/internal/client/models"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
)

// UserService backs the create/edit user form.
//
// Contract:
//   - Load: fetch a user and pre-fill the edit form (never the password).
//   - CanManage: whether the logged-in user may save the form at all.
//   - Save: update when id is set, create otherwise. Supporters get
//     ErrForbidden before anything is sent.
type UserService interface {
	Load(ctx context.Context, id string) (models.UserForm, error)
	CanManage() bool
	Save(ctx context.Context, id string, form models.UserForm) error
}

type userService struct {
	client  client.Client
	session SessionReader
	notify  Notifier
	logger  logging.Logger
}

func NewUserService(c client.Client, s SessionReader, n Notifier, l logging.Logger) UserService {
	return &userService{client: c, session: s, notify: n, logger: l}
}

func (u *userService) Load(ctx context.Context, id string) (models.UserForm, error) {
	profile, err := u.client.GetUser(ctx, id)
	if err != nil {
		u.logger.Warn(ctx, "user load failed", "user_id", id, "error", err)
		u.notify.Error("failed to load user")
		return models.UserForm{}, err
	}
	return models.FormFromProfile(*profile), nil
}

func (u *userService) CanManage() bool {
	actor, err := currentUser(u.session)
	return err == nil && actor.Role.CanManageUsers()
}

func (u *userService) Save(ctx context.Context, id string, form models.UserForm) error {
	actor, err := currentUser(u.session)
	if err != nil {
		u.notify.Error(err.Error())
		return err
	}
	if !actor.Role.CanManageUsers() {
		u.notify.Error("your role cannot create or edit users")
		return ErrForbidden
	}

	creating := id == ""
	if err := form.Validate(creating); err != nil {
		u.notify.Error(formMessage(err))
		return err
	}

	var saved *models.UserProfile
	switch {
	case !creating:
		saved, err = u.client.UpdateUser(ctx, id, form.UpdatePayload())
	case actor.Role == models.RoleUser:
		saved, err = u.client.CreateByAuth(ctx, form.CreatePayload())
	default:
		// Accounts with an unrecognised role fall back to public sign-up.
		payload := form.CreatePayload()
		payload.Role = models.RoleUser
		saved, err = u.client.Register(ctx, payload)
	}
	if err != nil {
		u.logger.Warn(ctx, "user save failed", "user_id", id, "error", err)
		u.notify.Error(client.MessageOf(err, "failed to save user"))
		return err
	}

	if creating {
		u.logger.Info(ctx, "user created", "user_id", saved.ID, "by", actor.ID)
		u.notify.Success("user created")
	} else {
		u.logger.Info(ctx, "user updated", "user_id", id, "by", actor.ID)
		u.notify.Success("user updated")
	}
	return nil
}
