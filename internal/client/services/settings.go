package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophadmin/internal/client/client"
	"github.com/dmitrijs2005/gophadmin/internal/client/models"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
)

// SettingsService lets the logged-in user view their profile, change phone
// and bio, and set a new password. Name and email are read-only here and the
// role is always the session's role.
type SettingsService struct {
	client  client.Client
	session SessionReader
	notify  Notifier
	logger  logging.Logger

	mu      sync.Mutex
	profile *models.UserProfile
}

func NewSettingsService(c client.Client, s SessionReader, n Notifier, l logging.Logger) *SettingsService {
	return &SettingsService{client: c, session: s, notify: n, logger: l}
}

func (s *SettingsService) LoadProfile(ctx context.Context) (models.UserProfile, error) {
	me, err := currentUser(s.session)
	if err != nil {
		s.notify.Error(err.Error())
		return models.UserProfile{}, err
	}

	profile, err := s.client.GetUser(ctx, me.ID)
	if err != nil {
		s.mu.Lock()
		s.profile = nil
		s.mu.Unlock()
		s.logger.Warn(ctx, "profile load failed", "user_id", me.ID, "error", err)
		s.notify.Error("failed to load profile")
		return models.UserProfile{}, err
	}

	s.mu.Lock()
	s.profile = profile
	s.mu.Unlock()
	return *profile, nil
}

// SaveProfile updates phone and bio. The profile is (re)loaded first unless
// the cached one belongs to the logged-in user.
func (s *SettingsService) SaveProfile(ctx context.Context, form models.ProfileForm) error {
	me, err := currentUser(s.session)
	if err != nil {
		s.notify.Error(err.Error())
		return err
	}
	if err := form.Validate(); err != nil {
		s.notify.Error(formMessage(err))
		return err
	}

	s.mu.Lock()
	loaded := s.profile
	s.mu.Unlock()
	if loaded == nil || loaded.ID != me.ID {
		p, err := s.LoadProfile(ctx)
		if err != nil {
			return err
		}
		loaded = &p
	}

	phone, _ := models.NormalizePhone(form.Phone)
	updated, err := s.client.UpdateUser(ctx, me.ID, models.UpdateUserPayload{
		Name:  loaded.Name,
		Email: loaded.Email,
		Phone: phone,
		Bio:   form.Bio,
		Role:  me.Role,
	})
	if err != nil {
		s.logger.Warn(ctx, "profile update failed", "user_id", me.ID, "error", err)
		s.notify.Error("failed to update profile")
		return err
	}

	next := *loaded
	next.Phone, next.Bio = phone, form.Bio
	if updated.ID != "" {
		next = *updated
	}
	s.mu.Lock()
	s.profile = &next
	s.mu.Unlock()

	s.notify.Success("profile updated")
	return nil
}

func (s *SettingsService) ChangePassword(ctx context.Context, password string) error {
	me, err := currentUser(s.session)
	if err != nil {
		s.notify.Error(err.Error())
		return err
	}
	if err := models.ValidateNewPassword(password); err != nil {
		s.notify.Error("enter a new password")
		return err
	}

	if err := s.client.UpdatePassword(ctx, me.ID, password); err != nil {
		s.logger.Warn(ctx, "password update failed", "user_id", me.ID, "error", err)
		s.notify.Error("failed to update password")
		return err
	}

	s.notify.Success("password updated")
	return nil
}
