package services

import (
	"context"

	"github.com/dmitrijs2005/gophadmin/internal/client/models"
)

// fakeClient implements client.Client for the service tests. Each method
// records its arguments and returns the configured result.
type fakeClient struct {
	LoginRet *models.LoginResponse
	LoginErr error

	RequestResetErr  error
	ValidateResetErr error
	ResetErr         error

	RegisterErr     error
	CreateByAuthErr error
	GetUserRet      *models.UserProfile
	GetUserErr      error
	UpdateUserRet   *models.UserProfile
	UpdateUserErr   error
	UpdatePassErr   error

	Calls []string

	LastLoginEmail    string
	LastResetEmail    string
	LastResetCode     string
	LastNewPassword   string
	LastCreate        models.CreateUserPayload
	LastUpdateID      string
	LastUpdate        models.UpdateUserPayload
	LastPasswordID    string
	LastPasswordValue string
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	f.Calls = append(f.Calls, "Login")
	f.LastLoginEmail = email
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) RequestPasswordReset(ctx context.Context, email string) error {
	f.Calls = append(f.Calls, "RequestPasswordReset")
	f.LastResetEmail = email
	return f.RequestResetErr
}

func (f *fakeClient) ValidatePasswordReset(ctx context.Context, email, code string) error {
	f.Calls = append(f.Calls, "ValidatePasswordReset")
	f.LastResetEmail = email
	f.LastResetCode = code
	return f.ValidateResetErr
}

func (f *fakeClient) ResetPassword(ctx context.Context, email, newPassword string) error {
	f.Calls = append(f.Calls, "ResetPassword")
	f.LastResetEmail = email
	f.LastNewPassword = newPassword
	return f.ResetErr
}

func (f *fakeClient) Register(ctx context.Context, p models.CreateUserPayload) (*models.UserProfile, error) {
	f.Calls = append(f.Calls, "Register")
	f.LastCreate = p
	if f.RegisterErr != nil {
		return nil, f.RegisterErr
	}
	return &models.UserProfile{ID: "new", Name: p.Name, Role: p.Role}, nil
}

func (f *fakeClient) CreateByAuth(ctx context.Context, p models.CreateUserPayload) (*models.UserProfile, error) {
	f.Calls = append(f.Calls, "CreateByAuth")
	f.LastCreate = p
	if f.CreateByAuthErr != nil {
		return nil, f.CreateByAuthErr
	}
	return &models.UserProfile{ID: "new", Name: p.Name, Role: p.Role}, nil
}

func (f *fakeClient) GetUsers(ctx context.Context, page, limit int, q string) (*models.UsersPage, error) {
	f.Calls = append(f.Calls, "GetUsers")
	return &models.UsersPage{}, nil
}

func (f *fakeClient) GetUser(ctx context.Context, id string) (*models.UserProfile, error) {
	f.Calls = append(f.Calls, "GetUser")
	return f.GetUserRet, f.GetUserErr
}

func (f *fakeClient) UpdateUser(ctx context.Context, id string, p models.UpdateUserPayload) (*models.UserProfile, error) {
	f.Calls = append(f.Calls, "UpdateUser")
	f.LastUpdateID = id
	f.LastUpdate = p
	if f.UpdateUserErr != nil {
		return nil, f.UpdateUserErr
	}
	if f.UpdateUserRet != nil {
		return f.UpdateUserRet, nil
	}
	return &models.UserProfile{}, nil
}

func (f *fakeClient) UpdatePassword(ctx context.Context, id, password string) error {
	f.Calls = append(f.Calls, "UpdatePassword")
	f.LastPasswordID = id
	f.LastPasswordValue = password
	return f.UpdatePassErr
}

func (f *fakeClient) DeleteUser(ctx context.Context, id string) error {
	f.Calls = append(f.Calls, "DeleteUser")
	return nil
}

type fakeNotifier struct {
	Successes []string
	Errors    []string
}

func (n *fakeNotifier) Success(msg string) { n.Successes = append(n.Successes, msg) }
func (n *fakeNotifier) Error(msg string)   { n.Errors = append(n.Errors, msg) }

func (n *fakeNotifier) count() int { return len(n.Successes) + len(n.Errors) }
