package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginForm_Validate(t *testing.T) {
	require.NoError(t, LoginForm{Email: "a@b.com", Password: "secret"}.Validate())

	err := LoginForm{Email: "", Password: ""}.Validate()
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "email")
	assert.Contains(t, err.Error(), "password")

	err = LoginForm{Email: "not-an-email", Password: "x"}.Validate()
	require.ErrorIs(t, err, ErrValidation)
}

func TestRegistrationForm_Validate(t *testing.T) {
	valid := RegistrationForm{
		Name: "Ana", Email: "ana@example.com", Bio: "hi",
		Password: "secret", ConfirmPassword: "secret",
	}

	tests := []struct {
		name    string
		mutate  func(f *RegistrationForm)
		wantErr string
	}{
		{name: "valid", mutate: func(f *RegistrationForm) {}},
		{name: "missing bio", mutate: func(f *RegistrationForm) { f.Bio = "" }, wantErr: "bio"},
		{name: "missing name", mutate: func(f *RegistrationForm) { f.Name = "" }, wantErr: "name"},
		{name: "passwords differ", mutate: func(f *RegistrationForm) { f.ConfirmPassword = "other" }, wantErr: "passwords do not match"},
		{name: "missing confirmation", mutate: func(f *RegistrationForm) { f.ConfirmPassword = "" }, wantErr: "confirmPassword"},
		{name: "bad phone", mutate: func(f *RegistrationForm) { f.Phone = "123" }, wantErr: "phone"},
		{name: "good phone", mutate: func(f *RegistrationForm) { f.Phone = "11987654321" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			err := f.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRegistrationForm_PayloadForcesRegularRole(t *testing.T) {
	p := RegistrationForm{
		Name: " Ana ", Email: "ana@example.com", Bio: "b",
		Password: "pw", ConfirmPassword: "pw", Phone: "11987654321",
	}.Payload()

	assert.Equal(t, CreateUserPayload{
		Name: "Ana", Email: "ana@example.com", Phone: "(11) 98765-4321",
		Bio: "b", Password: "pw", Role: RoleUser,
	}, p)
}

func TestUserForm_PasswordOnlyRequiredWhenCreating(t *testing.T) {
	f := UserForm{Name: "Bob", Email: "bob@example.com", Role: RoleUser}

	require.NoError(t, f.Validate(false))
	err := f.Validate(true)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "password")
}

func TestUserForm_RejectsUnknownRole(t *testing.T) {
	f := UserForm{Name: "Bob", Email: "bob@example.com", Role: "root"}
	require.ErrorIs(t, f.Validate(false), ErrValidation)
}

func TestUserForm_Payloads(t *testing.T) {
	f := UserForm{Name: "Bob", Email: "bob@example.com", Bio: "x", Password: "pw"}

	c := f.CreatePayload()
	assert.Equal(t, RoleUser, c.Role, "create defaults to regular user")
	assert.Equal(t, "pw", c.Password)

	f.Role = RoleSupporter
	u := f.UpdatePayload()
	assert.Equal(t, RoleSupporter, u.Role)
}

func TestFormFromProfile_NeverCarriesPassword(t *testing.T) {
	f := FormFromProfile(UserProfile{ID: "u1", Name: "Ana", Email: "a@b.com", Role: RoleSupporter, Bio: "b"})
	assert.Equal(t, UserForm{Name: "Ana", Email: "a@b.com", Bio: "b", Role: RoleSupporter}, f)
}

func TestValidateResetCode(t *testing.T) {
	require.NoError(t, ValidateResetCode("123456"))
	require.ErrorIs(t, ValidateResetCode("12345"), ErrValidation)
	require.ErrorIs(t, ValidateResetCode("12a456"), ErrValidation)
	require.ErrorIs(t, ValidateResetCode(""), ErrValidation)
}

func TestValidateEmailAndPassword(t *testing.T) {
	require.NoError(t, ValidateEmail("a@b.com"))
	require.ErrorIs(t, ValidateEmail("nope"), ErrValidation)
	require.NoError(t, ValidateNewPassword("x"))
	require.ErrorIs(t, ValidateNewPassword(""), ErrValidation)
}

func TestProfileForm_Validate(t *testing.T) {
	require.NoError(t, ProfileForm{Bio: "only bio"}.Validate())
	require.ErrorIs(t, ProfileForm{Phone: "999"}.Validate(), ErrValidation)
}
