package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// ErrValidation marks errors raised before any network call because the
// form itself is unacceptable. Match with errors.Is.
var ErrValidation = errors.New("validation failed")

var resetCodePattern = regexp.MustCompile(`^[0-9]{6}$`)

func invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

func equalTo(other string, msg string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s != other {
			return errors.New(msg)
		}
		return nil
	}
}

type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (f LoginForm) Validate() error {
	return invalid(validation.ValidateStruct(&f,
		validation.Field(&f.Email, validation.Required, is.Email),
		validation.Field(&f.Password, validation.Required),
	))
}

// RegistrationForm is the public sign-up form. Every field but Phone is
// mandatory and both password entries must match.
type RegistrationForm struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Bio             string `json:"bio"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Phone           string `json:"phone"`
}

func (f RegistrationForm) Validate() error {
	return invalid(validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.Email, validation.Required, is.Email),
		validation.Field(&f.Bio, validation.Required),
		validation.Field(&f.Password, validation.Required),
		validation.Field(&f.ConfirmPassword, validation.Required,
			validation.By(equalTo(f.Password, "passwords do not match"))),
		validation.Field(&f.Phone, validation.By(validPhone)),
	))
}

// Payload builds the POST /users body. Self-registration always creates a
// regular user.
func (f RegistrationForm) Payload() CreateUserPayload {
	phone, _ := NormalizePhone(f.Phone)
	return CreateUserPayload{
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.TrimSpace(f.Email),
		Phone:    phone,
		Bio:      f.Bio,
		Password: f.Password,
		Role:     RoleUser,
	}
}

// UserForm backs both "create user" and "edit user". Password is required
// only when creating.
type UserForm struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Bio      string `json:"bio"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// FormFromProfile pre-fills an edit form. The password is never pre-filled.
func FormFromProfile(u UserProfile) UserForm {
	return UserForm{Name: u.Name, Email: u.Email, Phone: u.Phone, Bio: u.Bio, Role: u.Role}
}

func (f UserForm) Validate(creating bool) error {
	var passwordRules []validation.Rule
	if creating {
		passwordRules = append(passwordRules, validation.Required)
	}

	return invalid(validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.Email, validation.Required, is.Email),
		validation.Field(&f.Phone, validation.By(validPhone)),
		validation.Field(&f.Password, passwordRules...),
		validation.Field(&f.Role, validation.In(RoleUser, RoleSupporter)),
	))
}

func (f UserForm) CreatePayload() CreateUserPayload {
	phone, _ := NormalizePhone(f.Phone)
	role := f.Role
	if role == "" {
		role = RoleUser
	}
	return CreateUserPayload{
		Name: strings.TrimSpace(f.Name), Email: strings.TrimSpace(f.Email),
		Phone: phone, Bio: f.Bio, Password: f.Password, Role: role,
	}
}

func (f UserForm) UpdatePayload() UpdateUserPayload {
	phone, _ := NormalizePhone(f.Phone)
	return UpdateUserPayload{
		Name: strings.TrimSpace(f.Name), Email: strings.TrimSpace(f.Email),
		Phone: phone, Bio: f.Bio, Password: f.Password, Role: f.Role,
	}
}

// ProfileForm holds the settings fields a user may change about themself.
type ProfileForm struct {
	Phone string `json:"phone"`
	Bio   string `json:"bio"`
}

func (f ProfileForm) Validate() error {
	return invalid(validation.ValidateStruct(&f,
		validation.Field(&f.Phone, validation.By(validPhone)),
	))
}

func ValidateEmail(email string) error {
	return invalid(validation.Validate(email, validation.Required, is.Email))
}

func ValidateResetCode(code string) error {
	return invalid(validation.Validate(code, validation.Required,
		validation.Match(resetCodePattern).Error("must be 6 digits")))
}

func ValidateNewPassword(password string) error {
	return invalid(validation.Validate(password, validation.Required))
}
