package models

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is used for numbers entered without a country code.
const DefaultPhoneRegion = "BR"

var ErrInvalidPhone = errors.New("must be a valid phone number")

// NormalizePhone parses raw and returns it in national format, e.g.
// "11912345678" -> "(11) 91234-5678". Blank input stays blank.
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	num, err := phonenumbers.Parse(raw, DefaultPhoneRegion)
	if err != nil {
		return "", ErrInvalidPhone
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(num, phonenumbers.NATIONAL), nil
}

func validPhone(value interface{}) error {
	s, _ := value.(string)
	_, err := NormalizePhone(s)
	return err
}
