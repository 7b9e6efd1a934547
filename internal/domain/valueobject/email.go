package valueobject

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidEmail is returned when an address fails construction rules.
var ErrInvalidEmail = errors.New("invalid email address")

var emailPattern = regexp.MustCompile(`^\w+([-+.']\w+)*@\w+([-.]\w+)*\.\w+([-.]\w+)*$`)

// Email is an immutable value object compared by its normalized address.
// The zero value is invalid; construct through NewEmail.
type Email struct {
	address string
}

// NewEmail validates the raw address and normalizes it by trimming and
// lower-casing. The pattern check runs against the trimmed input; the
// stored form is the lower-cased result.
func NewEmail(address string) (Email, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" || len(trimmed) < 5 {
		return Email{}, ErrInvalidEmail
	}
	if !emailPattern.MatchString(trimmed) {
		return Email{}, ErrInvalidEmail
	}
	return Email{address: strings.ToLower(trimmed)}, nil
}

// Address returns the normalized form.
func (e Email) Address() string { return e.address }

func (e Email) String() string { return e.address }
