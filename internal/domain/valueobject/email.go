// Package valueobject holds the immutable, validation-on-construction
// wrappers used by the domain aggregates. All of them compare by value.
package valueobject

import (
	"regexp"
	"strings"

	"github.com/tunehub/tunehub/internal/domain"
)

const maxEmailLength = 254

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

var (
	ErrEmptyEmail         = domain.NewError("ValidationError", "email must not be empty")
	ErrEmailTooLong       = domain.NewError("ValidationError", "email must not exceed 254 characters")
	ErrInvalidEmailFormat = domain.NewError("ValidationError", "email has an invalid format")
)

// Email is a validated, normalized e-mail address.
type Email struct {
	value string
}

func NewEmail(raw string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return Email{}, ErrEmptyEmail
	}
	if len(normalized) > maxEmailLength {
		return Email{}, ErrEmailTooLong
	}
	if !emailPattern.MatchString(normalized) {
		return Email{}, ErrInvalidEmailFormat
	}
	return Email{value: normalized}, nil
}

func (e Email) Value() string  { return e.value }
func (e Email) String() string { return e.value }
