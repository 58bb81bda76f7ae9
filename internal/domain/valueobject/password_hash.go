package valueobject

import "github.com/tunehub/tunehub/internal/domain"

var ErrEmptyPasswordHash = domain.NewError("ValidationError", "password hash must not be empty")

// PasswordHash wraps an opaque hash produced by the injected hasher.
// The domain never sees plaintext passwords.
type PasswordHash struct {
	value string
}

func NewPasswordHash(raw string) (PasswordHash, error) {
	if raw == "" {
		return PasswordHash{}, ErrEmptyPasswordHash
	}
	return PasswordHash{value: raw}, nil
}

func (p PasswordHash) Value() string { return p.value }
