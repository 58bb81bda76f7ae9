package entity

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
)

// refreshTokenTTL is how long a freshly issued refresh token stays valid.
const refreshTokenTTL = 30 * 24 * time.Hour

// RefreshToken is a child entity of User. Tokens are rotated, never
// mutated in place: updating replaces the old entry with a new one.
type RefreshToken struct {
	id        string
	userID    string
	token     string
	expires   time.Time
	createdAt time.Time
}

func newRefreshToken(userID string) RefreshToken {
	b := make([]byte, 32)
	// rand.Read never returns an error on supported platforms
	_, _ = rand.Read(b)
	now := time.Now().UTC()
	return RefreshToken{
		id:        uuid.NewString(),
		userID:    userID,
		token:     base64.RawURLEncoding.EncodeToString(b),
		expires:   now.Add(refreshTokenTTL),
		createdAt: now,
	}
}

// ReconstituteRefreshToken rebuilds a RefreshToken from persistence.
func ReconstituteRefreshToken(id, userID, token string, expires, createdAt time.Time) RefreshToken {
	return RefreshToken{id: id, userID: userID, token: token, expires: expires, createdAt: createdAt}
}

func (t RefreshToken) ID() string           { return t.id }
func (t RefreshToken) UserID() string       { return t.userID }
func (t RefreshToken) Token() string        { return t.token }
func (t RefreshToken) Expires() time.Time   { return t.expires }
func (t RefreshToken) CreatedAt() time.Time { return t.createdAt }

func (t RefreshToken) IsExpired() bool { return time.Now().UTC().After(t.expires) }
