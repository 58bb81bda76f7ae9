// Package redisstore keeps short-lived confirmation codes in Redis.
package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCodeMismatch is returned when a code is missing, expired, or wrong.
var ErrCodeMismatch = errors.New("confirmation code mismatch")

// Purposes namespace the code keys so an activation code can never be
// replayed as a password reset code.
const (
	PurposeActivation    = "activation"
	PurposePasswordReset = "password_reset"
)

// CodeStore stores one active confirmation code per user and purpose.
// Saving a new code overwrites the previous one.
type CodeStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCodeStore(rdb *redis.Client, ttl time.Duration) *CodeStore {
	return &CodeStore{rdb: rdb, ttl: ttl}
}

func codeKey(purpose, userID string) string {
	return "code:" + purpose + ":" + userID
}

// Save stores the code under the user's key with the configured TTL.
func (s *CodeStore) Save(ctx context.Context, purpose, userID, code string) error {
	return s.rdb.Set(ctx, codeKey(purpose, userID), code, s.ttl).Err()
}

// Consume compares the stored code and deletes it on match. A missing
// or non-matching code yields ErrCodeMismatch; the stored code survives
// a failed attempt until its TTL runs out.
func (s *CodeStore) Consume(ctx context.Context, purpose, userID, code string) error {
	key := codeKey(purpose, userID)
	stored, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCodeMismatch
	}
	if err != nil {
		return err
	}
	if stored != code {
		return ErrCodeMismatch
	}
	return s.rdb.Del(ctx, key).Err()
}
