package helpers

import (
	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Redis key builders shared by middleware and services.

// KeyUserSession is the hash holding a logged-in user's session.
func KeyUserSession(userID string) string { return "user:session:" + userID }

// KeyModeratorSession is the hash holding a moderator console session.
func KeyModeratorSession(moderatorID string) string { return "moderator:session:" + moderatorID }
