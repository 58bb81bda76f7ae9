package repository

import (
	"context"

	"github.com/tunehub/tunehub/internal/domain/entity"
)

// UserRepository loads and stores fully-formed User aggregates including
// their child collections. A missing aggregate is (nil, nil); callers
// decide whether that is a not-found error.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByRefreshToken(ctx context.Context, token string) (*entity.User, error)
	Add(ctx context.Context, u *entity.User) error
	Update(ctx context.Context, u *entity.User) error
}
