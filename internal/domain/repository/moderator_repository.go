package repository

import (
	"context"

	"github.com/tunehub/tunehub/internal/domain/entity"
)

// ModeratorRepository loads and stores Moderator aggregates.
type ModeratorRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Moderator, error)
	GetByEmail(ctx context.Context, email string) (*entity.Moderator, error)
	Add(ctx context.Context, m *entity.Moderator) error
	Update(ctx context.Context, m *entity.Moderator) error
}
