package repository

import (
	"context"

	"github.com/tunehub/tunehub/internal/domain/entity"
)

// SongRepository loads and stores Song aggregates and serves the
// trigram-ranked catalog search.
type SongRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Song, error)
	// GetByIDs returns the songs in the order of the given ids and an
	// error when any id is missing.
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Song, error)
	Add(ctx context.Context, s *entity.Song) error
	Update(ctx context.Context, s *entity.Song) error
	// UpdateAll persists a batch atomically in one transaction.
	UpdateAll(ctx context.Context, songs []*entity.Song) error
	ListPublished(ctx context.Context, limit, offset int) ([]*entity.Song, error)
	// Search ranks published songs by trigram similarity of title and
	// author against the query.
	Search(ctx context.Context, query string, limit int) ([]*entity.Song, error)
}
