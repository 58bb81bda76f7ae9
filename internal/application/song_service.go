package application

import (
	"context"
	"strings"

	"github.com/tunehub/tunehub/internal/domain/entity"
	repo "github.com/tunehub/tunehub/internal/domain/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxSearchLimit  = 50
)

// SongService serves the public catalog: published songs and
// similarity-ranked search.
type SongService struct {
	Songs repo.SongRepository
}

func NewSongService(songs repo.SongRepository) *SongService {
	return &SongService{Songs: songs}
}

func (s *SongService) Get(ctx context.Context, songID string) (*entity.Song, error) {
	song, err := s.Songs.GetByID(ctx, songID)
	if err != nil {
		return nil, err
	}
	if song == nil || !song.IsPublished() {
		return nil, ErrSongNotFound
	}
	return song, nil
}

func (s *SongService) ListPublished(ctx context.Context, page, pageSize int) ([]*entity.Song, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	return s.Songs.ListPublished(ctx, pageSize, (page-1)*pageSize)
}

// Search ranks published songs by trigram similarity of title and author.
// A blank query falls back to the first page of the catalog.
func (s *SongService) Search(ctx context.Context, query string, limit int) ([]*entity.Song, error) {
	query = strings.TrimSpace(query)
	if limit <= 0 || limit > maxSearchLimit {
		limit = defaultPageSize
	}
	if query == "" {
		return s.Songs.ListPublished(ctx, limit, 0)
	}
	return s.Songs.Search(ctx, query, limit)
}
