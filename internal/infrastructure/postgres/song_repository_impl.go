package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tunehub/tunehub/internal/domain/entity"
	"github.com/tunehub/tunehub/internal/domain/repository"
)

const songColumns = `id, title, author, song_path, image_path, uploader_id, is_published, marked_for_deletion, created_at`

type SongRepository struct {
	pool *pgxpool.Pool
}

func NewSongRepository(pool *pgxpool.Pool) *SongRepository {
	return &SongRepository{pool: pool}
}

type songScanner interface {
	Scan(dest ...any) error
}

func scanSong(row songScanner) (*entity.Song, error) {
	var (
		id, title, author, songPath, imagePath string
		uploaderID                             *string // NULL when the uploader was removed
		isPublished, markedForDeletion         bool
		createdAt                              time.Time
	)
	if err := row.Scan(&id, &title, &author, &songPath, &imagePath, &uploaderID, &isPublished, &markedForDeletion, &createdAt); err != nil {
		return nil, err
	}
	return entity.ReconstituteSong(id, title, author,
		filePath(songPath), filePath(imagePath),
		fromNullable(uploaderID), isPublished, markedForDeletion, createdAt), nil
}

func (r *SongRepository) GetByID(ctx context.Context, id string) (*entity.Song, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+songColumns+` FROM songs WHERE id = $1`, id)
	s, err := scanSong(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByIDs returns songs in the order of the given ids. Any missing id
// makes the whole lookup fail so batch operations stay all-or-nothing.
func (r *SongRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Song, error) {
	if len(ids) == 0 {
		return []*entity.Song{}, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+songColumns+` FROM songs WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]*entity.Song, len(ids))
	for rows.Next() {
		s, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		byID[s.ID()] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*entity.Song, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("song %s: %w", id, pgx.ErrNoRows)
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *SongRepository) Add(ctx context.Context, s *entity.Song) error {
	return upsertSong(ctx, r.pool, s)
}

func (r *SongRepository) Update(ctx context.Context, s *entity.Song) error {
	return upsertSong(ctx, r.pool, s)
}

// UpdateAll persists a batch in one transaction.
func (r *SongRepository) UpdateAll(ctx context.Context, songs []*entity.Song) error {
	if len(songs) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, s := range songs {
		if err := upsertSong(ctx, tx, s); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *SongRepository) ListPublished(ctx context.Context, limit, offset int) ([]*entity.Song, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+songColumns+`
		FROM songs
		WHERE is_published AND NOT marked_for_deletion
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSongs(rows)
}

// Search ranks published songs by the better of the title and author
// trigram similarity against the query. The % operator keeps the GIN
// trigram indexes usable.
func (r *SongRepository) Search(ctx context.Context, query string, limit int) ([]*entity.Song, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+songColumns+`
		FROM songs
		WHERE is_published AND NOT marked_for_deletion
		  AND (title % $1 OR author % $1)
		ORDER BY greatest(similarity(title, $1), similarity(author, $1)) DESC
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSongs(rows)
}

func collectSongs(rows pgx.Rows) ([]*entity.Song, error) {
	out := make([]*entity.Song, 0)
	for rows.Next() {
		s, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func upsertSong(ctx context.Context, q querier, s *entity.Song) error {
	_, err := q.Exec(ctx, `
		INSERT INTO songs (id, title, author, song_path, image_path, uploader_id, is_published, marked_for_deletion, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			author = EXCLUDED.author,
			song_path = EXCLUDED.song_path,
			image_path = EXCLUDED.image_path,
			is_published = EXCLUDED.is_published,
			marked_for_deletion = EXCLUDED.marked_for_deletion
	`, s.ID(), s.Title(), s.Author(), s.SongPath().Value(), s.ImagePath().Value(), nullableID(s.UploaderID()), s.IsPublished(), s.MarkedForDeletion(), s.CreatedAt())
	return err
}

var _ repository.SongRepository = (*SongRepository)(nil)
