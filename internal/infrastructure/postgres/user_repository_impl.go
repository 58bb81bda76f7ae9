package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tunehub/tunehub/internal/domain/entity"
	"github.com/tunehub/tunehub/internal/domain/repository"
	"github.com/tunehub/tunehub/internal/domain/valueobject"
)

// UserRepository loads and stores the full User aggregate. The child
// collections (songs, playlists, likes, refresh tokens) always travel
// with the root, and writes sync them in one transaction.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getBy(ctx, `u.id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getBy(ctx, `u.email = $1`, email)
}

// GetByRefreshToken resolves the aggregate owning the opaque token.
func (r *UserRepository) GetByRefreshToken(ctx context.Context, token string) (*entity.User, error) {
	var userID string
	err := r.pool.QueryRow(ctx, `SELECT user_id FROM refresh_tokens WHERE token = $1`, token).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, userID)
}

func (r *UserRepository) getBy(ctx context.Context, where string, arg any) (*entity.User, error) {
	var (
		id, emailStr, hashStr, fullName, avatarPath string
		isActive                                    bool
		createdAt                                   time.Time
	)
	err := r.pool.QueryRow(ctx, `
		SELECT u.id, u.email, u.password_hash, u.full_name, u.avatar_path, u.is_active, u.created_at
		FROM users u
		WHERE `+where, arg).
		Scan(&id, &emailStr, &hashStr, &fullName, &avatarPath, &isActive, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	email, err := valueobject.NewEmail(emailStr)
	if err != nil {
		return nil, err
	}
	hash, err := valueobject.NewPasswordHash(hashStr)
	if err != nil {
		return nil, err
	}

	songs, err := r.loadUploadedSongs(ctx, id)
	if err != nil {
		return nil, err
	}
	playlists, err := r.loadPlaylists(ctx, id)
	if err != nil {
		return nil, err
	}
	liked, err := r.loadLikedSongs(ctx, id)
	if err != nil {
		return nil, err
	}
	tokens, err := r.loadRefreshTokens(ctx, id)
	if err != nil {
		return nil, err
	}

	return entity.ReconstituteUser(id, email, hash, fullName, filePath(avatarPath), isActive, createdAt,
		songs, playlists, liked, tokens), nil
}

func (r *UserRepository) loadUploadedSongs(ctx context.Context, userID string) ([]*entity.Song, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+songColumns+`
		FROM songs
		WHERE uploader_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSongs(rows)
}

func (r *UserRepository) loadPlaylists(ctx context.Context, userID string) ([]*entity.Playlist, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, title, description, image_path, created_at
		FROM playlists
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type playlistRow struct {
		id, userID, title, description, imagePath string
		createdAt                                 time.Time
	}
	var heads []playlistRow
	for rows.Next() {
		var p playlistRow
		if err := rows.Scan(&p.id, &p.userID, &p.title, &p.description, &p.imagePath, &p.createdAt); err != nil {
			return nil, err
		}
		heads = append(heads, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*entity.Playlist, 0, len(heads))
	for _, p := range heads {
		songs, err := r.loadPlaylistSongs(ctx, p.id)
		if err != nil {
			return nil, err
		}
		out = append(out, entity.ReconstitutePlaylist(p.id, p.userID, p.title, p.description, filePath(p.imagePath), p.createdAt, songs))
	}
	return out, nil
}

func (r *UserRepository) loadPlaylistSongs(ctx context.Context, playlistID string) ([]entity.PlaylistSong, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT playlist_id, song_id, position, created_at
		FROM playlist_songs
		WHERE playlist_id = $1
		ORDER BY position
	`, playlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.PlaylistSong
	for rows.Next() {
		var (
			plID, songID string
			position     int
			createdAt    time.Time
		)
		if err := rows.Scan(&plID, &songID, &position, &createdAt); err != nil {
			return nil, err
		}
		out = append(out, entity.ReconstitutePlaylistSong(plID, songID, position, createdAt))
	}
	return out, rows.Err()
}

func (r *UserRepository) loadLikedSongs(ctx context.Context, userID string) ([]entity.LikedSong, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, song_id, created_at
		FROM liked_songs
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.LikedSong
	for rows.Next() {
		var (
			uID, songID string
			createdAt   time.Time
		)
		if err := rows.Scan(&uID, &songID, &createdAt); err != nil {
			return nil, err
		}
		out = append(out, entity.ReconstituteLikedSong(uID, songID, createdAt))
	}
	return out, rows.Err()
}

func (r *UserRepository) loadRefreshTokens(ctx context.Context, userID string) ([]entity.RefreshToken, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, token, expires, created_at
		FROM refresh_tokens
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.RefreshToken
	for rows.Next() {
		var (
			id, uID, token     string
			expires, createdAt time.Time
		)
		if err := rows.Scan(&id, &uID, &token, &expires, &createdAt); err != nil {
			return nil, err
		}
		out = append(out, entity.ReconstituteRefreshToken(id, uID, token, expires, createdAt))
	}
	return out, rows.Err()
}

func (r *UserRepository) Add(ctx context.Context, u *entity.User) error {
	return r.save(ctx, u)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	return r.save(ctx, u)
}

// save writes the root row and syncs every child collection inside one
// transaction. Likes, refresh tokens, and playlist memberships are
// replaced wholesale; songs and playlists are upserted and orphaned
// playlists removed.
func (r *UserRepository) save(ctx context.Context, u *entity.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, full_name, avatar_path, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			full_name = EXCLUDED.full_name,
			avatar_path = EXCLUDED.avatar_path,
			is_active = EXCLUDED.is_active
	`, u.ID(), u.Email().Value(), u.PasswordHash().Value(), u.FullName(), u.AvatarPath().Value(), u.IsActive(), u.CreatedAt()); err != nil {
		return err
	}

	for _, s := range u.UploadedSongs() {
		if err := upsertSong(ctx, tx, s); err != nil {
			return err
		}
	}

	if err := r.syncPlaylists(ctx, tx, u); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM liked_songs WHERE user_id = $1`, u.ID()); err != nil {
		return err
	}
	for _, l := range u.LikedSongs() {
		if _, err := tx.Exec(ctx, `
			INSERT INTO liked_songs (user_id, song_id, created_at) VALUES ($1, $2, $3)
		`, l.UserID(), l.SongID(), l.CreatedAt()); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, u.ID()); err != nil {
		return err
	}
	for _, t := range u.RefreshTokens() {
		if _, err := tx.Exec(ctx, `
			INSERT INTO refresh_tokens (id, user_id, token, expires, created_at) VALUES ($1, $2, $3, $4, $5)
		`, t.ID(), t.UserID(), t.Token(), t.Expires(), t.CreatedAt()); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *UserRepository) syncPlaylists(ctx context.Context, tx pgx.Tx, u *entity.User) error {
	playlists := u.Playlists()
	keep := make([]string, 0, len(playlists))
	for _, p := range playlists {
		keep = append(keep, p.ID())
	}

	// drop playlists no longer on the aggregate; memberships cascade
	if _, err := tx.Exec(ctx, `
		DELETE FROM playlists WHERE user_id = $1 AND NOT (id = ANY($2))
	`, u.ID(), keep); err != nil {
		return err
	}

	for _, p := range playlists {
		if _, err := tx.Exec(ctx, `
			INSERT INTO playlists (id, user_id, title, description, image_path, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				title = EXCLUDED.title,
				description = EXCLUDED.description,
				image_path = EXCLUDED.image_path
		`, p.ID(), p.UserID(), p.Title(), p.Description(), p.ImagePath().Value(), p.CreatedAt()); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM playlist_songs WHERE playlist_id = $1`, p.ID()); err != nil {
			return err
		}
		for _, ps := range p.Songs() {
			if _, err := tx.Exec(ctx, `
				INSERT INTO playlist_songs (playlist_id, song_id, position, created_at)
				VALUES ($1, $2, $3, $4)
			`, ps.PlaylistID(), ps.SongID(), ps.Order(), ps.CreatedAt()); err != nil {
				return err
			}
		}
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
