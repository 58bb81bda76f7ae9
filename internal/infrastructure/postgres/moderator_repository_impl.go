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

const moderatorColumns = `id, email, password_hash, full_name, is_active, perm_manage_users, perm_manage_content, perm_view_reports, perm_manage_moderators, created_at`

type ModeratorRepository struct {
	pool *pgxpool.Pool
}

func NewModeratorRepository(pool *pgxpool.Pool) *ModeratorRepository {
	return &ModeratorRepository{pool: pool}
}

func scanModerator(row pgx.Row) (*entity.Moderator, error) {
	var (
		id, emailStr, hashStr, fullName string
		isActive                        bool
		perms                           valueobject.ModeratorPermissions
		createdAt                       time.Time
	)
	if err := row.Scan(&id, &emailStr, &hashStr, &fullName, &isActive,
		&perms.CanManageUsers, &perms.CanManageContent, &perms.CanViewReports, &perms.CanManageModerators,
		&createdAt); err != nil {
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
	return entity.ReconstituteModerator(id, email, hash, fullName, isActive, createdAt, perms), nil
}

func (r *ModeratorRepository) getBy(ctx context.Context, where string, arg any) (*entity.Moderator, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+moderatorColumns+` FROM moderators WHERE `+where, arg)
	m, err := scanModerator(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *ModeratorRepository) GetByID(ctx context.Context, id string) (*entity.Moderator, error) {
	return r.getBy(ctx, `id = $1`, id)
}

func (r *ModeratorRepository) GetByEmail(ctx context.Context, email string) (*entity.Moderator, error) {
	return r.getBy(ctx, `email = $1`, email)
}

func (r *ModeratorRepository) Add(ctx context.Context, m *entity.Moderator) error {
	return r.save(ctx, m)
}

func (r *ModeratorRepository) Update(ctx context.Context, m *entity.Moderator) error {
	return r.save(ctx, m)
}

func (r *ModeratorRepository) save(ctx context.Context, m *entity.Moderator) error {
	perms := m.Permissions()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO moderators (id, email, password_hash, full_name, is_active, perm_manage_users, perm_manage_content, perm_view_reports, perm_manage_moderators, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			full_name = EXCLUDED.full_name,
			is_active = EXCLUDED.is_active,
			perm_manage_users = EXCLUDED.perm_manage_users,
			perm_manage_content = EXCLUDED.perm_manage_content,
			perm_view_reports = EXCLUDED.perm_view_reports,
			perm_manage_moderators = EXCLUDED.perm_manage_moderators
	`, m.ID(), m.Email().Value(), m.PasswordHash().Value(), m.FullName(), m.IsActive(),
		perms.CanManageUsers, perms.CanManageContent, perms.CanViewReports, perms.CanManageModerators,
		m.CreatedAt())
	return err
}

var _ repository.ModeratorRepository = (*ModeratorRepository)(nil)
