package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tunehub/tunehub/internal/domain/valueobject"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so aggregate
// writes can share statements inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func filePath(s string) valueobject.FilePath {
	if s == "" {
		return valueobject.EmptyFilePath()
	}
	return valueobject.NewFilePath(s)
}

// nullableID maps an empty aggregate id to SQL NULL for optional FK
// columns such as songs.uploader_id.
func nullableID(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func fromNullable(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
