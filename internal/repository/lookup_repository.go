package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// LookupRepository queries the dynamic parameter table.
type LookupRepository interface {
	GetByNumericID(ctx context.Context, group string, numericID int) (*domain.LookupRow, error)
	GetByIdent(ctx context.Context, group, ident string) (*domain.LookupRow, error)
}

type lookupRepository struct {
	pool *pgxpool.Pool
}

// NewLookupRepository instantiates the repository.
func NewLookupRepository(pool *pgxpool.Pool) LookupRepository {
	return &lookupRepository{pool: pool}
}

func (r *lookupRepository) GetByNumericID(ctx context.Context, group string, numericID int) (*domain.LookupRow, error) {
	const query = `
        SELECT id, group_name, numeric_id, ident, value, created_at, updated_at
        FROM lookup_rows WHERE group_name=$1 AND numeric_id=$2`
	return r.fetchSingle(ctx, query, group, numericID)
}

func (r *lookupRepository) GetByIdent(ctx context.Context, group, ident string) (*domain.LookupRow, error) {
	const query = `
        SELECT id, group_name, numeric_id, ident, value, created_at, updated_at
        FROM lookup_rows WHERE group_name=$1 AND ident=$2`
	return r.fetchSingle(ctx, query, group, ident)
}

func (r *lookupRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.LookupRow, error) {
	var row domain.LookupRow
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&row.ID,
		&row.GroupName,
		&row.NumericID,
		&row.Ident,
		&row.Value,
		&row.CreatedAt,
		&row.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &row, nil
}
