package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// LabelService maps numeric status/priority codes to human-readable labels
// via the dynamic parameter table. Resolution never affects control flow;
// an unresolvable code falls back to its decimal string form.
type LabelService struct {
	lookups repository.LookupRepository
}

// NewLabelService constructs the service.
func NewLabelService(lookups repository.LookupRepository) *LabelService {
	return &LabelService{lookups: lookups}
}

// Resolve returns the display label for a numeric code within a group.
// Match order: exact numeric key, then exact identifier. A matched row with
// an empty display value falls back to its identifier; no match falls back
// to the raw code.
func (s *LabelService) Resolve(ctx context.Context, group string, code int) string {
	raw := strconv.Itoa(code)
	if s.lookups == nil {
		return raw
	}

	row, err := s.lookups.GetByNumericID(ctx, group, code)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return raw
	}
	if row == nil || errors.Is(err, pgx.ErrNoRows) {
		row, err = s.lookups.GetByIdent(ctx, group, raw)
		if err != nil {
			return raw
		}
	}
	if row == nil {
		return raw
	}
	if row.Value != "" {
		return row.Value
	}
	if row.Ident != "" {
		return row.Ident
	}
	return raw
}
