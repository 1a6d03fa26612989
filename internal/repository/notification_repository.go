package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// NotificationRepository persists fan-out records.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	ListByScope(ctx context.Context, scope domain.NotificationScope, recipientID *string, limit, offset int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string) error
	CountUnread(ctx context.Context, scope domain.NotificationScope, recipientID *string) (int, error)
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository instantiates the repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	const query = `
        INSERT INTO notifications (scope, recipient_id, kind, title, message, ticket_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		notification.Scope,
		notification.RecipientID,
		notification.Kind,
		notification.Title,
		notification.Message,
		notification.TicketID,
	).Scan(&notification.ID, &notification.CreatedAt, &notification.UpdatedAt)
}

func (r *notificationRepository) ListByScope(ctx context.Context, scope domain.NotificationScope, recipientID *string, limit, offset int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, scope, recipient_id, kind, title, message, ticket_id, read_flag, deleted_flag, created_at, updated_at
        FROM notifications
        WHERE scope=$1 AND ($2::text IS NULL OR recipient_id=$2) AND deleted_flag=FALSE
        ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.pool.Query(ctx, query, scope, recipientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID,
			&n.Scope,
			&n.RecipientID,
			&n.Kind,
			&n.Title,
			&n.Message,
			&n.TicketID,
			&n.Read,
			&n.Deleted,
			&n.CreatedAt,
			&n.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	const query = `UPDATE notifications SET read_flag=TRUE, updated_at=NOW() WHERE id=$1 AND deleted_flag=FALSE`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *notificationRepository) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE notifications SET deleted_flag=TRUE, updated_at=NOW() WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, scope domain.NotificationScope, recipientID *string) (int, error) {
	const query = `
        SELECT COUNT(*) FROM notifications
        WHERE scope=$1 AND ($2::text IS NULL OR recipient_id=$2) AND read_flag=FALSE AND deleted_flag=FALSE`
	var count int
	err := r.pool.QueryRow(ctx, query, scope, recipientID).Scan(&count)
	return count, err
}
