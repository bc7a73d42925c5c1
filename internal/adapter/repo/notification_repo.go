package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
	"server/internal/infra"
)

// NotificationRepositoryPG implements domain.NotificationRepository using
// PostgreSQL. Exactly-once creation rides on the unique dedupe_key index.
type NotificationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepositoryPG.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepositoryPG {
	return &NotificationRepositoryPG{pool: pool}
}

// CreateOnce inserts the notification unless its dedupe key already exists.
// A retried dispatch after a transient failure lands on the conflict arm and
// reports created=false.
func (r *NotificationRepositoryPG) CreateOnce(ctx context.Context, n *domain.Notification) (bool, error) {
	err := r.pool.QueryRow(ctx, `
INSERT INTO notifications (user_id, title, message, type, related_id, dedupe_key)
VALUES ($1, $2, $3, $4, nullif($5, '')::uuid, $6)
ON CONFLICT (dedupe_key) DO NOTHING
RETURNING id, created_at;
`, n.UserID, n.Title, n.Message, n.Kind, n.RelatedID, n.DedupeKey).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		if infra.IsNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert notification: %w", err)
	}
	return true, nil
}

// ListByUser returns the recipient's notifications, newest first.
func (r *NotificationRepositoryPG) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	query := `
SELECT id, user_id, title, message, type, coalesce(related_id::text, ''), dedupe_key, read, created_at
FROM notifications
WHERE user_id = $1`
	if unreadOnly {
		query += " AND read = false"
	}
	query += `
ORDER BY created_at DESC
LIMIT 100;`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Kind,
			&n.RelatedID, &n.DedupeKey, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// MarkRead flips the read flag. The transition is one-way and idempotent:
// marking an already-read notification succeeds without effect.
func (r *NotificationRepositoryPG) MarkRead(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2;
`, id, userID)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.NotificationRepository = (*NotificationRepositoryPG)(nil)
