package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
	"server/internal/infra"
)

// DonationRepositoryPG implements domain.DonationRepository using PostgreSQL.
type DonationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewDonationRepository creates a new donation repo.
func NewDonationRepository(pool *pgxpool.Pool) *DonationRepositoryPG {
	return &DonationRepositoryPG{pool: pool}
}

// CreateWithNotifications writes the donation and its notifications in one
// transaction. A donation is never recorded without its notifications, and
// vice versa: any failure rolls back everything.
func (r *DonationRepositoryPG) CreateWithNotifications(ctx context.Context, donation *domain.Donation, notifications []domain.Notification) (*domain.Donation, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin donation tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
INSERT INTO donations (id, donor_id, ngo_id, amount, campaign, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING donated_at, created_at;
`, donation.ID, donation.DonorID, donation.NGOID, donation.Amount, donation.Campaign, donation.Status,
	).Scan(&donation.DonatedAt, &donation.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert donation: %w", err)
	}

	for i := range notifications {
		n := &notifications[i]
		if err := insertNotificationTx(ctx, tx, n); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit donation tx: %w", err)
	}
	return donation, nil
}

// ListByDonor returns the donor's own donations, newest first.
func (r *DonationRepositoryPG) ListByDonor(ctx context.Context, donorID string) ([]domain.Donation, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, donor_id, ngo_id, amount, campaign, status, donated_at, created_at
FROM donations
WHERE donor_id = $1
ORDER BY created_at DESC;
`, donorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Donation
	for rows.Next() {
		var d domain.Donation
		if err := rows.Scan(&d.ID, &d.DonorID, &d.NGOID, &d.Amount, &d.Campaign,
			&d.Status, &d.DonatedAt, &d.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func insertNotificationTx(ctx context.Context, tx pgx.Tx, n *domain.Notification) error {
	err := tx.QueryRow(ctx, `
INSERT INTO notifications (user_id, title, message, type, related_id, dedupe_key)
VALUES ($1, $2, $3, $4, nullif($5, '')::uuid, $6)
ON CONFLICT (dedupe_key) DO NOTHING
RETURNING id, created_at;
`, n.UserID, n.Title, n.Message, n.Kind, n.RelatedID, n.DedupeKey).Scan(&n.ID, &n.CreatedAt)
	if err != nil && !infra.IsNoRows(err) {
		return fmt.Errorf("insert notification %s: %w", n.DedupeKey, err)
	}
	return nil
}

var _ domain.DonationRepository = (*DonationRepositoryPG)(nil)
