package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
	"server/internal/infra"
)

// HoursRepositoryPG implements domain.HoursRepository using PostgreSQL.
// Entries are append-only; the insert and the aggregate addition commit
// together so the running total never reflects a half-applied entry.
type HoursRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewHoursRepository creates a new HoursRepositoryPG.
func NewHoursRepository(pool *pgxpool.Pool) *HoursRepositoryPG {
	return &HoursRepositoryPG{pool: pool}
}

// Append validates the registration precondition, inserts the entry and
// adds its hours to the volunteer aggregate in one transaction.
func (r *HoursRepositoryPG) Append(ctx context.Context, entry *domain.HoursEntry) (*domain.HoursEntry, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin hours tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// FOR SHARE holds the registration row against a concurrent Cancel: the
	// status observed here stays true until this transaction commits.
	var regStatus domain.RegistrationStatus
	err = tx.QueryRow(ctx, `
SELECT status FROM registrations WHERE event_id = $1 AND volunteer_id = $2 FOR SHARE;
`, entry.EventID, entry.VolunteerID).Scan(&regStatus)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotRegistered
		}
		return nil, fmt.Errorf("load registration: %w", err)
	}
	if regStatus != domain.RegistrationConfirmed && regStatus != domain.RegistrationAttended {
		return nil, domain.ErrNotRegistered
	}

	err = tx.QueryRow(ctx, `
INSERT INTO volunteer_hours (volunteer_id, event_id, hours, entry_date, notes)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at;
`, entry.VolunteerID, entry.EventID, entry.Hours, entry.EntryDate, entry.Notes,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert hours entry: %w", err)
	}

	if err := applyAggregateDelta(ctx, tx, entry.VolunteerID, 0, entry.Hours); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit hours tx: %w", err)
	}
	return entry, nil
}

// SumByVolunteer totals the ledger directly, bypassing the aggregate.
func (r *HoursRepositoryPG) SumByVolunteer(ctx context.Context, volunteerID string) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `
SELECT coalesce(sum(hours), 0) FROM volunteer_hours WHERE volunteer_id = $1;
`, volunteerID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum hours: %w", err)
	}
	return total, nil
}

var _ domain.HoursRepository = (*HoursRepositoryPG)(nil)
