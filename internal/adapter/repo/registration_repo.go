package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
	"server/internal/infra"
)

// RegistrationRepositoryPG implements domain.RegistrationRepository backed by
// PostgreSQL. All capacity-affecting writes lock the event row first, so for
// a given event they execute in a single total order and the confirmed count
// can never pass capacity, no matter how many callers race.
type RegistrationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewRegistrationRepository creates a new RegistrationRepositoryPG.
func NewRegistrationRepository(pool *pgxpool.Pool) *RegistrationRepositoryPG {
	return &RegistrationRepositoryPG{pool: pool}
}

// RegisterConfirmed runs the whole check-and-reserve as one transaction:
// event open, no active registration, seat available, insert (or revive a
// cancelled row), bump the volunteer aggregate, re-evaluate badges.
func (r *RegistrationRepositoryPG) RegisterConfirmed(ctx context.Context, eventID, volunteerID string) (*domain.RegistrationOutcome, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin register tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// The row lock is the per-event mutual-exclusion token: concurrent
	// register/cancel calls for the same event queue here, unrelated
	// events proceed in parallel.
	var capacity int
	var status domain.EventStatus
	err = tx.QueryRow(ctx, `
SELECT capacity, status FROM events WHERE id = $1 FOR UPDATE;
`, eventID).Scan(&capacity, &status)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock event: %w", err)
	}
	if status != domain.EventStatusUpcoming {
		return nil, domain.ErrEventNotOpen
	}

	var existingID string
	var existingStatus domain.RegistrationStatus
	err = tx.QueryRow(ctx, `
SELECT id, status FROM registrations WHERE event_id = $1 AND volunteer_id = $2;
`, eventID, volunteerID).Scan(&existingID, &existingStatus)
	hasExisting := err == nil
	if err != nil && !infra.IsNoRows(err) {
		return nil, fmt.Errorf("load existing registration: %w", err)
	}
	if hasExisting && existingStatus.Active() {
		return nil, domain.ErrAlreadyRegistered
	}

	var confirmed int
	if err := tx.QueryRow(ctx, `
SELECT count(*) FROM registrations WHERE event_id = $1 AND status = 'confirmed';
`, eventID).Scan(&confirmed); err != nil {
		return nil, fmt.Errorf("count confirmed: %w", err)
	}
	if confirmed >= capacity {
		return nil, domain.ErrCapacityExceeded
	}

	reg := &domain.Registration{
		EventID:     eventID,
		VolunteerID: volunteerID,
		Status:      domain.RegistrationConfirmed,
	}
	revived := false
	if hasExisting {
		// Cancelled row: revive it instead of violating the
		// (event_id, volunteer_id) uniqueness with a second row.
		revived = true
		reg.ID = existingID
		err = tx.QueryRow(ctx, `
UPDATE registrations SET status = 'confirmed', registered_at = now()
WHERE id = $1
RETURNING registered_at;
`, existingID).Scan(&reg.RegisteredAt)
	} else {
		err = tx.QueryRow(ctx, `
INSERT INTO registrations (event_id, volunteer_id, status)
VALUES ($1, $2, 'confirmed')
RETURNING id, registered_at;
`, eventID, volunteerID).Scan(&reg.ID, &reg.RegisteredAt)
	}
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("write registration: %w", err)
	}

	if err := applyAggregateDelta(ctx, tx, volunteerID, 1, 0); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit register tx: %w", err)
	}
	return &domain.RegistrationOutcome{Registration: reg, Revived: revived}, nil
}

// Cancel flips a confirmed registration to cancelled and frees its seat.
// Cancelling an already-cancelled registration is a no-op, not an error.
func (r *RegistrationRepositoryPG) Cancel(ctx context.Context, eventID, volunteerID string) (bool, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, fmt.Errorf("begin cancel tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var capacity int
	var eventStatus domain.EventStatus
	err = tx.QueryRow(ctx, `
SELECT capacity, status FROM events WHERE id = $1 FOR UPDATE;
`, eventID).Scan(&capacity, &eventStatus)
	if err != nil {
		if infra.IsNoRows(err) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("lock event: %w", err)
	}

	var regID string
	var regStatus domain.RegistrationStatus
	err = tx.QueryRow(ctx, `
SELECT id, status FROM registrations WHERE event_id = $1 AND volunteer_id = $2;
`, eventID, volunteerID).Scan(&regID, &regStatus)
	if err != nil {
		if infra.IsNoRows(err) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("load registration: %w", err)
	}

	switch regStatus {
	case domain.RegistrationCancelled:
		return false, tx.Commit(ctx)
	case domain.RegistrationAttended:
		// Hours may already reference this registration.
		return false, fmt.Errorf("%w: attended registrations cannot be cancelled", domain.ErrConflict)
	case domain.RegistrationConfirmed:
	default:
		// Only confirmed rows hold a seat and an aggregate increment, so
		// only confirmed rows may transition to cancelled.
		return false, fmt.Errorf("%w: registration is %s", domain.ErrConflict, regStatus)
	}

	if _, err := tx.Exec(ctx, `
UPDATE registrations SET status = 'cancelled' WHERE id = $1;
`, regID); err != nil {
		return false, fmt.Errorf("cancel registration: %w", err)
	}

	if err := applyAggregateDelta(ctx, tx, volunteerID, -1, 0); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit cancel tx: %w", err)
	}
	return true, nil
}

// MarkAttended transitions confirmed -> attended. Re-marking an attended
// registration is a no-op.
func (r *RegistrationRepositoryPG) MarkAttended(ctx context.Context, eventID, volunteerID string) error {
	var status domain.RegistrationStatus
	err := r.pool.QueryRow(ctx, `
SELECT status FROM registrations WHERE event_id = $1 AND volunteer_id = $2;
`, eventID, volunteerID).Scan(&status)
	if err != nil {
		if infra.IsNoRows(err) {
			return domain.ErrNotRegistered
		}
		return fmt.Errorf("load registration: %w", err)
	}

	switch status {
	case domain.RegistrationAttended:
		return nil
	case domain.RegistrationConfirmed:
	default:
		return fmt.Errorf("%w: registration is %s", domain.ErrConflict, status)
	}

	_, err = r.pool.Exec(ctx, `
UPDATE registrations SET status = 'attended'
WHERE event_id = $1 AND volunteer_id = $2 AND status = 'confirmed';
`, eventID, volunteerID)
	if err != nil {
		return fmt.Errorf("mark attended: %w", err)
	}
	return nil
}

// ConfirmedCount returns the number of seats currently held on the event.
func (r *RegistrationRepositoryPG) ConfirmedCount(ctx context.Context, eventID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
SELECT count(*) FROM registrations WHERE event_id = $1 AND status = 'confirmed';
`, eventID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("confirmed count: %w", err)
	}
	return n, nil
}

// ListByEvent returns the event's registrations joined with volunteer identity.
func (r *RegistrationRepositoryPG) ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error) {
	rows, err := r.pool.Query(ctx, `
SELECT r.id, r.event_id, r.volunteer_id, r.status, r.registered_at,
       p.name, p.email, coalesce(p.avatar_url, '')
FROM registrations r
JOIN profiles p ON p.id = r.volunteer_id
WHERE r.event_id = $1
ORDER BY r.registered_at DESC;
`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Registration
	for rows.Next() {
		var reg domain.Registration
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.VolunteerID, &reg.Status, &reg.RegisteredAt,
			&reg.VolunteerName, &reg.VolunteerEmail, &reg.AvatarURL); err != nil {
			return nil, err
		}
		items = append(items, reg)
	}
	return items, rows.Err()
}

// ListByVolunteer returns the volunteer's own registrations joined with the
// event summary, newest first. Cancelled rows are included so the history
// stays visible.
func (r *RegistrationRepositoryPG) ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.Registration, error) {
	rows, err := r.pool.Query(ctx, `
SELECT r.id, r.event_id, r.volunteer_id, r.status, r.registered_at,
       e.title, e.date_time
FROM registrations r
JOIN events e ON e.id = r.event_id
WHERE r.volunteer_id = $1
ORDER BY r.registered_at DESC;
`, volunteerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Registration
	for rows.Next() {
		var reg domain.Registration
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.VolunteerID, &reg.Status, &reg.RegisteredAt,
			&reg.EventTitle, &reg.EventDateTime); err != nil {
			return nil, err
		}
		items = append(items, reg)
	}
	return items, rows.Err()
}

// applyAggregateDelta moves the volunteer aggregate by commutative deltas
// and re-evaluates the badge set from the resulting state. Badges only
// accumulate; earned badges are never revoked.
func applyAggregateDelta(ctx context.Context, tx pgx.Tx, volunteerID string, eventsDelta int, hoursDelta float64) error {
	var eventsJoined int
	var hoursVolunteered float64
	err := tx.QueryRow(ctx, `
UPDATE profiles
SET events_joined = greatest(events_joined + $2, 0),
    hours_volunteered = hours_volunteered + $3,
    updated_at = now()
WHERE id = $1
RETURNING events_joined, hours_volunteered;
`, volunteerID, eventsDelta, hoursDelta).Scan(&eventsJoined, &hoursVolunteered)
	if err != nil {
		if infra.IsNoRows(err) {
			return fmt.Errorf("%w: volunteer profile %s missing", domain.ErrFatal, volunteerID)
		}
		return fmt.Errorf("apply aggregate delta: %w", err)
	}

	badges := domain.BadgesFor(eventsJoined, hoursVolunteered)
	if len(badges) == 0 {
		return nil
	}
	if _, err := tx.Exec(ctx, `
UPDATE profiles
SET badges = (
    SELECT coalesce(array_agg(DISTINCT b ORDER BY b), '{}')
    FROM unnest(badges || $2::text[]) AS b
)
WHERE id = $1;
`, volunteerID, badges); err != nil {
		return fmt.Errorf("apply badges: %w", err)
	}
	return nil
}

var _ domain.RegistrationRepository = (*RegistrationRepositoryPG)(nil)
