package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
	"server/internal/infra"
)

// EventRepositoryPG implements domain.EventRepository using PostgreSQL.
type EventRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewEventRepository creates a new EventRepositoryPG.
func NewEventRepository(pool *pgxpool.Pool) *EventRepositoryPG {
	return &EventRepositoryPG{pool: pool}
}

// Create inserts a new event. A slug collision surfaces as ErrConflict.
func (r *EventRepositoryPG) Create(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	err := r.pool.QueryRow(ctx, `
INSERT INTO events (slug, title, description, location, date_time, capacity, status, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at;
`, event.Slug, event.Title, event.Description, event.Location,
		event.DateTime, event.Capacity, event.Status, event.CreatedBy,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: slug %q is taken", domain.ErrConflict, event.Slug)
		}
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return event, nil
}

// Update applies a partial edit inside a transaction holding the event row
// lock, the same lock the registration path takes. A capacity shrink below
// the current confirmed count is rejected, so the capacity invariant holds
// through edits as well as registrations.
func (r *EventRepositoryPG) Update(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin event update tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var confirmed int
	err = tx.QueryRow(ctx, `
SELECT (SELECT count(*) FROM registrations
        WHERE event_id = e.id AND status = 'confirmed')
FROM events e
WHERE e.id = $1
FOR UPDATE;
`, id).Scan(&confirmed)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock event: %w", err)
	}
	if upd.Capacity != nil && *upd.Capacity < confirmed {
		return nil, fmt.Errorf("%w: %d volunteers already confirmed", domain.ErrCapacityExceeded, confirmed)
	}

	_, err = tx.Exec(ctx, `
UPDATE events
SET title       = coalesce($2, title),
    description = coalesce($3, description),
    location    = coalesce($4, location),
    date_time   = coalesce($5, date_time),
    capacity    = coalesce($6, capacity),
    status      = coalesce($7, status)
WHERE id = $1;
`, id, upd.Title, upd.Description, upd.Location, upd.DateTime, upd.Capacity, upd.Status)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	row := tx.QueryRow(ctx, `
SELECT e.id, e.slug, e.title, e.description, e.location, e.date_time,
       e.capacity, e.status, e.created_by, e.created_at,
       (SELECT count(*) FROM registrations
        WHERE event_id = e.id AND status = 'confirmed')
FROM events e
WHERE e.id = $1;
`, id)
	event, err := scanEvent(row)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit event update tx: %w", err)
	}
	return event, nil
}

// GetByID fetches an event with its confirmed-registration count.
func (r *EventRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	row := r.pool.QueryRow(ctx, `
SELECT e.id, e.slug, e.title, e.description, e.location, e.date_time,
       e.capacity, e.status, e.created_by, e.created_at,
       (SELECT count(*) FROM registrations
        WHERE event_id = e.id AND status = 'confirmed')
FROM events e
WHERE e.id = $1;
`, id)
	return scanEvent(row)
}

// ListOpen returns upcoming events matching the filter. Sort keys are
// whitelisted here; the query string is the only caller-supplied value that
// reaches the database, always as a bind parameter.
func (r *EventRepositoryPG) ListOpen(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	query := `
SELECT e.id, e.slug, e.title, e.description, e.location, e.date_time,
       e.capacity, e.status, e.created_by, e.created_at,
       coalesce(c.cnt, 0) AS registered
FROM events e
LEFT JOIN (
    SELECT event_id, count(*) AS cnt
    FROM registrations
    WHERE status = 'confirmed'
    GROUP BY event_id
) c ON c.event_id = e.id
WHERE e.status = 'upcoming' AND e.date_time > now()`

	var args []any
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		query += fmt.Sprintf(" AND (e.title ILIKE $%d OR e.location ILIKE $%d)", len(args), len(args))
	}
	switch filter.Window {
	case domain.EventWindow7d:
		query += " AND e.date_time <= now() + interval '7 days'"
	case domain.EventWindow30d:
		query += " AND e.date_time <= now() + interval '30 days'"
	}
	switch filter.Sort {
	case domain.EventSortCapacity:
		query += " ORDER BY e.capacity DESC, e.date_time ASC"
	case domain.EventSortRegistered:
		query += " ORDER BY registered DESC, e.date_time ASC"
	default:
		query += " ORDER BY e.date_time ASC"
	}
	query += " LIMIT 200;"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *event)
	}
	return items, rows.Err()
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var e domain.Event
	if err := row.Scan(&e.ID, &e.Slug, &e.Title, &e.Description, &e.Location,
		&e.DateTime, &e.Capacity, &e.Status, &e.CreatedBy, &e.CreatedAt, &e.Registered); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

var _ domain.EventRepository = (*EventRepositoryPG)(nil)
