package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
	"server/internal/infra"
)

// ProfileRepositoryPG implements domain.ProfileRepository using PostgreSQL.
type ProfileRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepositoryPG.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepositoryPG {
	return &ProfileRepositoryPG{pool: pool}
}

// GetByID fetches a profile with its aggregate columns.
func (r *ProfileRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, name, email, coalesce(avatar_url, ''), role, verified,
       events_joined, hours_volunteered, badges, created_at, updated_at
FROM profiles
WHERE id = $1;
`, id)
	return scanProfile(row)
}

// TopVolunteers returns the leaderboard: hours desc, events desc, then id
// asc so ties resolve deterministically.
func (r *ProfileRepositoryPG) TopVolunteers(ctx context.Context, n int) ([]domain.Profile, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, name, email, coalesce(avatar_url, ''), role, verified,
       events_joined, hours_volunteered, badges, created_at, updated_at
FROM profiles
WHERE role = 'volunteer'
ORDER BY hours_volunteered DESC, events_joined DESC, id ASC
LIMIT $1;
`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &p.AvatarURL, &p.Role, &p.Verified,
		&p.EventsJoined, &p.HoursVolunteered, &p.Badges, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

var _ domain.ProfileRepository = (*ProfileRepositoryPG)(nil)
