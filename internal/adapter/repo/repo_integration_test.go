package repo_test

// These tests exercise the SQL-resident invariants against a real database.
// They are skipped unless TEST_DATABASE_URL (or DATABASE_URL) points at a
// disposable Postgres with db/schema.sql applied.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/adapter/repo"
	"server/internal/domain"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database integration tests")
	}
	pool, err := pgxpool.New(context.Background(), url)
	if err != nil {
		t.Fatalf("connect test database: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// insertProfile creates a profile row with the given role and aggregates.
// Dependent rows are removed again when the test finishes.
func insertProfile(t *testing.T, pool *pgxpool.Pool, role domain.Role, eventsJoined int, hours float64) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(), `
INSERT INTO profiles (name, email, role, verified, events_joined, hours_volunteered)
VALUES ($1, $2, $3, true, $4, $5)
RETURNING id;
`, "test-"+string(role), fmt.Sprintf("test-%s@example.org", uuid.NewString()), role, eventsJoined, hours).Scan(&id)
	if err != nil {
		t.Fatalf("insert %s profile: %v", role, err)
	}
	t.Cleanup(func() {
		ctx := context.Background()
		pool.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1;`, id)
		pool.Exec(ctx, `DELETE FROM donations WHERE donor_id = $1 OR ngo_id = $1;`, id)
		pool.Exec(ctx, `DELETE FROM volunteer_hours WHERE volunteer_id = $1;`, id)
		pool.Exec(ctx, `DELETE FROM registrations WHERE volunteer_id = $1;`, id)
		pool.Exec(ctx, `DELETE FROM volunteer_hours WHERE event_id IN (SELECT id FROM events WHERE created_by = $1);`, id)
		pool.Exec(ctx, `DELETE FROM registrations WHERE event_id IN (SELECT id FROM events WHERE created_by = $1);`, id)
		pool.Exec(ctx, `DELETE FROM events WHERE created_by = $1;`, id)
		pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1;`, id)
	})
	return id
}

func insertEvent(t *testing.T, pool *pgxpool.Pool, createdBy string, capacity int) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(), `
INSERT INTO events (slug, title, location, date_time, capacity, status, created_by)
VALUES ($1, $2, $3, $4, $5, 'upcoming', $6)
RETURNING id;
`, "test-event-"+uuid.NewString(), "Test Event", "Test Ground", time.Now().Add(48*time.Hour), capacity, createdBy).Scan(&id)
	if err != nil {
		t.Fatalf("insert event: %v", err)
	}
	return id
}

// One more volunteer than seats race for the same event; exactly capacity
// registrations may win and the rest must see ErrCapacityExceeded.
func TestRegisterConfirmed_CapacityRace(t *testing.T) {
	pool := testPool(t)
	regs := repo.NewRegistrationRepository(pool)

	const capacity = 3
	ngo := insertProfile(t, pool, domain.RoleNGO, 0, 0)
	eventID := insertEvent(t, pool, ngo, capacity)

	volunteers := make([]string, capacity+1)
	for i := range volunteers {
		volunteers[i] = insertProfile(t, pool, domain.RoleVolunteer, 0, 0)
	}

	var wg sync.WaitGroup
	results := make(chan error, len(volunteers))
	for _, volunteerID := range volunteers {
		wg.Add(1)
		go func(volunteerID string) {
			defer wg.Done()
			_, err := regs.RegisterConfirmed(context.Background(), eventID, volunteerID)
			results <- err
		}(volunteerID)
	}
	wg.Wait()
	close(results)

	var confirmed, full int
	for err := range results {
		switch {
		case err == nil:
			confirmed++
		case errors.Is(err, domain.ErrCapacityExceeded):
			full++
		default:
			t.Fatalf("unexpected registration error: %v", err)
		}
	}
	if confirmed != capacity || full != 1 {
		t.Fatalf("got %d confirmed and %d rejected, want %d and 1", confirmed, full, capacity)
	}

	count, err := regs.ConfirmedCount(context.Background(), eventID)
	if err != nil {
		t.Fatalf("confirmed count: %v", err)
	}
	if count != capacity {
		t.Fatalf("confirmed rows = %d, want %d", count, capacity)
	}
}

// A notification insert failure must take the donation row down with it.
func TestCreateWithNotifications_RollsBackDonation(t *testing.T) {
	pool := testPool(t)
	donations := repo.NewDonationRepository(pool)

	donor := insertProfile(t, pool, domain.RoleDonor, 0, 0)
	ngo := insertProfile(t, pool, domain.RoleNGO, 0, 0)

	donationID := uuid.NewString()
	_, err := donations.CreateWithNotifications(context.Background(), &domain.Donation{
		ID:       donationID,
		DonorID:  donor,
		NGOID:    ngo,
		Amount:   500,
		Campaign: "Flood Relief",
		Status:   "completed",
	}, []domain.Notification{{
		// nonexistent user: the FK violation fails the transaction
		UserID:    uuid.NewString(),
		Title:     "Donation Successful",
		Message:   "recorded",
		Kind:      domain.NotificationDonation,
		DedupeKey: "donation:" + donationID + ":donor",
	}})
	if err == nil {
		t.Fatal("expected the notification insert to fail the transaction")
	}

	var n int
	if err := pool.QueryRow(context.Background(), `
SELECT count(*) FROM donations WHERE id = $1;
`, donationID).Scan(&n); err != nil {
		t.Fatalf("count donations: %v", err)
	}
	if n != 0 {
		t.Fatalf("donation row survived the rollback, count = %d", n)
	}
}

// Ties on hours resolve by events joined, then by id.
func TestTopVolunteers_TieBreak(t *testing.T) {
	pool := testPool(t)
	profiles := repo.NewProfileRepository(pool)

	// hours near the column maximum so these three outrank any other rows
	b := insertProfile(t, pool, domain.RoleVolunteer, 10, 999999.50)
	a := insertProfile(t, pool, domain.RoleVolunteer, 40, 999998.25)
	c := insertProfile(t, pool, domain.RoleVolunteer, 5, 999998.25)

	top, err := profiles.TopVolunteers(context.Background(), 3)
	if err != nil {
		t.Fatalf("top volunteers: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("got %d profiles, want 3", len(top))
	}
	want := []string{b, a, c}
	for i, p := range top {
		if p.ID != want[i] {
			t.Fatalf("rank %d = %s, want %s", i, p.ID, want[i])
		}
	}
}

// After a register/cancel/hours sequence the aggregate columns must equal a
// recomputation from the underlying rows.
func TestAggregates_NoDrift(t *testing.T) {
	pool := testPool(t)
	regs := repo.NewRegistrationRepository(pool)
	hours := repo.NewHoursRepository(pool)
	profiles := repo.NewProfileRepository(pool)

	ngo := insertProfile(t, pool, domain.RoleNGO, 0, 0)
	volunteer := insertProfile(t, pool, domain.RoleVolunteer, 0, 0)
	kept := insertEvent(t, pool, ngo, 10)
	dropped := insertEvent(t, pool, ngo, 10)

	ctx := context.Background()
	for _, eventID := range []string{kept, dropped} {
		if _, err := regs.RegisterConfirmed(ctx, eventID, volunteer); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	if _, err := regs.Cancel(ctx, dropped, volunteer); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	for _, h := range []float64{2.5, 3} {
		if _, err := hours.Append(ctx, &domain.HoursEntry{
			VolunteerID: volunteer,
			EventID:     kept,
			Hours:       h,
			EntryDate:   time.Now(),
		}); err != nil {
			t.Fatalf("append hours: %v", err)
		}
	}

	profile, err := profiles.GetByID(ctx, volunteer)
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}

	var activeRegs int
	if err := pool.QueryRow(ctx, `
SELECT count(*) FROM registrations
WHERE volunteer_id = $1 AND status IN ('confirmed', 'attended');
`, volunteer).Scan(&activeRegs); err != nil {
		t.Fatalf("recount registrations: %v", err)
	}
	ledgerTotal, err := hours.SumByVolunteer(ctx, volunteer)
	if err != nil {
		t.Fatalf("sum ledger: %v", err)
	}

	if profile.EventsJoined != activeRegs {
		t.Fatalf("events_joined = %d, ledger says %d", profile.EventsJoined, activeRegs)
	}
	if profile.HoursVolunteered != ledgerTotal {
		t.Fatalf("hours_volunteered = %v, ledger says %v", profile.HoursVolunteered, ledgerTotal)
	}
}

// A pending row never incremented the aggregate, so cancelling it must not
// decrement it either.
func TestCancel_PendingRowRejected(t *testing.T) {
	pool := testPool(t)
	regs := repo.NewRegistrationRepository(pool)
	profiles := repo.NewProfileRepository(pool)

	ngo := insertProfile(t, pool, domain.RoleNGO, 0, 0)
	volunteer := insertProfile(t, pool, domain.RoleVolunteer, 0, 0)
	eventID := insertEvent(t, pool, ngo, 10)

	ctx := context.Background()
	if _, err := pool.Exec(ctx, `
INSERT INTO registrations (event_id, volunteer_id, status)
VALUES ($1, $2, 'pending');
`, eventID, volunteer); err != nil {
		t.Fatalf("insert pending registration: %v", err)
	}

	_, err := regs.Cancel(ctx, eventID, volunteer)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("cancel of pending row: got %v, want ErrConflict", err)
	}

	profile, err := profiles.GetByID(ctx, volunteer)
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if profile.EventsJoined != 0 {
		t.Fatalf("events_joined = %d after rejected cancel, want 0", profile.EventsJoined)
	}
}

// Hours cannot be appended once the registration is cancelled.
func TestAppendHours_AfterCancel(t *testing.T) {
	pool := testPool(t)
	regs := repo.NewRegistrationRepository(pool)
	hours := repo.NewHoursRepository(pool)

	ngo := insertProfile(t, pool, domain.RoleNGO, 0, 0)
	volunteer := insertProfile(t, pool, domain.RoleVolunteer, 0, 0)
	eventID := insertEvent(t, pool, ngo, 10)

	ctx := context.Background()
	if _, err := regs.RegisterConfirmed(ctx, eventID, volunteer); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := regs.Cancel(ctx, eventID, volunteer); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	_, err := hours.Append(ctx, &domain.HoursEntry{
		VolunteerID: volunteer,
		EventID:     eventID,
		Hours:       2,
		EntryDate:   time.Now(),
	})
	if !errors.Is(err, domain.ErrNotRegistered) {
		t.Fatalf("append after cancel: got %v, want ErrNotRegistered", err)
	}
}

// Shrinking capacity below the confirmed count must fail; shrinking to the
// confirmed count exactly is allowed.
func TestEventUpdate_CapacityFloor(t *testing.T) {
	pool := testPool(t)
	events := repo.NewEventRepository(pool)
	regs := repo.NewRegistrationRepository(pool)

	ngo := insertProfile(t, pool, domain.RoleNGO, 0, 0)
	eventID := insertEvent(t, pool, ngo, 10)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		volunteer := insertProfile(t, pool, domain.RoleVolunteer, 0, 0)
		if _, err := regs.RegisterConfirmed(ctx, eventID, volunteer); err != nil {
			t.Fatalf("register: %v", err)
		}
	}

	tooSmall := 1
	_, err := events.Update(ctx, eventID, domain.EventUpdate{Capacity: &tooSmall})
	if !errors.Is(err, domain.ErrCapacityExceeded) {
		t.Fatalf("shrink below confirmed: got %v, want ErrCapacityExceeded", err)
	}

	exact := 2
	updated, err := events.Update(ctx, eventID, domain.EventUpdate{Capacity: &exact})
	if err != nil {
		t.Fatalf("shrink to confirmed count: %v", err)
	}
	if updated.Capacity != 2 {
		t.Fatalf("capacity = %d, want 2", updated.Capacity)
	}
}
