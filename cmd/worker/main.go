package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/metrics"
	"server/internal/sqlinline"
)

// The reconciler closes the gap the request path leaves open: notifications
// are dispatched after commit, so a crash between commit and dispatch loses
// them, and aggregate columns can drift if an operator edits the ledgers by
// hand. Every repair is an idempotent statement keyed on dedupe_key or a
// full recompute, so running two workers at once is safe.
type reconciler struct {
	runner *infra.SQLRunner
	logger infra.Logger
}

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	rec := &reconciler{runner: infra.NewSQLRunner(pool, logger), logger: logger}

	logger.Info().Dur("interval", cfg.WorkerInterval).Msg("worker: reconciler started")
	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	rec.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("worker: stopped")
			return
		case <-ticker.C:
			rec.runOnce(ctx)
		}
	}
}

func (rec *reconciler) runOnce(ctx context.Context) {
	rec.repairNotifications(ctx)
	rec.repairAggregates(ctx)
}

func (rec *reconciler) repairNotifications(ctx context.Context) {
	for name, query := range map[string]string{
		"registration": sqlinline.QRepairRegistrationNotifications,
		"hours":        sqlinline.QRepairHoursNotifications,
	} {
		tag, err := rec.runner.Exec(ctx, query)
		if err != nil {
			rec.logger.Error().Err(err).Str("kind", name).Msg("worker: notification repair failed")
			continue
		}
		if n := tag.RowsAffected(); n > 0 {
			metrics.NotificationsEmitted.Add(float64(n))
			rec.logger.Info().Str("kind", name).Int64("repaired", n).Msg("worker: inserted missing notifications")
		}
	}
}

// repairAggregates recomputes events_joined and hours_volunteered from the
// ledgers for every drifted profile. Drift means an invariant was violated
// somewhere, so each case is logged loudly before being fixed.
func (rec *reconciler) repairAggregates(ctx context.Context) {
	rows, err := rec.runner.Query(ctx, sqlinline.QAggregateDrift)
	if err != nil {
		rec.logger.Error().Err(err).Msg("worker: drift scan failed")
		return
	}
	defer rows.Close()

	type drift struct {
		profileID            string
		events, actualEvents int
		hours, actualHours   float64
	}
	var drifted []drift
	for rows.Next() {
		var d drift
		if err := rows.Scan(&d.profileID, &d.events, &d.actualEvents, &d.hours, &d.actualHours); err != nil {
			rec.logger.Error().Err(err).Msg("worker: drift scan failed")
			return
		}
		drifted = append(drifted, d)
	}
	if err := rows.Err(); err != nil {
		rec.logger.Error().Err(err).Msg("worker: drift scan failed")
		return
	}

	for _, d := range drifted {
		rec.logger.Error().
			Str("profile_id", d.profileID).
			Int("events_joined", d.events).
			Int("actual_events", d.actualEvents).
			Float64("hours_volunteered", d.hours).
			Float64("actual_hours", d.actualHours).
			Msg("worker: aggregate drift detected, repairing")

		if _, err := rec.runner.Exec(ctx, sqlinline.QRepairAggregate, d.profileID); err != nil {
			rec.logger.Error().Err(err).Str("profile_id", d.profileID).Msg("worker: aggregate repair failed")
			continue
		}
		rec.repairBadges(ctx, d.profileID)
	}
}

// repairBadges re-derives the badge set from the repaired aggregates. Badges
// are monotone, so the union can only add what the aggregates now justify.
func (rec *reconciler) repairBadges(ctx context.Context, profileID string) {
	var eventsJoined int
	var hoursVolunteered float64
	err := rec.runner.QueryRow(ctx, sqlinline.QProfileAggregates, profileID).
		Scan(&eventsJoined, &hoursVolunteered)
	if err != nil {
		rec.logger.Error().Err(err).Str("profile_id", profileID).Msg("worker: badge reload failed")
		return
	}

	badges := domain.BadgesFor(eventsJoined, hoursVolunteered)
	if len(badges) == 0 {
		return
	}
	if _, err := rec.runner.Exec(ctx, sqlinline.QUnionBadges, profileID, badges); err != nil {
		rec.logger.Error().Err(err).Str("profile_id", profileID).Msg("worker: badge repair failed")
	}
}
