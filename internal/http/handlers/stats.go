package handlers

import (
	"net/http"

	"server/internal/sqlinline"
)

func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	row := a.SQL.QueryRow(r.Context(), sqlinline.QImpactSummary)
	var totalVolunteers, upcomingEvents, totalEvents, totalDonations int64
	var totalHours, totalDonated float64
	if err := row.Scan(&totalVolunteers, &upcomingEvents, &totalEvents, &totalHours, &totalDonations, &totalDonated); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"total_volunteers": totalVolunteers,
		"upcoming_events":  upcomingEvents,
		"total_events":     totalEvents,
		"total_hours":      totalHours,
		"total_donations":  totalDonations,
		"total_donated":    totalDonated,
	})
}
