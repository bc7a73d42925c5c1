package handlers

import (
	"net/http"
	"strconv"
)

// Leaderboard is public and reads the aggregate columns only; it never
// recomputes from the ledgers on the request path.
func (a *App) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	profiles, err := a.Profiles.Leaderboard(r.Context(), limit)
	if err != nil {
		a.serviceError(w, err)
		return
	}

	items := make([]map[string]any, 0, len(profiles))
	for i, p := range profiles {
		items = append(items, map[string]any{
			"rank":              i + 1,
			"volunteer_id":      p.ID,
			"name":              p.Name,
			"avatar_url":        p.AvatarURL,
			"events_joined":     p.EventsJoined,
			"hours_volunteered": p.HoursVolunteered,
			"badges":            p.Badges,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"leaderboard": items})
}
