package handlers

import (
	"encoding/json"
	"net/http"

	"server/internal/service"
)

func (a *App) HoursLog(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.currentIdentity(w, r)
	if !ok {
		return
	}

	var input service.LogHoursInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	entry, err := a.Hours.Log(r.Context(), identity, input)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"id":         entry.ID,
		"event_id":   entry.EventID,
		"hours":      entry.Hours,
		"entry_date": entry.EntryDate.UTC().Format("2006-01-02"),
		"notes":      entry.Notes,
	})
}

// HoursTotal reports the caller's lifetime total straight from the ledger,
// not the aggregate column, so it stays correct even mid-reconciliation.
func (a *App) HoursTotal(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.currentIdentity(w, r)
	if !ok {
		return
	}

	total, err := a.Hours.Total(r.Context(), identity.ID)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"total_hours": total})
}
