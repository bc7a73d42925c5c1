package handlers

import (
	"encoding/json"
	"net/http"

	"server/internal/service"
)

func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.currentIdentity(w, r)
	if !ok {
		return
	}

	var input service.DonateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	donation, err := a.Donations.Donate(r.Context(), identity, input)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"id":       donation.ID,
		"ngo_id":   donation.NGOID,
		"amount":   donation.Amount,
		"campaign": donation.Campaign,
		"status":   donation.Status,
	})
}

// DonationsList returns the caller's own donation history.
func (a *App) DonationsList(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.currentIdentity(w, r)
	if !ok {
		return
	}

	donations, err := a.Donations.ListMine(r.Context(), identity)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	items := make([]map[string]any, 0, len(donations))
	for _, d := range donations {
		items = append(items, map[string]any{
			"id":         d.ID,
			"ngo_id":     d.NGOID,
			"amount":     d.Amount,
			"campaign":   d.Campaign,
			"status":     d.Status,
			"donated_at": d.DonatedAt.UTC().Format("2006-01-02"),
		})
	}
	a.json(w, http.StatusOK, map[string]any{"donations": items})
}
