package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

type registrationResponse struct {
	ID             string `json:"id"`
	EventID        string `json:"event_id"`
	VolunteerID    string `json:"volunteer_id"`
	Status         string `json:"status"`
	RegisteredAt   string `json:"registered_at"`
	VolunteerName  string `json:"volunteer_name,omitempty"`
	VolunteerEmail string `json:"volunteer_email,omitempty"`
	AvatarURL      string `json:"avatar_url,omitempty"`
}

func toRegistrationResponse(reg domain.Registration) registrationResponse {
	return registrationResponse{
		ID:             reg.ID,
		EventID:        reg.EventID,
		VolunteerID:    reg.VolunteerID,
		Status:         string(reg.Status),
		RegisteredAt:   reg.RegisteredAt.UTC().Format(time.RFC3339),
		VolunteerName:  reg.VolunteerName,
		VolunteerEmail: reg.VolunteerEmail,
		AvatarURL:      reg.AvatarURL,
	}
}

func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.currentIdentity(w, r)
	if !ok {
		return
	}

	reg, err := a.Registrations.Register(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		a.serviceError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toRegistrationResponse(*reg))
}

func (a *App) CancelRegistration(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.currentIdentity(w, r)
	if !ok {
		return
	}

	if err := a.Registrations.Cancel(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		a.serviceError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (a *App) MarkAttended(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.currentIdentity(w, r)
	if !ok {
		return
	}

	// NGOs name the volunteer; volunteers self-report and may omit the field.
	var req struct {
		VolunteerID string `json:"volunteer_id"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
			return
		}
	}
	volunteerID := req.VolunteerID
	if volunteerID == "" {
		volunteerID = identity.ID
	}

	if err := a.Registrations.MarkAttended(r.Context(), identity, chi.URLParam(r, "id"), volunteerID); err != nil {
		a.serviceError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "attended"})
}

// RegistrationsMine lists the caller's own registration history with the
// event summary attached.
func (a *App) RegistrationsMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.currentIdentity(w, r)
	if !ok {
		return
	}

	regs, err := a.Registrations.ListMine(r.Context(), identity)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	items := make([]map[string]any, 0, len(regs))
	for _, reg := range regs {
		items = append(items, map[string]any{
			"id":              reg.ID,
			"event_id":        reg.EventID,
			"event_title":     reg.EventTitle,
			"event_date_time": reg.EventDateTime.UTC().Format(time.RFC3339),
			"status":          reg.Status,
			"registered_at":   reg.RegisteredAt.UTC().Format(time.RFC3339),
		})
	}
	a.json(w, http.StatusOK, map[string]any{"registrations": items})
}

func (a *App) RegistrationsList(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.currentIdentity(w, r)
	if !ok {
		return
	}

	regs, err := a.Registrations.ListByEvent(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		a.serviceError(w, err)
		return
	}
	items := make([]registrationResponse, 0, len(regs))
	for _, reg := range regs {
		items = append(items, toRegistrationResponse(reg))
	}
	a.json(w, http.StatusOK, map[string]any{"registrations": items})
}
