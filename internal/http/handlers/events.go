package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
	"server/internal/service"
)

type eventResponse struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	DateTime    string `json:"date_time"`
	Capacity    int    `json:"capacity"`
	Registered  int    `json:"registered"`
	SpotsLeft   int    `json:"spots_left"`
	Status      string `json:"status"`
	CreatedBy   string `json:"created_by"`
}

func toEventResponse(e domain.Event) eventResponse {
	spots := e.Capacity - e.Registered
	if spots < 0 {
		spots = 0
	}
	return eventResponse{
		ID:          e.ID,
		Slug:        e.Slug,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		DateTime:    e.DateTime.UTC().Format(time.RFC3339),
		Capacity:    e.Capacity,
		Registered:  e.Registered,
		SpotsLeft:   spots,
		Status:      string(e.Status),
		CreatedBy:   e.CreatedBy,
	}
}

// EventsList is public: browsing open events requires no account.
func (a *App) EventsList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.EventFilter{
		Query:  q.Get("q"),
		Window: domain.EventWindow(q.Get("window")),
		Sort:   domain.EventSort(q.Get("sort")),
	}
	switch filter.Window {
	case "", domain.EventWindowAll, domain.EventWindow7d, domain.EventWindow30d:
	default:
		a.error(w, http.StatusBadRequest, "bad_request", "window must be all, 7d or 30d")
		return
	}
	switch filter.Sort {
	case "", domain.EventSortDate, domain.EventSortCapacity, domain.EventSortRegistered:
	default:
		a.error(w, http.StatusBadRequest, "bad_request", "sort must be date, capacity or registered")
		return
	}

	events, err := a.Events.ListOpen(r.Context(), filter)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	items := make([]eventResponse, 0, len(events))
	for _, e := range events {
		items = append(items, toEventResponse(e))
	}
	a.json(w, http.StatusOK, map[string]any{"events": items})
}

func (a *App) EventsCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.currentIdentity(w, r)
	if !ok {
		return
	}

	var input service.CreateEventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	event, err := a.Events.Create(r.Context(), identity, input)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toEventResponse(*event))
}

func (a *App) EventsUpdate(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.currentIdentity(w, r)
	if !ok {
		return
	}

	var input service.UpdateEventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	event, err := a.Events.Update(r.Context(), identity, chi.URLParam(r, "id"), input)
	if err != nil {
		a.serviceError(w, err)
		return
	}
	a.json(w, http.StatusOK, toEventResponse(*event))
}
