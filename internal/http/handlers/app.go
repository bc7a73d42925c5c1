package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/middleware"
	"server/internal/service"
)

// App bundles the handler dependencies.
type App struct {
	SQL    infra.SQLExecutor
	Logger zerolog.Logger

	Events        service.EventService
	Registrations service.RegistrationService
	Hours         service.HoursService
	Donations     service.DonationService
	Notifications service.NotificationService
	Profiles      service.ProfileService
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}

// serviceError maps domain sentinels to HTTP status plus a stable machine
// code. Every conflict reason stays distinguishable to clients.
func (a *App) serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		a.error(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		a.error(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrEventNotOpen):
		a.error(w, http.StatusConflict, "event_not_open", "event is not open for registration")
	case errors.Is(err, domain.ErrAlreadyRegistered):
		a.error(w, http.StatusConflict, "already_registered", "you already have an active registration for this event")
	case errors.Is(err, domain.ErrCapacityExceeded):
		a.error(w, http.StatusConflict, "event_full", "event is at capacity")
	case errors.Is(err, domain.ErrNotRegistered):
		a.error(w, http.StatusConflict, "not_registered", "no active registration for this event")
	case errors.Is(err, domain.ErrConflict):
		a.error(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domain.ErrTimeout):
		a.error(w, http.StatusGatewayTimeout, "timeout", "the operation did not complete in time, please retry")
	default:
		a.Logger.Error().Err(err).Msg("unhandled service error")
		a.error(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

// currentIdentity returns the authenticated caller. Routes behind the auth
// middleware always have one; the ok=false arm guards mis-wired routes.
func (a *App) currentIdentity(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
	}
	return identity, ok
}
