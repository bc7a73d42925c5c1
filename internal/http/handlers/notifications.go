package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

func (a *App) NotificationsList(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.currentIdentity(w, r)
	if !ok {
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	items, err := a.Notifications.List(r.Context(), identity.ID, unreadOnly)
	if err != nil {
		a.serviceError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(items))
	for _, n := range items {
		out = append(out, notificationResponse(n))
	}
	a.json(w, http.StatusOK, map[string]any{"notifications": out})
}

func (a *App) NotificationsMarkRead(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.currentIdentity(w, r)
	if !ok {
		return
	}

	if err := a.Notifications.MarkRead(r.Context(), chi.URLParam(r, "id"), identity.ID); err != nil {
		a.serviceError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "read"})
}

func notificationResponse(n domain.Notification) map[string]any {
	return map[string]any{
		"id":         n.ID,
		"title":      n.Title,
		"message":    n.Message,
		"type":       n.Kind,
		"related_id": n.RelatedID,
		"read":       n.Read,
		"created_at": n.CreatedAt.UTC().Format(time.RFC3339),
	}
}
