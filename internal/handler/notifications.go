package handler

import (
	"net/http"

	"github.com/aldwake/PetGrotto_Go/internal/notification"
)

// NotificationsResponse lists the most recent notifications
type NotificationsResponse struct {
	Notifications []notification.Notification `json:"notifications"`
}

// HandleGetNotifications returns the recent notification ring, newest
// last. Clients use it to backfill after an SSE reconnect.
func HandleGetNotifications(svc *notification.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, NotificationsResponse{
			Notifications: svc.Recent(),
		})
	}
}
