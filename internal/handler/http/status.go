package http

import (
	"net/http"
	"time"

	"github.com/mealkeep/syncserver/internal/logger"
	"github.com/mealkeep/syncserver/internal/utils"
	"github.com/mealkeep/syncserver/models"
)

// getSyncStatus reports outstanding work for one device: pending batches,
// unresolved conflicts, and the last successful sync time. The optional
// lastSyncedAt query parameter (RFC 3339) narrows the counts to batches
// created after that instant.
func (h *Handler) getSyncStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.getSyncStatus").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	deviceID, ok := h.deviceID(ctx, r.URL.Query().Get("deviceId"))
	if !ok {
		log.Error().Str("func", "*Handler.getSyncStatus").Msg("no device ID was given")
		http.Error(w, "no device ID was given", http.StatusBadRequest)
		return
	}

	var lastSyncedAt *time.Time
	if raw := r.URL.Query().Get("lastSyncedAt"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			log.Err(err).Str("func", "*Handler.getSyncStatus").Msg("invalid lastSyncedAt timestamp")
			http.Error(w, "invalid lastSyncedAt timestamp, RFC 3339 expected", http.StatusBadRequest)
			return
		}
		lastSyncedAt = &parsed
	}

	status, err := h.services.SyncService.GetSyncStatus(ctx, userID, deviceID, lastSyncedAt)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getSyncStatus").Str("deviceID", deviceID).Msg("error loading sync status")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.OK(status), http.StatusOK)
}
