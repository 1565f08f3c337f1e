package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mealkeep/syncserver/internal/logger"
	"github.com/mealkeep/syncserver/internal/utils"
	"github.com/mealkeep/syncserver/models"
)

// syncNow queues the submitted items and processes them in the same
// request. A conflicted outcome is a 200 with success=false and the
// conflict list; only transport or storage failures map to error statuses.
func (h *Handler) syncNow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.syncNow").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	var syncRequest models.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&syncRequest); err != nil {
		log.Err(err).Str("func", "*Handler.syncNow").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	deviceID, ok := h.deviceID(ctx, syncRequest.ClientID)
	if !ok {
		log.Error().Str("func", "*Handler.syncNow").Msg("no device ID was given")
		http.Error(w, "no device ID was given", http.StatusBadRequest)
		return
	}

	result, err := h.services.SyncService.SyncNow(ctx, userID, deviceID, syncRequest.Items)
	if err != nil {
		log.Err(err).Str("func", "*Handler.syncNow").Msg("error processing sync request")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	writeProcessResult(w, result)
}

// queueSync records the submitted items as a pending batch without
// touching any documents.
func (h *Handler) queueSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.queueSync").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	var syncRequest models.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&syncRequest); err != nil {
		log.Err(err).Str("func", "*Handler.queueSync").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	deviceID, ok := h.deviceID(ctx, syncRequest.ClientID)
	if !ok {
		log.Error().Str("func", "*Handler.queueSync").Msg("no device ID was given")
		http.Error(w, "no device ID was given", http.StatusBadRequest)
		return
	}

	batch, err := h.services.SyncService.QueueSync(ctx, userID, deviceID, syncRequest.Items)
	if err != nil {
		log.Err(err).Str("func", "*Handler.queueSync").Msg("error queueing sync batch")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.OK(batch), http.StatusCreated)
}

// processBatch runs a previously queued batch.
func (h *Handler) processBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.processBatch").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	batchID := chi.URLParam(r, "batchID")

	result, err := h.services.SyncService.ProcessBatch(ctx, userID, batchID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.processBatch").Str("batchID", batchID).Msg("error processing batch")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	writeProcessResult(w, result)
}

// deviceID resolves the submitting device: an explicit client_id in the
// body wins over the X-Device-ID header captured by the auth middleware.
func (h *Handler) deviceID(ctx context.Context, clientID string) (string, bool) {
	if clientID != "" {
		return clientID, true
	}
	if fromHeader, ok := utils.GetDeviceIDFromContext(ctx); ok {
		return fromHeader, true
	}
	return "", false
}

// writeProcessResult renders a ProcessResult: conflicted outcomes are a
// success=false envelope carrying the conflicts, everything else success.
func writeProcessResult(w http.ResponseWriter, result models.ProcessResult) {
	if result.Status == models.BatchConflict {
		utils.WriteJSON(w, models.APIResponse{
			Success:   false,
			Data:      result,
			Conflicts: result.Conflicts,
		}, http.StatusOK)
		return
	}

	utils.WriteJSON(w, models.OK(result), http.StatusOK)
}
