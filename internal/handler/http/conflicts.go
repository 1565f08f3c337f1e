package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mealkeep/syncserver/internal/logger"
	"github.com/mealkeep/syncserver/internal/utils"
	"github.com/mealkeep/syncserver/models"
)

// listConflicts returns every unresolved conflict of the authenticated user.
func (h *Handler) listConflicts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.listConflicts").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	conflicts, err := h.services.SyncService.ListConflicts(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listConflicts").Msg("error listing conflicts")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	if conflicts == nil {
		conflicts = []models.Conflict{}
	}

	utils.WriteJSON(w, models.OK(conflicts), http.StatusOK)
}

// resolveConflict applies an explicit resolution strategy to one conflict.
func (h *Handler) resolveConflict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.resolveConflict").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	conflictID := chi.URLParam(r, "conflictID")

	var resolveRequest models.ResolveConflictRequest
	if err := json.NewDecoder(r.Body).Decode(&resolveRequest); err != nil {
		log.Err(err).Str("func", "*Handler.resolveConflict").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	err := h.services.SyncService.ResolveConflict(ctx, userID, conflictID, resolveRequest.Resolution, resolveRequest.ManualData)
	if err != nil {
		log.Err(err).Str("func", "*Handler.resolveConflict").Str("conflictID", conflictID).Msg("error resolving conflict")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.APIResponse{Success: true}, http.StatusOK)
}
