package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mealkeep/syncserver/internal/config"
	"github.com/mealkeep/syncserver/internal/logger"
	"github.com/mealkeep/syncserver/internal/mock"
	"github.com/mealkeep/syncserver/internal/service"
	"github.com/mealkeep/syncserver/internal/store"
	"github.com/mealkeep/syncserver/internal/utils"
	"github.com/mealkeep/syncserver/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestHandler(t *testing.T, ctrl *gomock.Controller) (*Handler, *mock.MockSyncService) {
	t.Helper()
	syncSvc := mock.NewMockSyncService(ctrl)
	h := &Handler{
		services: &service.Services{SyncService: syncSvc},
		app:      config.App{TokenSignKey: "test-key", TokenIssuer: "auth-service"},
		logger:   logger.Nop(),
	}
	return h, syncSvc
}

func withUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, utils.UserIDCtxKey, userID)
}

func syncBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(models.SyncRequest{
		ClientID: "phone-1",
		Items: []models.SyncItem{
			{ID: "recipe-1", Type: models.ResourceRecipe, Data: json.RawMessage(`{"title":"Plov"}`), Version: 2},
		},
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

// ── syncNow ──────────────────────────────────────────────────────────────────

func TestSyncNow_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, syncSvc := newTestHandler(t, ctrl)

	syncSvc.EXPECT().SyncNow(gomock.Any(), int64(1), "phone-1", gomock.Any()).
		Return(models.ProcessResult{BatchID: "batch-1", Status: models.BatchSynced, Applied: 1}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/sync", syncBody(t))
	req = req.WithContext(withUserID(req.Context(), 1))

	rr := httptest.NewRecorder()
	h.syncNow(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Conflicts)
}

func TestSyncNow_ConflictedOutcome(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, syncSvc := newTestHandler(t, ctrl)

	conflicts := []models.Conflict{{
		ConflictID: "c-1", BatchID: "batch-1", ItemID: "recipe-1",
		Type: models.ResourceRecipe, ClientVersion: 2, ServerVersion: 5,
	}}
	syncSvc.EXPECT().SyncNow(gomock.Any(), int64(1), "phone-1", gomock.Any()).
		Return(models.ProcessResult{BatchID: "batch-1", Status: models.BatchConflict, Conflicts: conflicts}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/sync", syncBody(t))
	req = req.WithContext(withUserID(req.Context(), 1))

	rr := httptest.NewRecorder()
	h.syncNow(rr, req)

	// A conflicted sync is a normal outcome, not an HTTP error.
	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, "c-1", resp.Conflicts[0].ConflictID)
}

func TestSyncNow_InvalidJSON(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _ := newTestHandler(t, ctrl)

	req := httptest.NewRequest(http.MethodPost, "/api/sync", bytes.NewBufferString("{not json"))
	req = req.WithContext(withUserID(req.Context(), 1))

	rr := httptest.NewRecorder()
	h.syncNow(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSyncNow_NoUserID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _ := newTestHandler(t, ctrl)

	req := httptest.NewRequest(http.MethodPost, "/api/sync", syncBody(t))

	rr := httptest.NewRecorder()
	h.syncNow(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSyncNow_NoDeviceID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _ := newTestHandler(t, ctrl)

	body, err := json.Marshal(models.SyncRequest{
		Items: []models.SyncItem{{ID: "recipe-1", Type: models.ResourceRecipe, Version: 1}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/sync", bytes.NewBuffer(body))
	req = req.WithContext(withUserID(req.Context(), 1))

	rr := httptest.NewRecorder()
	h.syncNow(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSyncNow_DeviceIDFromHeaderContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, syncSvc := newTestHandler(t, ctrl)

	syncSvc.EXPECT().SyncNow(gomock.Any(), int64(1), "tablet-7", gomock.Any()).
		Return(models.ProcessResult{BatchID: "batch-1", Status: models.BatchSynced, Applied: 1}, nil)

	body, err := json.Marshal(models.SyncRequest{
		Items: []models.SyncItem{{ID: "recipe-1", Type: models.ResourceRecipe, Version: 1}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/sync", bytes.NewBuffer(body))
	ctx := withUserID(req.Context(), 1)
	ctx = context.WithValue(ctx, utils.DeviceIDCtxKey, "tablet-7")
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	h.syncNow(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSyncNow_ValidationErrorMapsTo400(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, syncSvc := newTestHandler(t, ctrl)

	syncSvc.EXPECT().SyncNow(gomock.Any(), int64(1), "phone-1", gomock.Any()).
		Return(models.ProcessResult{}, service.ErrNoItemsProvided)

	req := httptest.NewRequest(http.MethodPost, "/api/sync", syncBody(t))
	req = req.WithContext(withUserID(req.Context(), 1))

	rr := httptest.NewRecorder()
	h.syncNow(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// ── queueSync ────────────────────────────────────────────────────────────────

func TestQueueSync_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, syncSvc := newTestHandler(t, ctrl)

	batch := models.SyncBatch{BatchID: "batch-1", UserID: 1, DeviceID: "phone-1", Status: models.BatchPending}
	syncSvc.EXPECT().QueueSync(gomock.Any(), int64(1), "phone-1", gomock.Any()).Return(batch, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/sync/queue", syncBody(t))
	req = req.WithContext(withUserID(req.Context(), 1))

	rr := httptest.NewRecorder()
	h.queueSync(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestQueueSync_ServiceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, syncSvc := newTestHandler(t, ctrl)

	syncSvc.EXPECT().QueueSync(gomock.Any(), int64(1), "phone-1", gomock.Any()).
		Return(models.SyncBatch{}, service.ErrUnsupportedResourceType)

	req := httptest.NewRequest(http.MethodPost, "/api/sync/queue", syncBody(t))
	req = req.WithContext(withUserID(req.Context(), 1))

	rr := httptest.NewRecorder()
	h.queueSync(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// ── processBatch ─────────────────────────────────────────────────────────────

func processBatchRequest(t *testing.T, batchID string, userID int64) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/sync/process/"+batchID, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("batchID", batchID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)

	return req.WithContext(withUserID(ctx, userID))
}

func TestProcessBatch_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, syncSvc := newTestHandler(t, ctrl)

	syncSvc.EXPECT().ProcessBatch(gomock.Any(), int64(1), "batch-1").
		Return(models.ProcessResult{BatchID: "batch-1", Status: models.BatchSynced, Applied: 2}, nil)

	rr := httptest.NewRecorder()
	h.processBatch(rr, processBatchRequest(t, "batch-1", 1))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestProcessBatch_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, syncSvc := newTestHandler(t, ctrl)

	syncSvc.EXPECT().ProcessBatch(gomock.Any(), int64(1), "missing").
		Return(models.ProcessResult{}, store.ErrBatchNotFound)

	rr := httptest.NewRecorder()
	h.processBatch(rr, processBatchRequest(t, "missing", 1))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProcessBatch_Expired(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, syncSvc := newTestHandler(t, ctrl)

	syncSvc.EXPECT().ProcessBatch(gomock.Any(), int64(1), "batch-1").
		Return(models.ProcessResult{}, service.ErrBatchExpired)

	rr := httptest.NewRecorder()
	h.processBatch(rr, processBatchRequest(t, "batch-1", 1))

	assert.Equal(t, http.StatusGone, rr.Code)
}
