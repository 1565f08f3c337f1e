package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mealkeep/syncserver/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRoutes_RejectsUnauthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _ := newTestHandler(t, ctrl)
	router := h.Init()

	req := httptest.NewRequest(http.MethodGet, "/api/sync/conflicts", nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRoutes_AuthenticatedRequestReachesHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, syncSvc := newTestHandler(t, ctrl)
	router := h.Init()

	syncSvc.EXPECT().ListConflicts(gomock.Any(), int64(42)).Return([]models.Conflict{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/sync/conflicts", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, h, 42, time.Hour))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Trace-ID"))
}

func TestRoutes_UnregisteredMethodIsNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _ := newTestHandler(t, ctrl)
	router := h.Init()

	req := httptest.NewRequest(http.MethodDelete, "/api/sync", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, h, 42, time.Hour))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRoutes_UnknownPathIsNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _ := newTestHandler(t, ctrl)
	router := h.Init()

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
