package http

import (
	"errors"
	"net/http"

	"github.com/mealkeep/syncserver/internal/service"
	"github.com/mealkeep/syncserver/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrNoItemsProvided:         http.StatusBadRequest,
	service.ErrEmptyItemID:             http.StatusBadRequest,
	service.ErrUnsupportedResourceType: http.StatusBadRequest,
	service.ErrInvalidResolution:       http.StatusBadRequest,
	service.ErrManualDataRequired:      http.StatusBadRequest,
	service.ErrBatchNotInConflict:      http.StatusConflict,
	service.ErrBatchExpired:            http.StatusGone,

	store.ErrBatchNotFound:           http.StatusNotFound,
	store.ErrConflictNotFound:        http.StatusNotFound,
	store.ErrDocumentNotFound:        http.StatusNotFound,
	store.ErrBatchStateConflict:      http.StatusConflict,
	store.ErrVersionConflict:         http.StatusConflict,
	store.ErrConflictAlreadyResolved: http.StatusConflict,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrPreparingStatement:   http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
