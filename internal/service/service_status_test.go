package service

import (
	"context"
	"testing"
	"time"

	"github.com/mealkeep/syncserver/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSyncService_GetSyncStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, batches := newTestSyncService(t, ctrl)
	ctx := context.Background()

	syncedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	batches.EXPECT().CountPendingBatches(ctx, int64(1), "phone-1", gomock.Nil()).Return(3, nil)
	batches.EXPECT().CountUnresolvedForDevice(ctx, int64(1), "phone-1", gomock.Nil()).Return(1, nil)
	batches.EXPECT().LastSyncedAt(ctx, int64(1), "phone-1").Return(&syncedAt, nil)

	status, err := svc.GetSyncStatus(ctx, 1, "phone-1", nil)

	require.NoError(t, err)
	assert.Equal(t, models.SyncStatus{
		PendingChanges: 3,
		Conflicts:      1,
		LastSyncedAt:   &syncedAt,
	}, status)
}

func TestSyncService_GetSyncStatus_NeverSynced(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, batches := newTestSyncService(t, ctrl)
	ctx := context.Background()

	batches.EXPECT().CountPendingBatches(ctx, int64(1), "phone-1", gomock.Nil()).Return(0, nil)
	batches.EXPECT().CountUnresolvedForDevice(ctx, int64(1), "phone-1", gomock.Nil()).Return(0, nil)
	batches.EXPECT().LastSyncedAt(ctx, int64(1), "phone-1").Return(nil, nil)

	status, err := svc.GetSyncStatus(ctx, 1, "phone-1", nil)

	require.NoError(t, err)
	assert.Zero(t, status.PendingChanges)
	assert.Zero(t, status.Conflicts)
	assert.Nil(t, status.LastSyncedAt)
}

func TestSyncService_GetSyncStatus_SinceFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, batches := newTestSyncService(t, ctrl)
	ctx := context.Background()

	since := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	batches.EXPECT().CountPendingBatches(ctx, int64(1), "phone-1", &since).Return(1, nil)
	batches.EXPECT().CountUnresolvedForDevice(ctx, int64(1), "phone-1", &since).Return(0, nil)
	batches.EXPECT().LastSyncedAt(ctx, int64(1), "phone-1").Return(nil, nil)

	status, err := svc.GetSyncStatus(ctx, 1, "phone-1", &since)

	require.NoError(t, err)
	assert.Equal(t, 1, status.PendingChanges)
}

func TestSyncService_GetSyncStatus_StorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, batches := newTestSyncService(t, ctrl)
	ctx := context.Background()

	batches.EXPECT().CountPendingBatches(ctx, int64(1), "phone-1", gomock.Nil()).Return(0, assert.AnError)

	_, err := svc.GetSyncStatus(ctx, 1, "phone-1", nil)

	assert.ErrorIs(t, err, assert.AnError)
}
