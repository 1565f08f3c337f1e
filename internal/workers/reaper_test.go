package workers

import (
	"context"
	"testing"
	"time"

	"github.com/mealkeep/syncserver/internal/config"
	"github.com/mealkeep/syncserver/internal/logger"
	"github.com/mealkeep/syncserver/internal/mock"
	"github.com/mealkeep/syncserver/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestBatchReaper_ExpiresStaleBatches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	batches := mock.NewMockBatchStore(ctrl)

	reaped := make(chan time.Time, 1)
	batches.EXPECT().
		ExpireStaleBatches(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, olderThan time.Time) (int64, error) {
			select {
			case reaped <- olderThan:
			default:
			}
			return 1, nil
		}).
		MinTimes(1)

	cfg := config.Workers{
		ReapInterval:           10 * time.Millisecond,
		BatchVisibilityTimeout: time.Hour,
	}

	reaper := NewBatchReaper(batches, cfg, logger.Nop())
	reaper.Run()
	defer reaper.Stop()

	select {
	case cutoff := <-reaped:
		// The cutoff is now minus the visibility timeout.
		assert.WithinDuration(t, time.Now().UTC().Add(-time.Hour), cutoff, time.Minute)
	case <-time.After(2 * time.Second):
		t.Fatal("reaper never called ExpireStaleBatches")
	}
}

func TestBatchReaper_StopEndsLoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	batches := mock.NewMockBatchStore(ctrl)
	batches.EXPECT().
		ExpireStaleBatches(gomock.Any(), gomock.Any()).
		Return(int64(0), nil).
		AnyTimes()

	cfg := config.Workers{
		ReapInterval:           10 * time.Millisecond,
		BatchVisibilityTimeout: time.Hour,
	}

	reaper := NewBatchReaper(batches, cfg, logger.Nop())
	reaper.Run()
	reaper.Stop()

	// Stop returns only after the loop has exited.
	select {
	case <-reaper.done:
	default:
		t.Fatal("Stop returned while the reap loop was still running")
	}
	require.Error(t, reaper.ctx.Err())
}

func TestNewWorkers_BuildsReaper(t *testing.T) {
	// NewWorkers only stores references, so nil storage interfaces are
	// safe for construction-time checks.
	ws := NewWorkers(&store.Storages{}, config.Workers{ReapInterval: time.Minute, BatchVisibilityTimeout: time.Hour}, logger.Nop())

	require.NotNil(t, ws)
	assert.Len(t, ws.workers, 1)
}
