package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"
)

// OrphanItemsCleaner deletes reading list items whose book or list is gone.
type OrphanItemsCleaner interface {
	DeleteOrphanItems(ctx context.Context) (int64, error)
}

// CleanupOrphanItemsTask sweeps up memberships missed by the per-book purge.
type CleanupOrphanItemsTask struct{}

// Config returns the queue configuration for orphan cleanup tasks.
func (t CleanupOrphanItemsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_orphan_items",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupOrphanItemsProcessor creates a processor function for CleanupOrphanItemsTask.
func CleanupOrphanItemsProcessor(cleaner OrphanItemsCleaner, recorder MaintenanceRecorder, logger *zap.Logger) backlite.QueueProcessor[CleanupOrphanItemsTask] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, task CleanupOrphanItemsTask) error {
		if cleaner == nil {
			return fmt.Errorf("orphan items cleaner not configured")
		}

		deleted, err := cleaner.DeleteOrphanItems(ctx)
		if recorder != nil {
			recorder.LogMaintenance("orphan_item_cleanup",
				fmt.Sprintf("Removed %d orphaned reading list items", deleted), err)
		}
		if err != nil {
			return fmt.Errorf("cleanup orphan items: %w", err)
		}

		logger.Info("cleaned up orphan reading list items", zap.Int64("deleted", deleted))
		return nil
	}
}

// NewCleanupOrphanItemsQueue creates a backlite queue for orphan cleanup tasks.
func NewCleanupOrphanItemsQueue(cleaner OrphanItemsCleaner, recorder MaintenanceRecorder, logger *zap.Logger) backlite.Queue {
	return backlite.NewQueue(CleanupOrphanItemsProcessor(cleaner, recorder, logger))
}
