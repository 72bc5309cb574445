package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"
)

// BookMembershipPurger deletes reading list items that reference a book.
type BookMembershipPurger interface {
	PurgeBook(ctx context.Context, bookID uint) (int64, error)
}

// PurgeBookMembershipsTask removes a deleted book from every reading list.
type PurgeBookMembershipsTask struct {
	BookID uint `json:"book_id"`
}

// Config returns the queue configuration for membership purge tasks.
func (t PurgeBookMembershipsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "purge_book_memberships",
		MaxAttempts: 5,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PurgeBookMembershipsProcessor creates a processor function for PurgeBookMembershipsTask.
func PurgeBookMembershipsProcessor(purger BookMembershipPurger, logger *zap.Logger) backlite.QueueProcessor[PurgeBookMembershipsTask] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, task PurgeBookMembershipsTask) error {
		if purger == nil {
			return fmt.Errorf("membership purger not configured")
		}

		removed, err := purger.PurgeBook(ctx, task.BookID)
		if err != nil {
			return fmt.Errorf("purge memberships of book %d: %w", task.BookID, err)
		}

		logger.Info("purged reading list memberships",
			zap.Uint("book_id", task.BookID),
			zap.Int64("removed", removed))
		return nil
	}
}

// NewPurgeBookMembershipsQueue creates a backlite queue for membership purge tasks.
func NewPurgeBookMembershipsQueue(purger BookMembershipPurger, logger *zap.Logger) backlite.Queue {
	return backlite.NewQueue(PurgeBookMembershipsProcessor(purger, logger))
}
