package tasks

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// QueuedMaintenance enqueues the periodic cleanup tasks on the task queue.
type QueuedMaintenance struct {
	Client        *Client
	RetentionDays int
}

func (m QueuedMaintenance) RunMaintenance(ctx context.Context) error {
	_, err := m.Client.Add(
		CleanupOrphanItemsTask{},
		CleanupAuditEventsTask{RetentionDays: m.RetentionDays},
	).Ctx(ctx).Save()
	if err != nil {
		return fmt.Errorf("enqueue maintenance tasks: %w", err)
	}
	return nil
}

// InlineMaintenance runs the cleanup processors directly. It is used when
// the task queue is disabled.
type InlineMaintenance struct {
	Orphans       OrphanItemsCleaner
	Audit         AuditEventCleaner
	Recorder      MaintenanceRecorder
	RetentionDays int
	Logger        *zap.Logger
}

func (m InlineMaintenance) RunMaintenance(ctx context.Context) error {
	orphanErr := CleanupOrphanItemsProcessor(m.Orphans, m.Recorder, m.Logger)(ctx, CleanupOrphanItemsTask{})
	auditErr := CleanupAuditEventsProcessor(m.Audit, m.Recorder, m.Logger)(ctx, CleanupAuditEventsTask{RetentionDays: m.RetentionDays})
	return errors.Join(orphanErr, auditErr)
}
