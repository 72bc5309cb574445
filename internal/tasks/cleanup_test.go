package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuditCleaner struct {
	retention time.Duration
	err       error
}

func (f *fakeAuditCleaner) DeleteOldEvents(_ context.Context, retention time.Duration) (int64, error) {
	f.retention = retention
	return 4, f.err
}

type fakeOrphanCleaner struct {
	err error
}

func (f *fakeOrphanCleaner) DeleteOrphanItems(context.Context) (int64, error) {
	return 2, f.err
}

type maintenanceEntry struct {
	action      string
	description string
	err         error
}

type fakeRecorder struct {
	entries []maintenanceEntry
}

func (f *fakeRecorder) LogMaintenance(action, description string, err error) {
	f.entries = append(f.entries, maintenanceEntry{action, description, err})
}

func TestCleanupAuditEventsProcessor(t *testing.T) {
	t.Run("uses task retention", func(t *testing.T) {
		cleaner := &fakeAuditCleaner{}
		recorder := &fakeRecorder{}

		err := CleanupAuditEventsProcessor(cleaner, recorder, nil)(context.Background(), CleanupAuditEventsTask{RetentionDays: 7})
		require.NoError(t, err)

		assert.Equal(t, 7*24*time.Hour, cleaner.retention)
		require.Len(t, recorder.entries, 1)
		assert.Equal(t, "audit_cleanup", recorder.entries[0].action)
		assert.Equal(t, "Removed 4 audit events older than 7 days", recorder.entries[0].description)
	})

	t.Run("defaults to thirty days", func(t *testing.T) {
		cleaner := &fakeAuditCleaner{}

		err := CleanupAuditEventsProcessor(cleaner, nil, nil)(context.Background(), CleanupAuditEventsTask{})
		require.NoError(t, err)
		assert.Equal(t, 30*24*time.Hour, cleaner.retention)
	})

	t.Run("failure is recorded and returned", func(t *testing.T) {
		recorder := &fakeRecorder{}
		cleaner := &fakeAuditCleaner{err: errors.New("disk full")}

		err := CleanupAuditEventsProcessor(cleaner, recorder, nil)(context.Background(), CleanupAuditEventsTask{})
		assert.ErrorContains(t, err, "disk full")
		require.Len(t, recorder.entries, 1)
		assert.Error(t, recorder.entries[0].err)
	})
}

func TestCleanupOrphanItemsProcessor(t *testing.T) {
	recorder := &fakeRecorder{}

	err := CleanupOrphanItemsProcessor(&fakeOrphanCleaner{}, recorder, nil)(context.Background(), CleanupOrphanItemsTask{})
	require.NoError(t, err)
	require.Len(t, recorder.entries, 1)
	assert.Equal(t, "Removed 2 orphaned reading list items", recorder.entries[0].description)

	err = CleanupOrphanItemsProcessor(nil, nil, nil)(context.Background(), CleanupOrphanItemsTask{})
	assert.Error(t, err)
}

func TestInlineMaintenance(t *testing.T) {
	recorder := &fakeRecorder{}
	audit := &fakeAuditCleaner{}

	m := InlineMaintenance{
		Orphans:       &fakeOrphanCleaner{err: errors.New("locked")},
		Audit:         audit,
		Recorder:      recorder,
		RetentionDays: 14,
	}

	err := m.RunMaintenance(context.Background())
	assert.ErrorContains(t, err, "locked")

	// Audit cleanup still ran after the orphan sweep failed
	assert.Equal(t, 14*24*time.Hour, audit.retention)
	assert.Len(t, recorder.entries, 2)
}
