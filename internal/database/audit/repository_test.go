package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/readinglists/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	return db
}

func TestRepository_LogEvent(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	event := &entities.AuditEvent{
		UserID:      1,
		EventType:   entities.AuditEventReadingList,
		Action:      "list_create",
		Description: "Created reading list: Summer",
		Status:      entities.AuditStatusSuccess,
	}

	err := repo.LogEvent(context.Background(), event)
	require.NoError(t, err)
	assert.NotZero(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestRepository_GetEvents(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		eventType := entities.AuditEventReadingList
		if i%3 == 0 {
			eventType = entities.AuditEventBook
		}
		err := repo.LogEvent(ctx, &entities.AuditEvent{
			UserID:    1,
			EventType: eventType,
			Action:    "test",
			Status:    entities.AuditStatusSuccess,
			CreatedAt: time.Now().Add(time.Duration(-i) * time.Hour),
		})
		require.NoError(t, err)
	}
	require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{UserID: 2, EventType: entities.AuditEventAuth, Action: "login"}))

	t.Run("paginates newest first", func(t *testing.T) {
		events, total, err := repo.GetEvents(ctx, 1, "", 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(15), total)
		assert.Len(t, events, 10)
		assert.True(t, events[0].CreatedAt.After(events[1].CreatedAt))

		events, _, err = repo.GetEvents(ctx, 1, "", 10, 10)
		require.NoError(t, err)
		assert.Len(t, events, 5)
	})

	t.Run("filters by type", func(t *testing.T) {
		events, total, err := repo.GetEvents(ctx, 1, entities.AuditEventBook, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		for _, e := range events {
			assert.Equal(t, entities.AuditEventBook, e.EventType)
		}
	})

	t.Run("scoped to user", func(t *testing.T) {
		events, total, err := repo.GetEvents(ctx, 2, "", 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "login", events[0].Action)
	})
}

func TestRepository_DeleteOldEvents(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{UserID: 1, Action: "old", CreatedAt: time.Now().Add(-48 * time.Hour)}))
	require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{UserID: 1, Action: "new"}))

	deleted, err := repo.DeleteOldEvents(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, total, err := repo.GetEvents(ctx, 1, "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "new", events[0].Action)
}
