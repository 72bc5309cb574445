package catalog

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/readinglists/internal/database"
	"github.com/mrlokans/readinglists/internal/database/books"
	dbrl "github.com/mrlokans/readinglists/internal/database/readinglists"
	"github.com/mrlokans/readinglists/internal/entities"
	"github.com/mrlokans/readinglists/internal/validation"
)

type testEnv struct {
	db      *database.Database
	service *Service
	items   *dbrl.ItemManager
	lists   *dbrl.ListStore
	events  *recordedEvents
}

type recordedEvents struct {
	actions []string
}

func (r *recordedEvents) LogBook(_ uint, action string, _ uint, _ string) {
	r.actions = append(r.actions, action)
}

func setupTestEnv(t *testing.T) *testEnv {
	dbPath := "./test_catalog_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := database.NewDatabase(dbPath, database.WithLogLevel(logger.Silent))
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	})

	items := dbrl.NewItemManager(db.DB, false)
	events := &recordedEvents{}
	svc := NewService(books.NewRepository(db.DB), ImmediatePurger{Items: items}, zap.NewNop())
	svc.SetEventRecorder(events)

	return &testEnv{
		db:      db,
		service: svc,
		items:   items,
		lists:   dbrl.NewListStore(db.DB),
		events:  events,
	}
}

func validInput(title string) CreateBookInput {
	return CreateBookInput{
		Title:           title,
		Authors:         "Frank Herbert",
		Genre:           "Science Fiction",
		PublicationDate: "1965-08-01",
	}
}

func TestService_Create(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	t.Run("valid input", func(t *testing.T) {
		book, err := env.service.Create(ctx, 1, validInput("  Dune  "))
		require.NoError(t, err)

		assert.NotZero(t, book.ID)
		assert.Equal(t, "Dune", book.Title)
		assert.Equal(t, 1965, book.PublicationDate.Year())
		assert.True(t, book.IsCreatedBy(1))
		assert.Contains(t, env.events.actions, "book_create")
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := env.service.Create(ctx, 1, CreateBookInput{Title: "Dune"})

		var ve *validation.Error
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, ve.Fields, "authors")
		assert.Contains(t, ve.Fields, "genre")
		assert.Contains(t, ve.Fields, "publication_date")
	})

	t.Run("bad date", func(t *testing.T) {
		input := validInput("Dune")
		input.PublicationDate = "01/08/1965"

		_, err := env.service.Create(ctx, 1, input)

		var ve *validation.Error
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "date has wrong format, use YYYY-MM-DD", ve.Fields["publication_date"])
	})
}

func TestService_Get(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	created, err := env.service.Create(ctx, 1, validInput("Dune"))
	require.NoError(t, err)

	book, err := env.service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)

	_, err = env.service.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestService_ListAndExists(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	first, err := env.service.Create(ctx, 1, validInput("Dune"))
	require.NoError(t, err)
	_, err = env.service.Create(ctx, 2, validInput("Children of Dune"))
	require.NoError(t, err)

	all, err := env.service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	exists, err := env.service.Exists(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = env.service.Exists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("only the creator may delete", func(t *testing.T) {
		env := setupTestEnv(t)
		book, err := env.service.Create(ctx, 1, validInput("Dune"))
		require.NoError(t, err)

		err = env.service.Delete(ctx, 2, book.ID)
		assert.ErrorIs(t, err, ErrNotBookOwner)

		exists, err := env.service.Exists(ctx, book.ID)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("missing book", func(t *testing.T) {
		env := setupTestEnv(t)
		err := env.service.Delete(ctx, 1, 999)
		assert.ErrorIs(t, err, ErrBookNotFound)
	})

	t.Run("purges reading list memberships", func(t *testing.T) {
		env := setupTestEnv(t)
		book, err := env.service.Create(ctx, 1, validInput("Dune"))
		require.NoError(t, err)
		other, err := env.service.Create(ctx, 1, validInput("Emma"))
		require.NoError(t, err)

		list, err := env.lists.Create(ctx, 2, "Favourites")
		require.NoError(t, err)
		_, err = env.items.AddItem(ctx, list.ID, book.ID, nil)
		require.NoError(t, err)
		_, err = env.items.AddItem(ctx, list.ID, other.ID, nil)
		require.NoError(t, err)

		require.NoError(t, env.service.Delete(ctx, 1, book.ID))

		var count int64
		env.db.DB.Model(&entities.ReadingListItem{}).Where("book_id = ?", book.ID).Count(&count)
		assert.Zero(t, count)

		items, err := env.items.ListItems(ctx, list.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, other.ID, items[0].BookID)
		assert.Contains(t, env.events.actions, "book_delete")
	})
}
