// Package readinglists provides database operations for reading lists and
// their ordered items.
//
// Every list lookup is scoped by owner in the query predicate itself
// (WHERE id = ? AND user_id = ?), so a list owned by another user is
// indistinguishable from a missing one.
//
// # Interface Implementation
//
//	var _ readinglists.ListStore = (*ListStore)(nil)
//	var _ readinglists.ItemManager = (*ItemManager)(nil)
//
// # Usage
//
//	lists := readinglists.NewListStore(db)
//	list, err := lists.Create(ctx, userID, "Sci-Fi")
package readinglists

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/readinglists/internal/database"
	"github.com/mrlokans/readinglists/internal/entities"
	domain "github.com/mrlokans/readinglists/internal/readinglists"
)

var _ domain.ListStore = (*ListStore)(nil)

// ListStore persists reading lists scoped to their owner.
type ListStore struct {
	db *gorm.DB
}

// NewListStore creates a new reading list store.
func NewListStore(db *gorm.DB) *ListStore {
	return &ListStore{db: db}
}

// Create inserts a new list. The (owner, name) unique index rejects duplicates.
func (s *ListStore) Create(ctx context.Context, ownerID uint, name string) (*entities.ReadingList, error) {
	list := &entities.ReadingList{
		UserID: ownerID,
		Name:   name,
	}
	if err := s.db.WithContext(ctx).Create(list).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, domain.ErrDuplicateName
		}
		return nil, fmt.Errorf("create reading list: %w", err)
	}
	return list, nil
}

// ListFor returns all lists owned by ownerID in creation order.
func (s *ListStore) ListFor(ctx context.Context, ownerID uint) ([]entities.ReadingList, error) {
	lists := make([]entities.ReadingList, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("id ASC").
		Find(&lists).Error
	if err != nil {
		return nil, fmt.Errorf("list reading lists: %w", err)
	}
	return lists, nil
}

// Get retrieves a list owned by ownerID.
func (s *ListStore) Get(ctx context.Context, id, ownerID uint) (*entities.ReadingList, error) {
	return getOwned(s.db.WithContext(ctx), id, ownerID)
}

// Rename changes the list name. Renaming a list to its current name succeeds
// because the unique index only conflicts with other rows.
func (s *ListStore) Rename(ctx context.Context, id, ownerID uint, newName string) (*entities.ReadingList, error) {
	var list *entities.ReadingList
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.ReadingList{}).
			Where("id = ? AND user_id = ?", id, ownerID).
			Update("name", newName)
		if result.Error != nil {
			if database.IsUniqueViolation(result.Error) {
				return domain.ErrDuplicateName
			}
			return fmt.Errorf("rename reading list: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFoundOrForbidden
		}

		var err error
		list, err = getOwned(tx, id, ownerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Delete removes the list and all of its items in one transaction.
func (s *ListStore) Delete(ctx context.Context, id, ownerID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, ownerID).Delete(&entities.ReadingList{})
		if result.Error != nil {
			return fmt.Errorf("delete reading list: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFoundOrForbidden
		}

		if err := tx.Where("reading_list_id = ?", id).Delete(&entities.ReadingListItem{}).Error; err != nil {
			return fmt.Errorf("delete reading list items: %w", err)
		}
		return nil
	})
}

func getOwned(db *gorm.DB, id, ownerID uint) (*entities.ReadingList, error) {
	var list entities.ReadingList
	err := db.Where("id = ? AND user_id = ?", id, ownerID).First(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFoundOrForbidden
		}
		return nil, fmt.Errorf("get reading list: %w", err)
	}
	return &list, nil
}
