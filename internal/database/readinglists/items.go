package readinglists

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/readinglists/internal/database"
	"github.com/mrlokans/readinglists/internal/entities"
	domain "github.com/mrlokans/readinglists/internal/readinglists"
)

var _ domain.ItemManager = (*ItemManager)(nil)

// ItemManager persists the ordered membership of books within lists.
type ItemManager struct {
	db *gorm.DB

	// autoOrder assigns max(order)+1 when AddItem is called without an order.
	// When false an omitted order is stored as 0 and ties fall back to insertion order.
	autoOrder bool
}

// NewItemManager creates a new item manager.
func NewItemManager(db *gorm.DB, autoOrder bool) *ItemManager {
	return &ItemManager{db: db, autoOrder: autoOrder}
}

// ListItems returns the list's items sorted by order, then insertion sequence.
// Items whose book no longer exists are skipped.
func (m *ItemManager) ListItems(ctx context.Context, listID uint) ([]entities.ReadingListItem, error) {
	items := make([]entities.ReadingListItem, 0)
	err := m.db.WithContext(ctx).
		Preload("Book").
		Where("reading_list_id = ? AND book_id IN (SELECT id FROM books)", listID).
		Order("position ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list reading list items: %w", err)
	}
	return items, nil
}

// AddItem inserts bookID into listID. A nil order means "not given".
func (m *ItemManager) AddItem(ctx context.Context, listID, bookID uint, order *int) (*entities.ReadingListItem, error) {
	if order != nil && *order < 0 {
		return nil, domain.NewValidationError("order", "must be a non-negative integer")
	}

	item := &entities.ReadingListItem{
		ReadingListID: listID,
		BookID:        bookID,
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.Select("id").First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBookNotFound
			}
			return fmt.Errorf("lookup book: %w", err)
		}

		switch {
		case order != nil:
			item.Order = *order
		case m.autoOrder:
			next, err := nextOrder(tx, listID)
			if err != nil {
				return err
			}
			item.Order = next
		}

		if err := tx.Omit("Book").Create(item).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return domain.ErrDuplicateMembership
			}
			return fmt.Errorf("add reading list item: %w", err)
		}

		return tx.Preload("Book").First(item, item.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem deletes the membership of bookID in listID.
func (m *ItemManager) RemoveItem(ctx context.Context, listID, bookID uint) error {
	result := m.db.WithContext(ctx).
		Where("reading_list_id = ? AND book_id = ?", listID, bookID).
		Delete(&entities.ReadingListItem{})
	if result.Error != nil {
		return fmt.Errorf("remove reading list item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// PurgeBook removes every membership of bookID across all lists.
func (m *ItemManager) PurgeBook(ctx context.Context, bookID uint) (int64, error) {
	result := m.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Delete(&entities.ReadingListItem{})
	return result.RowsAffected, result.Error
}

// DeleteOrphanItems removes items whose book or list no longer exists.
func (m *ItemManager) DeleteOrphanItems(ctx context.Context) (int64, error) {
	result := m.db.WithContext(ctx).Exec(`
		DELETE FROM reading_list_items
		WHERE book_id NOT IN (SELECT id FROM books)
		OR reading_list_id NOT IN (SELECT id FROM reading_lists)
	`)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// nextOrder returns max(order)+1 for the list, or 0 when it is empty.
func nextOrder(tx *gorm.DB, listID uint) (int, error) {
	var maxOrder sql.NullInt64
	err := tx.Model(&entities.ReadingListItem{}).
		Where("reading_list_id = ?", listID).
		Select("MAX(position)").
		Row().Scan(&maxOrder)
	if err != nil {
		return 0, fmt.Errorf("compute next order: %w", err)
	}
	if !maxOrder.Valid {
		return 0, nil
	}
	return int(maxOrder.Int64) + 1, nil
}
