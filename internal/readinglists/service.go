// Package readinglists implements the reading list use cases: user-owned,
// uniquely named lists of books kept in an explicit order.
//
// The Service is stateless; every operation receives the authenticated user
// id as an argument and ownership is enforced by the store's owner-scoped
// lookups rather than by a separate permission check.
package readinglists

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/mrlokans/readinglists/internal/entities"
)

// MaxNameLength is the maximum length of a reading list name.
const MaxNameLength = 255

// ListStore persists reading lists scoped to their owner.
type ListStore interface {
	Create(ctx context.Context, ownerID uint, name string) (*entities.ReadingList, error)
	ListFor(ctx context.Context, ownerID uint) ([]entities.ReadingList, error)
	Get(ctx context.Context, id, ownerID uint) (*entities.ReadingList, error)
	Rename(ctx context.Context, id, ownerID uint, newName string) (*entities.ReadingList, error)
	Delete(ctx context.Context, id, ownerID uint) error
}

// ItemManager persists the ordered membership of books within a list.
type ItemManager interface {
	ListItems(ctx context.Context, listID uint) ([]entities.ReadingListItem, error)
	AddItem(ctx context.Context, listID, bookID uint, order *int) (*entities.ReadingListItem, error)
	RemoveItem(ctx context.Context, listID, bookID uint) error
}

// BookCatalog answers whether a book exists.
type BookCatalog interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

// EventRecorder receives notifications about successful mutations.
type EventRecorder interface {
	LogReadingList(userID uint, action string, listID uint, description string)
}

type Service struct {
	lists  ListStore
	items  ItemManager
	books  BookCatalog
	events EventRecorder
}

func NewService(lists ListStore, items ItemManager, books BookCatalog) *Service {
	return &Service{
		lists: lists,
		items: items,
		books: books,
	}
}

// SetEventRecorder attaches an optional recorder for audit events.
func (s *Service) SetEventRecorder(events EventRecorder) {
	s.events = events
}

func (s *Service) CreateList(ctx context.Context, userID uint, name string) (*entities.ReadingList, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	list, err := s.lists.Create(ctx, userID, name)
	if err != nil {
		return nil, err
	}

	s.record(userID, "list_create", list.ID, "Created reading list: "+list.Name)
	return list, nil
}

func (s *Service) ListLists(ctx context.Context, userID uint) ([]entities.ReadingList, error) {
	return s.lists.ListFor(ctx, userID)
}

func (s *Service) GetList(ctx context.Context, userID, listID uint) (*entities.ReadingList, error) {
	return s.lists.Get(ctx, listID, userID)
}

func (s *Service) RenameList(ctx context.Context, userID, listID uint, name string) (*entities.ReadingList, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	list, err := s.lists.Rename(ctx, listID, userID, name)
	if err != nil {
		return nil, err
	}

	s.record(userID, "list_rename", list.ID, "Renamed reading list to: "+list.Name)
	return list, nil
}

func (s *Service) DeleteList(ctx context.Context, userID, listID uint) error {
	if err := s.lists.Delete(ctx, listID, userID); err != nil {
		return err
	}

	s.record(userID, "list_delete", listID, "Deleted reading list")
	return nil
}

// ListItems returns the items of a list owned by userID in presentation order.
func (s *Service) ListItems(ctx context.Context, userID, listID uint) ([]entities.ReadingListItem, error) {
	if _, err := s.lists.Get(ctx, listID, userID); err != nil {
		return nil, err
	}
	return s.items.ListItems(ctx, listID)
}

// AddItem checks list ownership, then book existence, then inserts.
// The first failing step aborts the operation before anything is written.
func (s *Service) AddItem(ctx context.Context, userID, listID, bookID uint, order *int) (*entities.ReadingListItem, error) {
	if order != nil && *order < 0 {
		return nil, NewValidationError("order", "must be a non-negative integer")
	}

	if _, err := s.lists.Get(ctx, listID, userID); err != nil {
		return nil, err
	}

	exists, err := s.books.Exists(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrBookNotFound
	}

	item, err := s.items.AddItem(ctx, listID, bookID, order)
	if err != nil {
		return nil, err
	}

	s.record(userID, "item_add", listID, "Added book to reading list: "+item.Book.Title)
	return item, nil
}

func (s *Service) RemoveItem(ctx context.Context, userID, listID, bookID uint) error {
	if _, err := s.lists.Get(ctx, listID, userID); err != nil {
		return err
	}

	if err := s.items.RemoveItem(ctx, listID, bookID); err != nil {
		return err
	}

	s.record(userID, "item_remove", listID, "Removed book from reading list")
	return nil
}

func (s *Service) record(userID uint, action string, listID uint, description string) {
	if s.events != nil {
		s.events.LogReadingList(userID, action, listID, description)
	}
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", NewValidationError("name", "this field may not be blank")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", NewValidationError("name", "ensure this field has no more than 255 characters")
	}
	return name, nil
}
