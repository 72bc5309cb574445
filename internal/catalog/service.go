// Package catalog manages the shared book catalogue: anyone may read it,
// authenticated users may add to it, and only a book's creator may delete it.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mrlokans/readinglists/internal/entities"
	"github.com/mrlokans/readinglists/internal/validation"
)

const dateLayout = "2006-01-02"

var (
	ErrBookNotFound = errors.New("book not found")
	ErrNotBookOwner = errors.New("you do not have permission to delete this book")
)

// BookRepository persists books.
type BookRepository interface {
	CreateBook(ctx context.Context, book *entities.Book) error
	GetBookByID(ctx context.Context, id uint) (*entities.Book, error)
	GetAllBooks(ctx context.Context) ([]entities.Book, error)
	BookExists(ctx context.Context, id uint) (bool, error)
	DeleteBook(ctx context.Context, id uint) error
}

// MembershipPurger removes reading list items that reference a deleted book.
type MembershipPurger interface {
	PurgeBookMemberships(ctx context.Context, bookID uint) error
}

// EventRecorder receives notifications about catalogue mutations.
type EventRecorder interface {
	LogBook(userID uint, action string, bookID uint, description string)
}

// CreateBookInput is the payload accepted when adding a book.
type CreateBookInput struct {
	Title           string  `json:"title" validate:"notblank,max=255"`
	Authors         string  `json:"authors" validate:"notblank,max=255"`
	Genre           string  `json:"genre" validate:"notblank,max=100"`
	PublicationDate string  `json:"publication_date" validate:"required,datetime=2006-01-02"`
	Description     *string `json:"description"`
}

type Service struct {
	repo      BookRepository
	purger    MembershipPurger
	events    EventRecorder
	validator *validation.Validator
	logger    *zap.Logger
}

func NewService(repo BookRepository, purger MembershipPurger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:      repo,
		purger:    purger,
		validator: validation.New(),
		logger:    logger,
	}
}

// SetEventRecorder attaches an optional recorder for audit events.
func (s *Service) SetEventRecorder(events EventRecorder) {
	s.events = events
}

func (s *Service) List(ctx context.Context) ([]entities.Book, error) {
	return s.repo.GetAllBooks(ctx)
}

func (s *Service) Get(ctx context.Context, id uint) (*entities.Book, error) {
	book, err := s.repo.GetBookByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book %d: %w", id, err)
	}
	return book, nil
}

// Exists reports whether a book with the given id is in the catalogue.
func (s *Service) Exists(ctx context.Context, id uint) (bool, error) {
	return s.repo.BookExists(ctx, id)
}

func (s *Service) Create(ctx context.Context, userID uint, input CreateBookInput) (*entities.Book, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	published, err := time.Parse(dateLayout, input.PublicationDate)
	if err != nil {
		return nil, validation.NewError("publication_date", "date has wrong format, use YYYY-MM-DD")
	}

	creator := userID
	book := &entities.Book{
		Title:           strings.TrimSpace(input.Title),
		Authors:         strings.TrimSpace(input.Authors),
		Genre:           strings.TrimSpace(input.Genre),
		PublicationDate: published,
		Description:     input.Description,
		CreatedBy:       &creator,
	}
	if err := s.repo.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	s.record(userID, "book_create", book.ID, "Created book: "+book.Title)
	return book, nil
}

// Delete removes a book created by userID and schedules removal of its
// reading list memberships.
func (s *Service) Delete(ctx context.Context, userID, id uint) error {
	book, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !book.IsCreatedBy(userID) {
		return ErrNotBookOwner
	}

	if err := s.repo.DeleteBook(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return fmt.Errorf("failed to delete book %d: %w", id, err)
	}

	if s.purger != nil {
		if err := s.purger.PurgeBookMemberships(ctx, id); err != nil {
			// Listings already hide dangling items and the maintenance sweep removes them.
			s.logger.Warn("failed to schedule membership purge", zap.Uint("book_id", id), zap.Error(err))
		}
	}

	s.record(userID, "book_delete", id, "Deleted book: "+book.Title)
	return nil
}

func (s *Service) record(userID uint, action string, bookID uint, description string) {
	if s.events != nil {
		s.events.LogBook(userID, action, bookID, description)
	}
}

// BookPurger is the interface satisfied by the reading list item manager.
type BookPurger interface {
	PurgeBook(ctx context.Context, bookID uint) (int64, error)
}

// ImmediatePurger removes memberships synchronously. It is used when the
// background task queue is disabled.
type ImmediatePurger struct {
	Items BookPurger
}

func (p ImmediatePurger) PurgeBookMemberships(ctx context.Context, bookID uint) error {
	_, err := p.Items.PurgeBook(ctx, bookID)
	return err
}
