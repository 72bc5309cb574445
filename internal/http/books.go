package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readinglists/internal/catalog"
	"github.com/mrlokans/readinglists/internal/entities"
)

// BookCatalog is the subset of catalog.Service used by the controller.
type BookCatalog interface {
	List(ctx context.Context) ([]entities.Book, error)
	Get(ctx context.Context, id uint) (*entities.Book, error)
	Create(ctx context.Context, userID uint, input catalog.CreateBookInput) (*entities.Book, error)
	Delete(ctx context.Context, userID, id uint) error
}

// BookResponse is the public representation of a book.
type BookResponse struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Authors         string    `json:"authors"`
	Genre           string    `json:"genre"`
	PublicationDate string    `json:"publication_date"`
	Description     *string   `json:"description"`
	CreatedBy       *uint     `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func newBookResponse(b *entities.Book) BookResponse {
	return BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Authors:         b.Authors,
		Genre:           b.Genre,
		PublicationDate: b.PublicationDate.Format("2006-01-02"),
		Description:     b.Description,
		CreatedBy:       b.CreatedBy,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

type BooksController struct {
	books BookCatalog
}

func NewBooksController(books BookCatalog) *BooksController {
	return &BooksController{books: books}
}

// GetAllBooks returns the whole catalogue.
// GET /api/books
func (bc *BooksController) GetAllBooks(c *gin.Context) {
	books, err := bc.books.List(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	response := make([]BookResponse, 0, len(books))
	for i := range books {
		response = append(response, newBookResponse(&books[i]))
	}
	c.JSON(http.StatusOK, response)
}

// GetBook returns a single book.
// GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.books.Get(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, newBookResponse(book))
}

// CreateBook adds a book to the catalogue on behalf of the current user.
// POST /api/books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var req catalog.CreateBookInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book, err := bc.books.Create(c.Request.Context(), GetUserID(c), req)
	if err != nil {
		respondDomainError(c, err, "create book")
		return
	}
	respondCreated(c, newBookResponse(book))
}

// DeleteBook removes a book. Only its creator may do so.
// DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.books.Delete(c.Request.Context(), GetUserID(c), id); err != nil {
		respondDomainError(c, err, "delete book")
		return
	}
	respondNoContent(c)
}
