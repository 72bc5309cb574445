package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readinglists/internal/entities"
)

// ReadingListService is the subset of readinglists.Service used by the controller.
type ReadingListService interface {
	CreateList(ctx context.Context, userID uint, name string) (*entities.ReadingList, error)
	ListLists(ctx context.Context, userID uint) ([]entities.ReadingList, error)
	GetList(ctx context.Context, userID, listID uint) (*entities.ReadingList, error)
	RenameList(ctx context.Context, userID, listID uint, name string) (*entities.ReadingList, error)
	DeleteList(ctx context.Context, userID, listID uint) error
	ListItems(ctx context.Context, userID, listID uint) ([]entities.ReadingListItem, error)
	AddItem(ctx context.Context, userID, listID, bookID uint, order *int) (*entities.ReadingListItem, error)
	RemoveItem(ctx context.Context, userID, listID, bookID uint) error
}

// ReadingListItemResponse is an item with its book embedded.
type ReadingListItemResponse struct {
	ID            uint         `json:"id"`
	ReadingListID uint         `json:"reading_list"`
	Book          BookResponse `json:"book"`
	Order         int          `json:"order"`
	AddedAt       time.Time    `json:"added_at"`
}

func newItemResponse(item *entities.ReadingListItem) ReadingListItemResponse {
	return ReadingListItemResponse{
		ID:            item.ID,
		ReadingListID: item.ReadingListID,
		Book:          newBookResponse(&item.Book),
		Order:         item.Order,
		AddedAt:       item.AddedAt,
	}
}

type readingListRequest struct {
	Name string `json:"name"`
}

type addItemRequest struct {
	BookID uint `json:"book_id"`
	Order  *int `json:"order"`
}

type ReadingListsController struct {
	service ReadingListService
}

func NewReadingListsController(service ReadingListService) *ReadingListsController {
	return &ReadingListsController{service: service}
}

// GetLists returns the current user's reading lists.
// GET /api/reading-lists
func (rc *ReadingListsController) GetLists(c *gin.Context) {
	lists, err := rc.service.ListLists(c.Request.Context(), GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list reading lists")
		return
	}
	c.JSON(http.StatusOK, lists)
}

// CreateList creates a reading list.
// POST /api/reading-lists
func (rc *ReadingListsController) CreateList(c *gin.Context) {
	var req readingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	list, err := rc.service.CreateList(c.Request.Context(), GetUserID(c), req.Name)
	if err != nil {
		respondDomainError(c, err, "create reading list")
		return
	}
	respondCreated(c, list)
}

// GetList returns one of the current user's reading lists.
// GET /api/reading-lists/:id
func (rc *ReadingListsController) GetList(c *gin.Context) {
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := rc.service.GetList(c.Request.Context(), GetUserID(c), listID)
	if err != nil {
		respondDomainError(c, err, "get reading list")
		return
	}
	c.JSON(http.StatusOK, list)
}

// RenameList changes a reading list's name.
// PUT /api/reading-lists/:id
func (rc *ReadingListsController) RenameList(c *gin.Context) {
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req readingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	list, err := rc.service.RenameList(c.Request.Context(), GetUserID(c), listID, req.Name)
	if err != nil {
		respondDomainError(c, err, "rename reading list")
		return
	}
	c.JSON(http.StatusOK, list)
}

// DeleteList removes a reading list and its items.
// DELETE /api/reading-lists/:id
func (rc *ReadingListsController) DeleteList(c *gin.Context) {
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := rc.service.DeleteList(c.Request.Context(), GetUserID(c), listID); err != nil {
		respondDomainError(c, err, "delete reading list")
		return
	}
	respondNoContent(c)
}

// GetItems returns a list's items in presentation order.
// GET /api/reading-lists/:id/items
func (rc *ReadingListsController) GetItems(c *gin.Context) {
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	items, err := rc.service.ListItems(c.Request.Context(), GetUserID(c), listID)
	if err != nil {
		respondDomainError(c, err, "list reading list items")
		return
	}

	response := make([]ReadingListItemResponse, 0, len(items))
	for i := range items {
		response = append(response, newItemResponse(&items[i]))
	}
	c.JSON(http.StatusOK, response)
}

// AddItem adds a book to a list.
// POST /api/reading-lists/:id/items
func (rc *ReadingListsController) AddItem(c *gin.Context) {
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	item, err := rc.service.AddItem(c.Request.Context(), GetUserID(c), listID, req.BookID, req.Order)
	if err != nil {
		respondDomainError(c, err, "add reading list item")
		return
	}
	respondCreated(c, newItemResponse(item))
}

// RemoveItem removes a book from a list.
// DELETE /api/reading-lists/:id/items/:bookId
func (rc *ReadingListsController) RemoveItem(c *gin.Context) {
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	if err := rc.service.RemoveItem(c.Request.Context(), GetUserID(c), listID, bookID); err != nil {
		respondDomainError(c, err, "remove reading list item")
		return
	}
	respondNoContent(c)
}
