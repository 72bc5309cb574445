package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooksController_GetAllBooks(t *testing.T) {
	t.Run("returns empty list when no books exist", func(t *testing.T) {
		s := setupTestServer(t)

		w := s.do(t, http.MethodGet, "/api/books", "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("is public and returns existing books", func(t *testing.T) {
		s := setupTestServer(t)
		alice := s.createUser(t, "alice")
		s.createBook(t, alice, "Dune")
		s.createBook(t, alice, "Emma")

		w := s.do(t, http.MethodGet, "/api/books", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var books []BookResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
		assert.Len(t, books, 2)
	})
}

func TestBooksController_GetBook(t *testing.T) {
	t.Run("returns the book", func(t *testing.T) {
		s := setupTestServer(t)
		alice := s.createUser(t, "alice")
		created := s.createBook(t, alice, "Dune")

		w := s.do(t, http.MethodGet, fmt.Sprintf("/api/books/%d", created.ID), "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var book BookResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
		assert.Equal(t, "Dune", book.Title)
		assert.Equal(t, "2001-02-03", book.PublicationDate)
		require.NotNil(t, book.CreatedBy)
	})

	t.Run("returns 404 for unknown book", func(t *testing.T) {
		s := setupTestServer(t)

		w := s.do(t, http.MethodGet, "/api/books/999", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBooksController_CreateBook(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		s := setupTestServer(t)

		w := s.do(t, http.MethodPost, "/api/books", "", map[string]any{"title": "Dune"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects invalid input with field details", func(t *testing.T) {
		s := setupTestServer(t)
		alice := s.createUser(t, "alice")

		w := s.do(t, http.MethodPost, "/api/books", alice, map[string]any{
			"title":            "",
			"authors":          "Frank Herbert",
			"genre":            "Sci-Fi",
			"publication_date": "03/02/2001",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)

		resp := decodeError(t, w)
		assert.Equal(t, CodeValidation, resp.Code)
		assert.Contains(t, resp.Details, "title")
		assert.Contains(t, resp.Details, "publication_date")
	})
}

func TestBooksController_DeleteBook(t *testing.T) {
	t.Run("only the creator may delete", func(t *testing.T) {
		s := setupTestServer(t)
		alice := s.createUser(t, "alice")
		bob := s.createUser(t, "bob")
		book := s.createBook(t, alice, "Dune")

		w := s.do(t, http.MethodDelete, fmt.Sprintf("/api/books/%d", book.ID), bob, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/books/%d", book.ID), alice, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = s.do(t, http.MethodGet, fmt.Sprintf("/api/books/%d", book.ID), "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("returns 404 for unknown book", func(t *testing.T) {
		s := setupTestServer(t)
		alice := s.createUser(t, "alice")

		w := s.do(t, http.MethodDelete, "/api/books/999", alice, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("removes the book from reading lists", func(t *testing.T) {
		s := setupTestServer(t)
		alice := s.createUser(t, "alice")
		bob := s.createUser(t, "bob")
		book := s.createBook(t, alice, "Dune")
		listID := s.createList(t, bob, "Queue")

		w := s.do(t, http.MethodPost, fmt.Sprintf("/api/reading-lists/%d/items", listID), bob, map[string]any{"book_id": book.ID})
		require.Equal(t, http.StatusCreated, w.Code)

		w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/books/%d", book.ID), alice, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		assert.Empty(t, itemsOf(t, s, bob, listID))

		var remaining int64
		require.NoError(t, s.db.DB.Table("reading_list_items").Where("book_id = ?", book.ID).Count(&remaining).Error)
		assert.Zero(t, remaining)
	})
}
