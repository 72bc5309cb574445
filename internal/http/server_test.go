package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/readinglists/internal/audit"
	"github.com/mrlokans/readinglists/internal/auth"
	"github.com/mrlokans/readinglists/internal/catalog"
	"github.com/mrlokans/readinglists/internal/config"
	"github.com/mrlokans/readinglists/internal/database"
	auditrepo "github.com/mrlokans/readinglists/internal/database/audit"
	"github.com/mrlokans/readinglists/internal/database/books"
	dbrl "github.com/mrlokans/readinglists/internal/database/readinglists"
	"github.com/mrlokans/readinglists/internal/database/users"
	"github.com/mrlokans/readinglists/internal/readinglists"
)

type testServer struct {
	router  *gin.Engine
	db      *database.Database
	users   *auth.Service
	tokens  *auth.TokenService
	limiter *auth.LoginLimiter
	audit   *audit.Service
}

type serverOption func(*config.Config)

func withAutoOrder(cfg *config.Config) {
	cfg.ReadingLists.AutoOrder = true
}

func withMaxLoginAttempts(n int) serverOption {
	return func(cfg *config.Config) {
		cfg.Auth.MaxLoginAttempts = n
	}
}

func setupTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Auth: config.Auth{BcryptCost: 4},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath, database.WithLogLevel(logger.Silent))
	require.NoError(t, err)

	auditService := audit.NewService(auditrepo.NewRepository(db.DB), zap.NewNop())
	limiter := auth.NewLoginLimiter(cfg.Auth)

	t.Cleanup(func() {
		limiter.Stop()
		auditService.Wait()
		db.Close()
		os.Remove(dbPath)
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	})

	items := dbrl.NewItemManager(db.DB, cfg.ReadingLists.AutoOrder)
	bookCatalog := catalog.NewService(books.NewRepository(db.DB), catalog.ImmediatePurger{Items: items}, zap.NewNop())
	bookCatalog.SetEventRecorder(auditService)
	listService := readinglists.NewService(dbrl.NewListStore(db.DB), items, bookCatalog)
	listService.SetEventRecorder(auditService)
	userService := auth.NewService(users.NewRepository(db.DB), cfg.Auth)
	tokens := auth.NewTokenService("test-secret", cfg.Auth)

	router := NewRouter(RouterConfig{
		Database:     db,
		ReadingLists: listService,
		Books:        bookCatalog,
		Users:        userService,
		Audit:        auditService,
		Tokens:       tokens,
		LoginLimiter: limiter,
		AuthEvents:   auditService,
		Version:      "test",
	})

	return &testServer{
		router:  router,
		db:      db,
		users:   userService,
		tokens:  tokens,
		limiter: limiter,
		audit:   auditService,
	}
}

// createUser registers a user and returns a valid access token for them.
func (s *testServer) createUser(t *testing.T, username string) string {
	t.Helper()
	user, err := s.users.CreateUser(context.Background(), username, strings.ToLower(username)+"@example.com", "Secret1!")
	require.NoError(t, err)

	pair, err := s.tokens.IssuePair(user)
	require.NoError(t, err)
	return pair.Access
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) createBook(t *testing.T, token, title string) BookResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/books", token, map[string]any{
		"title":            title,
		"authors":          "Some Author",
		"genre":            "Fiction",
		"publication_date": "2001-02-03",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var book BookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
	return book
}

func (s *testServer) createList(t *testing.T, token, name string) uint {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/reading-lists", token, map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var list struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	return list.ID
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
