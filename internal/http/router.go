package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/readinglists/internal/auth"
	"github.com/mrlokans/readinglists/internal/logging"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(logging.RequestLogger(logger))
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.EnableHSTS {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	requireAuth := auth.NewMiddleware(cfg.Tokens).Handler()

	health := NewHealthController(cfg.Database, cfg.Tasks, cfg.Version)
	users := NewUsersController(cfg.Users, cfg.Tokens, cfg.LoginLimiter, cfg.AuthEvents)
	books := NewBooksController(cfg.Books)
	lists := NewReadingListsController(cfg.ReadingLists)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	api := router.Group("/api")

	// Identity endpoints
	api.POST("/users/register", users.Register)
	api.POST("/token", users.ObtainToken)
	api.POST("/token/refresh", users.RefreshToken)
	api.GET("/users/profile", requireAuth, users.GetProfile)
	api.PUT("/users/profile", requireAuth, users.UpdateProfile)

	// Books API endpoints; reads are public
	api.GET("/books", books.GetAllBooks)
	api.GET("/books/:id", books.GetBook)
	api.POST("/books", requireAuth, books.CreateBook)
	api.DELETE("/books/:id", requireAuth, books.DeleteBook)

	// Reading list endpoints
	rl := api.Group("/reading-lists", requireAuth)
	rl.GET("", lists.GetLists)
	rl.POST("", lists.CreateList)
	rl.GET("/:id", lists.GetList)
	rl.PUT("/:id", lists.RenameList)
	rl.DELETE("/:id", lists.DeleteList)
	rl.GET("/:id/items", lists.GetItems)
	rl.POST("/:id/items", lists.AddItem)
	rl.DELETE("/:id/items/:bookId", lists.RemoveItem)

	// Audit log endpoint
	if cfg.Audit != nil {
		auditController := NewAuditController(cfg.Audit)
		api.GET("/audit", requireAuth, auditController.GetAuditEvents)
	}

	return router
}
