package http

import (
	"go.uber.org/zap"

	"github.com/mrlokans/readinglists/internal/auth"
	"github.com/mrlokans/readinglists/internal/database"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database     *database.Database
	ReadingLists ReadingListService
	Books        BookCatalog
	Users        UserService
	Audit        AuditReader

	// Authentication
	Tokens       *auth.TokenService
	LoginLimiter LoginLimiter
	AuthEvents   AuthEventRecorder
	EnableHSTS   bool // set when served over TLS

	// Task queue status (optional)
	Tasks TaskQueueStatus

	Logger *zap.Logger

	// Application info
	Version string
}
