package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/readinglists/internal/audit"
	"github.com/mrlokans/readinglists/internal/auth"
	"github.com/mrlokans/readinglists/internal/catalog"
	"github.com/mrlokans/readinglists/internal/database/books"
	dbrl "github.com/mrlokans/readinglists/internal/database/readinglists"
	"github.com/mrlokans/readinglists/internal/database/users"
	"github.com/mrlokans/readinglists/internal/http"
	"github.com/mrlokans/readinglists/internal/readinglists"
	"github.com/mrlokans/readinglists/internal/scheduler"
	"github.com/mrlokans/readinglists/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ readinglists.ListStore = (*dbrl.ListStore)(nil)
var _ readinglists.ItemManager = (*dbrl.ItemManager)(nil)
var _ catalog.BookRepository = (*books.Repository)(nil)
var _ auth.UserRepository = (*users.Repository)(nil)

// =============================================================================
// Services
// =============================================================================

var _ readinglists.BookCatalog = (*catalog.Service)(nil)
var _ readinglists.EventRecorder = (*audit.Service)(nil)
var _ catalog.EventRecorder = (*audit.Service)(nil)

// =============================================================================
// HTTP Boundary
// =============================================================================

var _ http.ReadingListService = (*readinglists.Service)(nil)
var _ http.BookCatalog = (*catalog.Service)(nil)
var _ http.UserService = (*auth.Service)(nil)
var _ http.AuditReader = (*audit.Service)(nil)
var _ http.AuthEventRecorder = (*audit.Service)(nil)
var _ http.LoginLimiter = (*auth.LoginLimiter)(nil)
var _ http.TaskQueueStatus = (*tasks.Client)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ catalog.MembershipPurger = (*tasks.Client)(nil)
var _ catalog.MembershipPurger = catalog.ImmediatePurger{}
var _ catalog.BookPurger = (*dbrl.ItemManager)(nil)
var _ tasks.BookMembershipPurger = (*dbrl.ItemManager)(nil)
var _ tasks.OrphanItemsCleaner = (*dbrl.ItemManager)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ tasks.MaintenanceRecorder = (*audit.Service)(nil)
var _ scheduler.MaintenanceRunner = tasks.QueuedMaintenance{}
var _ scheduler.MaintenanceRunner = tasks.InlineMaintenance{}
