// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Reading Lists
//
//   - ListStore: owner-scoped list persistence (internal/readinglists/service.go)
//   - ItemManager: ordered membership of books in a list (internal/readinglists/service.go)
//   - BookCatalog: book existence checks (internal/readinglists/service.go)
//
// ## Catalogue and Identity
//
//   - BookRepository: book persistence (internal/catalog/service.go)
//   - MembershipPurger: removal of a deleted book from all lists (internal/catalog/service.go)
//   - UserRepository: account persistence (internal/auth/service.go)
//
// ## HTTP Boundary
//
//   - ReadingListService, BookCatalog, UserService, AuditReader (internal/http)
//
// ## Background Work
//
//   - MaintenanceRunner: one maintenance pass (internal/scheduler/maintenance.go)
//   - BookMembershipPurger, OrphanItemsCleaner, AuditEventCleaner (internal/tasks)
//
// # Adding a New Database Domain
//
//  1. Create sub-package: internal/database/<domain>/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Take context.Context first in every method and use db.WithContext(ctx)
//
//  4. Add a compile-time check to checks.go:
//
//     var _ catalog.BookRepository = (*books.Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
