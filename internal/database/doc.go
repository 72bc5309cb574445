// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── readinglists/    # Reading lists and their ordered items
//	├── books/           # Book catalogue CRUD
//	├── audit/           # Audit trail
//	└── users/           # User management
//
// # Using Sub-packages
//
// Each sub-package provides a repository type built on the shared *gorm.DB:
//
//	db, err := database.NewDatabase("./books.db")
//
//	lists := readinglists.NewListStore(db.DB)
//	items := readinglists.NewItemManager(db.DB, false)
//	catalog := books.NewRepository(db.DB)
//
// # Constraints
//
// Uniqueness invariants ((user, list name) and (list, book)) are enforced by
// unique indexes declared on the entities. Repositories insert and translate
// the resulting constraint error with IsUniqueViolation instead of checking
// for duplicates first.
package database
