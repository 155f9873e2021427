// Package store defines the storage adapter interface shared by the
// relational (GORM) and key-value (bbolt) backends. All business rules
// live above this interface so both backends behave identically.
package store

import (
	"context"
	"errors"

	"github.com/keval2310/Expense-Manager/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique constraint is violated.
	ErrConflict = errors.New("conflict")
)

// Scope restricts queries to rows owned by one user. The zero value is
// unrestricted and reserved for admin callers.
type Scope struct {
	UserID string
}

// ScopeFor returns the row scope for list and analytics queries:
// admins see everything, everyone else only their own rows.
func ScopeFor(u *models.User) Scope {
	if u != nil && u.IsAdmin() {
		return Scope{}
	}
	if u == nil {
		return Scope{UserID: "!"} // matches nothing
	}
	return Scope{UserID: u.ID}
}

func (s Scope) All() bool {
	return s.UserID == ""
}

// Matches reports whether a row owned by ownerID falls inside the scope.
func (s Scope) Matches(ownerID string) bool {
	return s.All() || s.UserID == ownerID
}

// TransactionFilter selects transactions for listing. Page/Limit of
// zero fall back to the adapter defaults (page 1, limit 20).
type TransactionFilter struct {
	Scope
	Kind   models.Kind
	Search string // contains match over remarks and category name
	Page   int
	Limit  int
}

// ProjectFilter selects projects for listing.
type ProjectFilter struct {
	Scope  // matched against OwnerID
	Search string // contains match over name and description
	Page   int
	Limit  int
}

// AuditFilter selects audit log entries.
type AuditFilter struct {
	Scope
	Page  int
	Limit int
}

// Store is the pluggable persistence backend.
type Store interface {
	// Users. Emails are matched case-insensitively; callers store them
	// lowercased.
	CreateUser(ctx context.Context, u *models.User) error
	UserByID(ctx context.Context, id string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)
	// DemoteAdminsExcept turns every admin other than keepID back into a
	// regular user (exactly-one-admin seeding).
	DemoteAdminsExcept(ctx context.Context, keepID string) error

	// Categories. Kind "" lists all types.
	CreateCategory(ctx context.Context, c *models.Category) error
	CategoryByID(ctx context.Context, id string) (*models.Category, error)
	UpdateCategory(ctx context.Context, c *models.Category) error
	// DeleteCategory detaches referencing subcategories and transactions
	// (SET NULL) before removing the row. It never cascades.
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context, kind models.Kind) ([]models.Category, error)

	// Subcategories. categoryID "" lists all.
	CreateSubcategory(ctx context.Context, s *models.Subcategory) error
	SubcategoryByID(ctx context.Context, id string) (*models.Subcategory, error)
	UpdateSubcategory(ctx context.Context, s *models.Subcategory) error
	DeleteSubcategory(ctx context.Context, id string) error
	ListSubcategories(ctx context.Context, categoryID string) ([]models.Subcategory, error)

	// Projects. Listings are sorted by start date descending.
	CreateProject(ctx context.Context, p *models.Project) error
	ProjectByID(ctx context.Context, id string) (*models.Project, error)
	UpdateProject(ctx context.Context, p *models.Project) error
	DeleteProject(ctx context.Context, id string) error
	ListProjects(ctx context.Context, f ProjectFilter) ([]models.Project, int64, error)
	AllProjects(ctx context.Context, scope Scope) ([]models.Project, error)

	// Transactions. Listings are sorted by date descending.
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	TransactionByID(ctx context.Context, id string) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	ListTransactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, int64, error)
	// AllTransactions returns every scoped row ordered by date ascending,
	// for the analytics aggregations.
	AllTransactions(ctx context.Context, scope Scope) ([]models.Transaction, error)

	// Audit trail.
	AppendAuditLog(ctx context.Context, l *models.AuditLog) error
	ListAuditLogs(ctx context.Context, f AuditFilter) ([]models.AuditLog, int64, error)

	Close() error
}

// Normalize clamps paging parameters to sane values.
func Normalize(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return page, limit
}
