package store

import (
	"context"
	"errors"
	"strings"

	"github.com/keval2310/Expense-Manager/internal/models"

	"gorm.io/gorm"
)

// SQLStore is the relational adapter. It works against any GORM
// dialect; the service runs it on sqlite or postgres.
type SQLStore struct {
	db *gorm.DB
}

func NewSQL(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// ---------- users ----------

func (s *SQLStore) CreateUser(ctx context.Context, u *models.User) error {
	err := s.db.WithContext(ctx).Create(u).Error
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "unique") {
		return ErrConflict
	}
	return err
}

func (s *SQLStore) UserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *SQLStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *SQLStore) UpdateUser(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Save(u).Error
}

func (s *SQLStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&users).Error
	return users, err
}

func (s *SQLStore) DemoteAdminsExcept(ctx context.Context, keepID string) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ? AND id <> ?", models.RoleAdmin, keepID).
		Update("role", models.RoleUser).Error
}

// ---------- categories ----------

func (s *SQLStore) CreateCategory(ctx context.Context, c *models.Category) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *SQLStore) CategoryByID(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *SQLStore) UpdateCategory(ctx context.Context, c *models.Category) error {
	return s.db.WithContext(ctx).Save(c).Error
}

// DeleteCategory detaches every reference explicitly rather than relying
// on FK behavior, so sqlite and postgres act the same.
func (s *SQLStore) DeleteCategory(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subIDs := tx.Model(&models.Subcategory{}).Select("id").Where("category_id = ?", id)
		if err := tx.Model(&models.Transaction{}).
			Where("subcategory_id IN (?)", subIDs).
			Update("subcategory_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Transaction{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Subcategory{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Category{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *SQLStore) ListCategories(ctx context.Context, kind models.Kind) ([]models.Category, error) {
	q := s.db.WithContext(ctx).Model(&models.Category{})
	if kind != "" {
		q = q.Where("type = ?", kind)
	}
	var cats []models.Category
	err := q.Order("name ASC, id ASC").Find(&cats).Error
	return cats, err
}

// ---------- subcategories ----------

func (s *SQLStore) CreateSubcategory(ctx context.Context, sc *models.Subcategory) error {
	return s.db.WithContext(ctx).Create(sc).Error
}

func (s *SQLStore) SubcategoryByID(ctx context.Context, id string) (*models.Subcategory, error) {
	var sc models.Subcategory
	if err := s.db.WithContext(ctx).First(&sc, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &sc, nil
}

func (s *SQLStore) UpdateSubcategory(ctx context.Context, sc *models.Subcategory) error {
	return s.db.WithContext(ctx).Save(sc).Error
}

func (s *SQLStore) DeleteSubcategory(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Transaction{}).
			Where("subcategory_id = ?", id).
			Update("subcategory_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Subcategory{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *SQLStore) ListSubcategories(ctx context.Context, categoryID string) ([]models.Subcategory, error) {
	q := s.db.WithContext(ctx).Model(&models.Subcategory{})
	if categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}
	var subs []models.Subcategory
	err := q.Order("name ASC, id ASC").Find(&subs).Error
	return subs, err
}

// ---------- projects ----------

func (s *SQLStore) CreateProject(ctx context.Context, p *models.Project) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *SQLStore) ProjectByID(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *SQLStore) UpdateProject(ctx context.Context, p *models.Project) error {
	return s.db.WithContext(ctx).Save(p).Error
}

func (s *SQLStore) DeleteProject(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Transaction{}).
			Where("project_id = ?", id).
			Update("project_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Project{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *SQLStore) ListProjects(ctx context.Context, f ProjectFilter) ([]models.Project, int64, error) {
	page, limit := Normalize(f.Page, f.Limit)

	base := s.db.WithContext(ctx).Model(&models.Project{})
	if !f.All() {
		base = base.Where("owner_id = ?", f.UserID)
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		base = base.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	err := base.Session(&gorm.Session{}).
		Order("start_date DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&projects).Error
	return projects, total, err
}

func (s *SQLStore) AllProjects(ctx context.Context, scope Scope) ([]models.Project, error) {
	q := s.db.WithContext(ctx).Model(&models.Project{})
	if !scope.All() {
		q = q.Where("owner_id = ?", scope.UserID)
	}
	var projects []models.Project
	err := q.Order("start_date DESC, id DESC").Find(&projects).Error
	return projects, err
}

// ---------- transactions ----------

func (s *SQLStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *SQLStore) TransactionByID(ctx context.Context, id string) (*models.Transaction, error) {
	var t models.Transaction
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (s *SQLStore) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	return s.db.WithContext(ctx).Save(t).Error
}

func (s *SQLStore) DeleteTransaction(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Transaction{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) ListTransactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, int64, error) {
	page, limit := Normalize(f.Page, f.Limit)

	base := s.db.WithContext(ctx).Model(&models.Transaction{})
	if f.Kind != "" {
		base = base.Where("transactions.kind = ?", f.Kind)
	}
	if !f.All() {
		base = base.Where("transactions.user_id = ?", f.UserID)
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		base = base.
			Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
			Where("LOWER(transactions.remarks) LIKE ? OR LOWER(categories.name) LIKE ?", like, like)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txs []models.Transaction
	err := base.Session(&gorm.Session{}).
		Order("transactions.date DESC, transactions.id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&txs).Error
	return txs, total, err
}

func (s *SQLStore) AllTransactions(ctx context.Context, scope Scope) ([]models.Transaction, error) {
	q := s.db.WithContext(ctx).Model(&models.Transaction{})
	if !scope.All() {
		q = q.Where("user_id = ?", scope.UserID)
	}
	var txs []models.Transaction
	err := q.Order("date ASC, id ASC").Find(&txs).Error
	return txs, err
}

// ---------- audit ----------

func (s *SQLStore) AppendAuditLog(ctx context.Context, l *models.AuditLog) error {
	return s.db.WithContext(ctx).Create(l).Error
}

func (s *SQLStore) ListAuditLogs(ctx context.Context, f AuditFilter) ([]models.AuditLog, int64, error) {
	page, limit := Normalize(f.Page, f.Limit)

	base := s.db.WithContext(ctx).Model(&models.AuditLog{})
	if !f.All() {
		base = base.Where("user_id = ?", f.UserID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	err := base.Session(&gorm.Session{}).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&logs).Error
	return logs, total, err
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
