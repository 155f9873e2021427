package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/keval2310/Expense-Manager/internal/models"

	bolt "go.etcd.io/bbolt"
)

// KVStore is the key-value adapter backed by bbolt. Every entity lives
// in its own bucket as id -> JSON; filtering, sorting and pagination
// happen in process after a bucket scan.
type KVStore struct {
	db *bolt.DB
}

var (
	bucketUsers         = []byte("users")
	bucketUserEmails    = []byte("user_emails") // lowercased email -> user id
	bucketCategories    = []byte("categories")
	bucketSubcategories = []byte("subcategories")
	bucketProjects      = []byte("projects")
	bucketTransactions  = []byte("transactions")
	bucketAuditLogs     = []byte("audit_logs")
)

func OpenKV(path string) (*KVStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open kv store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{
			bucketUsers, bucketUserEmails, bucketCategories,
			bucketSubcategories, bucketProjects, bucketTransactions,
			bucketAuditLogs,
		}
		for _, b := range buckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create buckets: %w", err)
	}
	return &KVStore{db: db}, nil
}

func put(tx *bolt.Tx, bucket []byte, id string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return tx.Bucket(bucket).Put([]byte(id), raw)
}

func get(tx *bolt.Tx, bucket []byte, id string, v interface{}) error {
	raw := tx.Bucket(bucket).Get([]byte(id))
	if raw == nil {
		return ErrNotFound
	}
	return json.Unmarshal(raw, v)
}

func del(tx *bolt.Tx, bucket []byte, id string) error {
	b := tx.Bucket(bucket)
	if b.Get([]byte(id)) == nil {
		return ErrNotFound
	}
	return b.Delete([]byte(id))
}

func paginate[T any](items []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ---------- users ----------

// touch fills creation timestamps the relational adapter gets from GORM.
func touch(createdAt, updatedAt *time.Time) {
	now := time.Now()
	if createdAt.IsZero() {
		*createdAt = now
	}
	if updatedAt.IsZero() {
		*updatedAt = now
	}
}

func (s *KVStore) CreateUser(ctx context.Context, u *models.User) error {
	touch(&u.CreatedAt, &u.UpdatedAt)
	return s.db.Update(func(tx *bolt.Tx) error {
		emailKey := []byte(strings.ToLower(u.Email))
		if tx.Bucket(bucketUserEmails).Get(emailKey) != nil {
			return ErrConflict
		}
		if err := tx.Bucket(bucketUserEmails).Put(emailKey, []byte(u.ID)); err != nil {
			return err
		}
		return put(tx, bucketUsers, u.ID, u)
	})
}

func (s *KVStore) UserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.db.View(func(tx *bolt.Tx) error {
		return get(tx, bucketUsers, id, &u)
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *KVStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.View(func(tx *bolt.Tx) error {
		id := tx.Bucket(bucketUserEmails).Get([]byte(strings.ToLower(email)))
		if id == nil {
			return ErrNotFound
		}
		return get(tx, bucketUsers, string(id), &u)
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *KVStore) UpdateUser(ctx context.Context, u *models.User) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		var old models.User
		if err := get(tx, bucketUsers, u.ID, &old); err != nil {
			return err
		}
		oldKey := []byte(strings.ToLower(old.Email))
		newKey := []byte(strings.ToLower(u.Email))
		if string(oldKey) != string(newKey) {
			if owner := tx.Bucket(bucketUserEmails).Get(newKey); owner != nil && string(owner) != u.ID {
				return ErrConflict
			}
			if err := tx.Bucket(bucketUserEmails).Delete(oldKey); err != nil {
				return err
			}
			if err := tx.Bucket(bucketUserEmails).Put(newKey, []byte(u.ID)); err != nil {
				return err
			}
		}
		u.UpdatedAt = time.Now()
		return put(tx, bucketUsers, u.ID, u)
	})
}

func (s *KVStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketUsers).ForEach(func(_, raw []byte) error {
			var u models.User
			if err := json.Unmarshal(raw, &u); err != nil {
				return err
			}
			users = append(users, u)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

func (s *KVStore) DemoteAdminsExcept(ctx context.Context, keepID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUsers)
		var demote []models.User
		err := b.ForEach(func(_, raw []byte) error {
			var u models.User
			if err := json.Unmarshal(raw, &u); err != nil {
				return err
			}
			if u.Role == models.RoleAdmin && u.ID != keepID {
				demote = append(demote, u)
			}
			return nil
		})
		if err != nil {
			return err
		}
		for i := range demote {
			demote[i].Role = models.RoleUser
			demote[i].UpdatedAt = time.Now()
			if err := put(tx, bucketUsers, demote[i].ID, &demote[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// ---------- categories ----------

func (s *KVStore) CreateCategory(ctx context.Context, c *models.Category) error {
	touch(&c.CreatedAt, &c.UpdatedAt)
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketCategories, c.ID, c)
	})
}

func (s *KVStore) CategoryByID(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	err := s.db.View(func(tx *bolt.Tx) error {
		return get(tx, bucketCategories, id, &c)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *KVStore) UpdateCategory(ctx context.Context, c *models.Category) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketCategories).Get([]byte(c.ID)) == nil {
			return ErrNotFound
		}
		c.UpdatedAt = time.Now()
		return put(tx, bucketCategories, c.ID, c)
	})
}

func (s *KVStore) DeleteCategory(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketCategories).Get([]byte(id)) == nil {
			return ErrNotFound
		}

		// detach subcategories under the category
		detached := map[string]bool{}
		var subs []models.Subcategory
		err := tx.Bucket(bucketSubcategories).ForEach(func(_, raw []byte) error {
			var sc models.Subcategory
			if err := json.Unmarshal(raw, &sc); err != nil {
				return err
			}
			if sc.CategoryID != nil && *sc.CategoryID == id {
				detached[sc.ID] = true
				sc.CategoryID = nil
				subs = append(subs, sc)
			}
			return nil
		})
		if err != nil {
			return err
		}
		for i := range subs {
			if err := put(tx, bucketSubcategories, subs[i].ID, &subs[i]); err != nil {
				return err
			}
		}

		// detach transactions referencing the category or its subcategories
		var txs []models.Transaction
		err = tx.Bucket(bucketTransactions).ForEach(func(_, raw []byte) error {
			var t models.Transaction
			if err := json.Unmarshal(raw, &t); err != nil {
				return err
			}
			changed := false
			if t.CategoryID != nil && *t.CategoryID == id {
				t.CategoryID = nil
				changed = true
			}
			if t.SubcategoryID != nil && detached[*t.SubcategoryID] {
				t.SubcategoryID = nil
				changed = true
			}
			if changed {
				txs = append(txs, t)
			}
			return nil
		})
		if err != nil {
			return err
		}
		for i := range txs {
			if err := put(tx, bucketTransactions, txs[i].ID, &txs[i]); err != nil {
				return err
			}
		}

		return tx.Bucket(bucketCategories).Delete([]byte(id))
	})
}

func (s *KVStore) ListCategories(ctx context.Context, kind models.Kind) ([]models.Category, error) {
	var cats []models.Category
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCategories).ForEach(func(_, raw []byte) error {
			var c models.Category
			if err := json.Unmarshal(raw, &c); err != nil {
				return err
			}
			if kind == "" || c.Type == kind {
				cats = append(cats, c)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].Name != cats[j].Name {
			return cats[i].Name < cats[j].Name
		}
		return cats[i].ID < cats[j].ID
	})
	return cats, nil
}

// categoryNames builds an id -> name map for search matching.
func categoryNames(tx *bolt.Tx) (map[string]string, error) {
	names := map[string]string{}
	err := tx.Bucket(bucketCategories).ForEach(func(_, raw []byte) error {
		var c models.Category
		if err := json.Unmarshal(raw, &c); err != nil {
			return err
		}
		names[c.ID] = c.Name
		return nil
	})
	return names, err
}

// ---------- subcategories ----------

func (s *KVStore) CreateSubcategory(ctx context.Context, sc *models.Subcategory) error {
	touch(&sc.CreatedAt, &sc.UpdatedAt)
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketSubcategories, sc.ID, sc)
	})
}

func (s *KVStore) SubcategoryByID(ctx context.Context, id string) (*models.Subcategory, error) {
	var sc models.Subcategory
	err := s.db.View(func(tx *bolt.Tx) error {
		return get(tx, bucketSubcategories, id, &sc)
	})
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *KVStore) UpdateSubcategory(ctx context.Context, sc *models.Subcategory) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketSubcategories).Get([]byte(sc.ID)) == nil {
			return ErrNotFound
		}
		sc.UpdatedAt = time.Now()
		return put(tx, bucketSubcategories, sc.ID, sc)
	})
}

func (s *KVStore) DeleteSubcategory(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		var txs []models.Transaction
		err := tx.Bucket(bucketTransactions).ForEach(func(_, raw []byte) error {
			var t models.Transaction
			if err := json.Unmarshal(raw, &t); err != nil {
				return err
			}
			if t.SubcategoryID != nil && *t.SubcategoryID == id {
				t.SubcategoryID = nil
				txs = append(txs, t)
			}
			return nil
		})
		if err != nil {
			return err
		}
		for i := range txs {
			if err := put(tx, bucketTransactions, txs[i].ID, &txs[i]); err != nil {
				return err
			}
		}
		return del(tx, bucketSubcategories, id)
	})
}

func (s *KVStore) ListSubcategories(ctx context.Context, categoryID string) ([]models.Subcategory, error) {
	var subs []models.Subcategory
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSubcategories).ForEach(func(_, raw []byte) error {
			var sc models.Subcategory
			if err := json.Unmarshal(raw, &sc); err != nil {
				return err
			}
			if categoryID == "" || (sc.CategoryID != nil && *sc.CategoryID == categoryID) {
				subs = append(subs, sc)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(subs, func(i, j int) bool {
		if subs[i].Name != subs[j].Name {
			return subs[i].Name < subs[j].Name
		}
		return subs[i].ID < subs[j].ID
	})
	return subs, nil
}

// ---------- projects ----------

func (s *KVStore) CreateProject(ctx context.Context, p *models.Project) error {
	touch(&p.CreatedAt, &p.UpdatedAt)
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketProjects, p.ID, p)
	})
}

func (s *KVStore) ProjectByID(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	err := s.db.View(func(tx *bolt.Tx) error {
		return get(tx, bucketProjects, id, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *KVStore) UpdateProject(ctx context.Context, p *models.Project) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketProjects).Get([]byte(p.ID)) == nil {
			return ErrNotFound
		}
		p.UpdatedAt = time.Now()
		return put(tx, bucketProjects, p.ID, p)
	})
}

func (s *KVStore) DeleteProject(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		var txs []models.Transaction
		err := tx.Bucket(bucketTransactions).ForEach(func(_, raw []byte) error {
			var t models.Transaction
			if err := json.Unmarshal(raw, &t); err != nil {
				return err
			}
			if t.ProjectID != nil && *t.ProjectID == id {
				t.ProjectID = nil
				txs = append(txs, t)
			}
			return nil
		})
		if err != nil {
			return err
		}
		for i := range txs {
			if err := put(tx, bucketTransactions, txs[i].ID, &txs[i]); err != nil {
				return err
			}
		}
		return del(tx, bucketProjects, id)
	})
}

func (s *KVStore) scanProjects(scope Scope, search string) ([]models.Project, error) {
	var projects []models.Project
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProjects).ForEach(func(_, raw []byte) error {
			var p models.Project
			if err := json.Unmarshal(raw, &p); err != nil {
				return err
			}
			if !scope.Matches(p.OwnerID) {
				return nil
			}
			if search != "" && !containsFold(p.Name, search) && !containsFold(p.Description, search) {
				return nil
			}
			projects = append(projects, p)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(projects, func(i, j int) bool {
		if !projects[i].StartDate.Equal(projects[j].StartDate) {
			return projects[i].StartDate.After(projects[j].StartDate)
		}
		return projects[i].ID > projects[j].ID
	})
	return projects, nil
}

func (s *KVStore) ListProjects(ctx context.Context, f ProjectFilter) ([]models.Project, int64, error) {
	page, limit := Normalize(f.Page, f.Limit)
	projects, err := s.scanProjects(f.Scope, strings.TrimSpace(f.Search))
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(projects))
	return paginate(projects, page, limit), total, nil
}

func (s *KVStore) AllProjects(ctx context.Context, scope Scope) ([]models.Project, error) {
	return s.scanProjects(scope, "")
}

// ---------- transactions ----------

func (s *KVStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	touch(&t.CreatedAt, &t.UpdatedAt)
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketTransactions, t.ID, t)
	})
}

func (s *KVStore) TransactionByID(ctx context.Context, id string) (*models.Transaction, error) {
	var t models.Transaction
	err := s.db.View(func(tx *bolt.Tx) error {
		return get(tx, bucketTransactions, id, &t)
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *KVStore) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketTransactions).Get([]byte(t.ID)) == nil {
			return ErrNotFound
		}
		t.UpdatedAt = time.Now()
		return put(tx, bucketTransactions, t.ID, t)
	})
}

func (s *KVStore) DeleteTransaction(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return del(tx, bucketTransactions, id)
	})
}

func (s *KVStore) ListTransactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, int64, error) {
	page, limit := Normalize(f.Page, f.Limit)
	search := strings.TrimSpace(f.Search)

	var txs []models.Transaction
	err := s.db.View(func(tx *bolt.Tx) error {
		var names map[string]string
		if search != "" {
			var err error
			if names, err = categoryNames(tx); err != nil {
				return err
			}
		}
		return tx.Bucket(bucketTransactions).ForEach(func(_, raw []byte) error {
			var t models.Transaction
			if err := json.Unmarshal(raw, &t); err != nil {
				return err
			}
			if f.Kind != "" && t.Kind != f.Kind {
				return nil
			}
			if !f.Matches(t.UserID) {
				return nil
			}
			if search != "" {
				catName := ""
				if t.CategoryID != nil {
					catName = names[*t.CategoryID]
				}
				if !containsFold(t.Remarks, search) && !containsFold(catName, search) {
					return nil
				}
			}
			txs = append(txs, t)
			return nil
		})
	})
	if err != nil {
		return nil, 0, err
	}

	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.After(txs[j].Date)
		}
		return txs[i].ID > txs[j].ID
	})
	total := int64(len(txs))
	return paginate(txs, page, limit), total, nil
}

func (s *KVStore) AllTransactions(ctx context.Context, scope Scope) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTransactions).ForEach(func(_, raw []byte) error {
			var t models.Transaction
			if err := json.Unmarshal(raw, &t); err != nil {
				return err
			}
			if scope.Matches(t.UserID) {
				txs = append(txs, t)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.Before(txs[j].Date)
		}
		return txs[i].ID < txs[j].ID
	})
	return txs, nil
}

// ---------- audit ----------

func (s *KVStore) AppendAuditLog(ctx context.Context, l *models.AuditLog) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return put(tx, bucketAuditLogs, l.ID, l)
	})
}

func (s *KVStore) ListAuditLogs(ctx context.Context, f AuditFilter) ([]models.AuditLog, int64, error) {
	page, limit := Normalize(f.Page, f.Limit)

	var logs []models.AuditLog
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAuditLogs).ForEach(func(_, raw []byte) error {
			var l models.AuditLog
			if err := json.Unmarshal(raw, &l); err != nil {
				return err
			}
			if f.Matches(l.UserID) {
				logs = append(logs, l)
			}
			return nil
		})
	})
	if err != nil {
		return nil, 0, err
	}
	// ULID keys scan oldest-first; listings want newest-first
	sort.Slice(logs, func(i, j int) bool { return logs[i].ID > logs[j].ID })
	total := int64(len(logs))
	return paginate(logs, page, limit), total, nil
}

func (s *KVStore) Close() error {
	return s.db.Close()
}
