package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/keval2310/Expense-Manager/internal/database"
	"github.com/keval2310/Expense-Manager/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The suite runs every test against both adapters; business rules must
// not depend on which backend is configured.

func newSQLStore(t *testing.T) Store {
	t.Helper()
	db, err := gorm.Open(
		sqlite.Open(filepath.Join(t.TempDir(), "test.db")),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewSQL(db)
}

func newKVStore(t *testing.T) Store {
	t.Helper()
	st, err := OpenKV(filepath.Join(t.TempDir(), "test.bolt"))
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	return st
}

func runBackends(t *testing.T, fn func(t *testing.T, st Store)) {
	t.Run("sql", func(t *testing.T) {
		st := newSQLStore(t)
		defer st.Close()
		fn(t, st)
	})
	t.Run("kv", func(t *testing.T) {
		st := newKVStore(t)
		defer st.Close()
		fn(t, st)
	})
}

func mustCreateUser(t *testing.T, st Store, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		ID:           models.NewID(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: "x",
		Role:         role,
	}
	if err := st.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser(%s): %v", email, err)
	}
	return u
}

func mustCreateTx(t *testing.T, st Store, userID string, kind models.Kind, cents int64, date time.Time) *models.Transaction {
	t.Helper()
	trx := &models.Transaction{
		ID:          models.NewID(),
		Kind:        kind,
		UserID:      userID,
		Date:        date,
		AmountCents: cents,
	}
	if err := st.CreateTransaction(context.Background(), trx); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	return trx
}

func TestUserEmailUniqueness(t *testing.T) {
	runBackends(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		mustCreateUser(t, st, "bob@example.com", models.RoleUser)

		dup := &models.User{ID: models.NewID(), Name: "Dup", Email: "bob@example.com", PasswordHash: "x", Role: models.RoleUser}
		if err := st.CreateUser(ctx, dup); !errors.Is(err, ErrConflict) {
			t.Errorf("duplicate email error = %v, want ErrConflict", err)
		}

		// lookups ignore case
		got, err := st.UserByEmail(ctx, "BOB@Example.COM")
		if err != nil {
			t.Fatalf("UserByEmail mixed case: %v", err)
		}
		if got.Email != "bob@example.com" {
			t.Errorf("Email = %q", got.Email)
		}

		if _, err := st.UserByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
			t.Errorf("unknown email error = %v, want ErrNotFound", err)
		}
		if _, err := st.UserByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("unknown id error = %v, want ErrNotFound", err)
		}
	})
}

func TestDemoteAdminsExcept(t *testing.T) {
	runBackends(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		keep := mustCreateUser(t, st, "keep@example.com", models.RoleAdmin)
		other := mustCreateUser(t, st, "other@example.com", models.RoleAdmin)
		plain := mustCreateUser(t, st, "plain@example.com", models.RoleUser)

		if err := st.DemoteAdminsExcept(ctx, keep.ID); err != nil {
			t.Fatalf("DemoteAdminsExcept: %v", err)
		}

		for _, tc := range []struct {
			id   string
			want models.Role
		}{
			{keep.ID, models.RoleAdmin},
			{other.ID, models.RoleUser},
			{plain.ID, models.RoleUser},
		} {
			u, err := st.UserByID(ctx, tc.id)
			if err != nil {
				t.Fatalf("UserByID: %v", err)
			}
			if u.Role != tc.want {
				t.Errorf("role of %s = %s, want %s", u.Email, u.Role, tc.want)
			}
		}
	})
}

func TestListTransactionsScopeAndPaging(t *testing.T) {
	runBackends(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		alice := mustCreateUser(t, st, "alice@example.com", models.RoleUser)
		bob := mustCreateUser(t, st, "bob@example.com", models.RoleUser)

		base := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 5; i++ {
			mustCreateTx(t, st, alice.ID, models.KindExpense, int64(100*(i+1)), base.AddDate(0, 0, i))
		}
		mustCreateTx(t, st, alice.ID, models.KindIncome, 9999, base)
		mustCreateTx(t, st, bob.ID, models.KindExpense, 777, base)

		// scoped to alice, expenses only, 3 per page
		items, total, err := st.ListTransactions(ctx, TransactionFilter{
			Scope: Scope{UserID: alice.ID}, Kind: models.KindExpense, Page: 1, Limit: 3,
		})
		if err != nil {
			t.Fatalf("ListTransactions: %v", err)
		}
		if total != 5 || len(items) != 3 {
			t.Fatalf("page 1: total %d len %d, want 5 and 3", total, len(items))
		}
		// newest date first
		if !items[0].Date.After(items[1].Date) {
			t.Errorf("not sorted date descending: %v then %v", items[0].Date, items[1].Date)
		}

		items, total, err = st.ListTransactions(ctx, TransactionFilter{
			Scope: Scope{UserID: alice.ID}, Kind: models.KindExpense, Page: 2, Limit: 3,
		})
		if err != nil {
			t.Fatalf("ListTransactions page 2: %v", err)
		}
		if total != 5 || len(items) != 2 {
			t.Errorf("page 2: total %d len %d, want 5 and 2", total, len(items))
		}

		// unrestricted scope sees both users
		_, total, err = st.ListTransactions(ctx, TransactionFilter{Kind: models.KindExpense})
		if err != nil {
			t.Fatalf("ListTransactions all: %v", err)
		}
		if total != 6 {
			t.Errorf("admin total = %d, want 6", total)
		}

		// incomes are a separate family
		_, total, err = st.ListTransactions(ctx, TransactionFilter{
			Scope: Scope{UserID: alice.ID}, Kind: models.KindIncome,
		})
		if err != nil {
			t.Fatalf("ListTransactions incomes: %v", err)
		}
		if total != 1 {
			t.Errorf("income total = %d, want 1", total)
		}
	})
}

func TestListTransactionsSearch(t *testing.T) {
	runBackends(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		u := mustCreateUser(t, st, "u@example.com", models.RoleUser)

		food := &models.Category{ID: models.NewID(), Name: "Groceries", Type: models.KindExpense, IsActive: true}
		if err := st.CreateCategory(ctx, food); err != nil {
			t.Fatalf("CreateCategory: %v", err)
		}

		date := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
		t1 := mustCreateTx(t, st, u.ID, models.KindExpense, 100, date)
		t1.Remarks = "taxi to airport"
		if err := st.UpdateTransaction(ctx, t1); err != nil {
			t.Fatalf("UpdateTransaction: %v", err)
		}
		t2 := mustCreateTx(t, st, u.ID, models.KindExpense, 200, date.AddDate(0, 0, 1))
		t2.CategoryID = &food.ID
		if err := st.UpdateTransaction(ctx, t2); err != nil {
			t.Fatalf("UpdateTransaction: %v", err)
		}

		tests := []struct {
			search string
			want   int64
		}{
			{"TAXI", 1},      // remarks, case-insensitive
			{"grocer", 1},    // category name
			{"airport", 1},
			{"nothing", 0},
			{"", 2},
		}
		for _, tc := range tests {
			_, total, err := st.ListTransactions(ctx, TransactionFilter{
				Scope: Scope{UserID: u.ID}, Kind: models.KindExpense, Search: tc.search,
			})
			if err != nil {
				t.Fatalf("search %q: %v", tc.search, err)
			}
			if total != tc.want {
				t.Errorf("search %q total = %d, want %d", tc.search, total, tc.want)
			}
		}
	})
}

func TestDeleteCategoryDetaches(t *testing.T) {
	runBackends(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		u := mustCreateUser(t, st, "u@example.com", models.RoleUser)

		cat := &models.Category{ID: models.NewID(), Name: "Food", Type: models.KindExpense, IsActive: true}
		if err := st.CreateCategory(ctx, cat); err != nil {
			t.Fatalf("CreateCategory: %v", err)
		}
		sub := &models.Subcategory{ID: models.NewID(), Name: "Snacks", CategoryID: &cat.ID, IsActive: true}
		if err := st.CreateSubcategory(ctx, sub); err != nil {
			t.Fatalf("CreateSubcategory: %v", err)
		}

		trx := mustCreateTx(t, st, u.ID, models.KindExpense, 500, time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC))
		trx.CategoryID = &cat.ID
		trx.SubcategoryID = &sub.ID
		if err := st.UpdateTransaction(ctx, trx); err != nil {
			t.Fatalf("UpdateTransaction: %v", err)
		}

		if err := st.DeleteCategory(ctx, cat.ID); err != nil {
			t.Fatalf("DeleteCategory: %v", err)
		}

		// subcategory survives, detached from the deleted parent
		gotSub, err := st.SubcategoryByID(ctx, sub.ID)
		if err != nil {
			t.Fatalf("SubcategoryByID after delete: %v", err)
		}
		if gotSub.CategoryID != nil {
			t.Errorf("subcategory still references deleted category %q", *gotSub.CategoryID)
		}

		// transaction survives with both references nulled
		gotTx, err := st.TransactionByID(ctx, trx.ID)
		if err != nil {
			t.Fatalf("TransactionByID after delete: %v", err)
		}
		if gotTx.CategoryID != nil || gotTx.SubcategoryID != nil {
			t.Errorf("transaction refs not detached: cat=%v sub=%v", gotTx.CategoryID, gotTx.SubcategoryID)
		}
		if gotTx.AmountCents != 500 {
			t.Errorf("transaction amount changed: %d", gotTx.AmountCents)
		}

		if err := st.DeleteCategory(ctx, cat.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("second delete error = %v, want ErrNotFound", err)
		}
	})
}

func TestDeleteProjectDetaches(t *testing.T) {
	runBackends(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		u := mustCreateUser(t, st, "u@example.com", models.RoleUser)

		p := &models.Project{
			ID:        models.NewID(),
			Name:      "Renovation",
			StartDate: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			Status:    models.ProjectActive,
			OwnerID:   u.ID,
		}
		if err := st.CreateProject(ctx, p); err != nil {
			t.Fatalf("CreateProject: %v", err)
		}

		trx := mustCreateTx(t, st, u.ID, models.KindExpense, 1000, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
		trx.ProjectID = &p.ID
		if err := st.UpdateTransaction(ctx, trx); err != nil {
			t.Fatalf("UpdateTransaction: %v", err)
		}

		if err := st.DeleteProject(ctx, p.ID); err != nil {
			t.Fatalf("DeleteProject: %v", err)
		}
		if _, err := st.ProjectByID(ctx, p.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("ProjectByID after delete = %v, want ErrNotFound", err)
		}

		gotTx, err := st.TransactionByID(ctx, trx.ID)
		if err != nil {
			t.Fatalf("TransactionByID: %v", err)
		}
		if gotTx.ProjectID != nil {
			t.Errorf("transaction still references deleted project %q", *gotTx.ProjectID)
		}
	})
}

func TestListProjectsScopeAndSearch(t *testing.T) {
	runBackends(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		alice := mustCreateUser(t, st, "alice@example.com", models.RoleUser)
		bob := mustCreateUser(t, st, "bob@example.com", models.RoleUser)

		start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
		for i, seed := range []struct {
			owner string
			name  string
		}{
			{alice.ID, "Kitchen remodel"},
			{alice.ID, "Garden"},
			{bob.ID, "Garage"},
		} {
			p := &models.Project{
				ID:        models.NewID(),
				Name:      seed.name,
				StartDate: start.AddDate(0, i, 0),
				Status:    models.ProjectActive,
				OwnerID:   seed.owner,
			}
			if err := st.CreateProject(ctx, p); err != nil {
				t.Fatalf("CreateProject: %v", err)
			}
		}

		items, total, err := st.ListProjects(ctx, ProjectFilter{Scope: Scope{UserID: alice.ID}})
		if err != nil {
			t.Fatalf("ListProjects: %v", err)
		}
		if total != 2 || len(items) != 2 {
			t.Errorf("alice projects = %d/%d, want 2/2", len(items), total)
		}
		// newest start date first
		if items[0].Name != "Garden" {
			t.Errorf("first project = %q, want Garden", items[0].Name)
		}

		_, total, err = st.ListProjects(ctx, ProjectFilter{})
		if err != nil {
			t.Fatalf("ListProjects all: %v", err)
		}
		if total != 3 {
			t.Errorf("admin total = %d, want 3", total)
		}

		items, _, err = st.ListProjects(ctx, ProjectFilter{Search: "gar"})
		if err != nil {
			t.Fatalf("ListProjects search: %v", err)
		}
		if len(items) != 2 {
			t.Errorf("search 'gar' = %d rows, want 2", len(items))
		}
	})
}

func TestListCategoriesByKind(t *testing.T) {
	runBackends(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		for i, kind := range []models.Kind{models.KindExpense, models.KindExpense, models.KindIncome} {
			c := &models.Category{ID: models.NewID(), Name: fmt.Sprintf("Cat%d", i), Type: kind, IsActive: true}
			if err := st.CreateCategory(ctx, c); err != nil {
				t.Fatalf("CreateCategory: %v", err)
			}
		}

		exp, err := st.ListCategories(ctx, models.KindExpense)
		if err != nil {
			t.Fatalf("ListCategories expense: %v", err)
		}
		if len(exp) != 2 {
			t.Errorf("expense categories = %d, want 2", len(exp))
		}
		all, err := st.ListCategories(ctx, "")
		if err != nil {
			t.Fatalf("ListCategories all: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("all categories = %d, want 3", len(all))
		}
	})
}

func TestAllTransactionsOrderedAscending(t *testing.T) {
	runBackends(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		u := mustCreateUser(t, st, "u@example.com", models.RoleUser)

		base := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
		mustCreateTx(t, st, u.ID, models.KindExpense, 300, base.AddDate(0, 0, 2))
		mustCreateTx(t, st, u.ID, models.KindExpense, 100, base)
		mustCreateTx(t, st, u.ID, models.KindIncome, 200, base.AddDate(0, 0, 1))

		txs, err := st.AllTransactions(ctx, Scope{UserID: u.ID})
		if err != nil {
			t.Fatalf("AllTransactions: %v", err)
		}
		if len(txs) != 3 {
			t.Fatalf("rows = %d, want 3", len(txs))
		}
		for i := 1; i < len(txs); i++ {
			if txs[i].Date.Before(txs[i-1].Date) {
				t.Errorf("not sorted ascending at %d", i)
			}
		}
	})
}

func TestAuditLogScope(t *testing.T) {
	runBackends(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		alice := mustCreateUser(t, st, "alice@example.com", models.RoleUser)
		bob := mustCreateUser(t, st, "bob@example.com", models.RoleUser)

		for i, uid := range []string{alice.ID, alice.ID, bob.ID} {
			l := &models.AuditLog{
				ID:     models.NewID(),
				UserID: uid,
				Method: "POST",
				Path:   fmt.Sprintf("/api/expenses?n=%d", i),
				IP:     "127.0.0.1",
			}
			if err := st.AppendAuditLog(ctx, l); err != nil {
				t.Fatalf("AppendAuditLog: %v", err)
			}
		}

		_, total, err := st.ListAuditLogs(ctx, AuditFilter{Scope: Scope{UserID: alice.ID}})
		if err != nil {
			t.Fatalf("ListAuditLogs: %v", err)
		}
		if total != 2 {
			t.Errorf("alice logs = %d, want 2", total)
		}
		_, total, err = st.ListAuditLogs(ctx, AuditFilter{})
		if err != nil {
			t.Fatalf("ListAuditLogs all: %v", err)
		}
		if total != 3 {
			t.Errorf("admin logs = %d, want 3", total)
		}
	})
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, 20},
		{-5, -1, 1, 20},
		{2, 50, 2, 50},
		{1, 101, 1, 20},
		{1, 100, 1, 100},
	}
	for _, tt := range tests {
		p, l := Normalize(tt.page, tt.limit)
		if p != tt.wantPage || l != tt.wantLimit {
			t.Errorf("Normalize(%d, %d) = %d, %d; want %d, %d",
				tt.page, tt.limit, p, l, tt.wantPage, tt.wantLimit)
		}
	}
}
