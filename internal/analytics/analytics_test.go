package analytics

import (
	"testing"
	"time"

	"github.com/keval2310/Expense-Manager/internal/models"
)

func tx(kind models.Kind, cents int64, date time.Time, categoryID, projectID *string) models.Transaction {
	return models.Transaction{
		ID:          models.NewID(),
		Kind:        kind,
		UserID:      "u1",
		Date:        date,
		CategoryID:  categoryID,
		ProjectID:   projectID,
		AmountCents: cents,
	}
}

func strptr(s string) *string { return &s }

func TestDashboardEmpty(t *testing.T) {
	got := Dashboard(nil, time.Now())
	if got.Balance != 0 || got.TotalExpenses != 0 || got.TotalIncomes != 0 {
		t.Errorf("empty dashboard = %+v, want all zero", got)
	}
}

func TestDashboard(t *testing.T) {
	now := time.Date(2025, time.September, 15, 12, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2025, time.August, 10, 0, 0, 0, 0, time.UTC)
	thisMonth := time.Date(2025, time.September, 2, 0, 0, 0, 0, time.UTC)

	txs := []models.Transaction{
		tx(models.KindIncome, 500000, lastMonth, nil, nil),
		tx(models.KindExpense, 120050, lastMonth, nil, nil),
		tx(models.KindIncome, 300000, thisMonth, nil, nil),
		tx(models.KindExpense, 4250, thisMonth, nil, nil),
	}

	got := Dashboard(txs, now)
	if got.TotalIncomes != 8000 {
		t.Errorf("TotalIncomes = %v, want 8000", got.TotalIncomes)
	}
	if got.TotalExpenses != 1243 {
		t.Errorf("TotalExpenses = %v, want 1243", got.TotalExpenses)
	}
	if got.Balance != 6757 {
		t.Errorf("Balance = %v, want 6757", got.Balance)
	}
	if got.MonthIncomes != 3000 || got.MonthExpenses != 42.50 {
		t.Errorf("month totals = %v / %v, want 3000 / 42.5", got.MonthIncomes, got.MonthExpenses)
	}
	if got.MonthBalance != 2957.50 {
		t.Errorf("MonthBalance = %v, want 2957.5", got.MonthBalance)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	date := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	cats := []models.Category{
		{ID: "c1", Name: "Food", Type: models.KindExpense},
		{ID: "c2", Name: "Travel", Type: models.KindExpense},
		{ID: "c3", Name: "Unused", Type: models.KindExpense},
	}
	txs := []models.Transaction{
		tx(models.KindExpense, 1000, date, strptr("c1"), nil),
		tx(models.KindExpense, 2500, date, strptr("c1"), nil),
		tx(models.KindExpense, 500, date, strptr("c2"), nil),
		tx(models.KindExpense, 750, date, nil, nil),           // no category
		tx(models.KindExpense, 300, date, strptr("gone"), nil), // category deleted
		tx(models.KindIncome, 99999, date, strptr("c1"), nil),  // wrong kind, ignored
	}

	got := CategoryBreakdown(txs, cats, models.KindExpense)
	if len(got) != 4 {
		t.Fatalf("rows = %d, want 4 (unused category must not appear)", len(got))
	}
	// sorted by total descending
	if got[0].Name != "Food" || got[0].Total != 35 || got[0].Count != 2 {
		t.Errorf("top row = %+v, want Food 35.00 x2", got[0])
	}
	foundUncat := 0
	for _, row := range got {
		if row.Name == "Unused" {
			t.Error("category with no transactions listed")
		}
		if row.Name == "Uncategorized" {
			foundUncat++
		}
	}
	// both the nil category and the dangling id group as Uncategorized,
	// but under distinct ids
	if foundUncat != 2 {
		t.Errorf("Uncategorized rows = %d, want 2", foundUncat)
	}
}

func TestMonthlyTrends(t *testing.T) {
	now := time.Date(2025, time.September, 20, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		tx(models.KindExpense, 1000, time.Date(2025, time.September, 5, 0, 0, 0, 0, time.UTC), nil, nil),
		tx(models.KindIncome, 4000, time.Date(2025, time.July, 5, 0, 0, 0, 0, time.UTC), nil, nil),
		// outside the window, must be ignored
		tx(models.KindExpense, 99999, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), nil, nil),
	}

	got := MonthlyTrends(txs, 6, now)
	if len(got) != 6 {
		t.Fatalf("buckets = %d, want 6", len(got))
	}
	if got[0].Month != "Apr" || got[0].Year != 2025 {
		t.Errorf("first bucket = %s %d, want Apr 2025", got[0].Month, got[0].Year)
	}
	if got[5].Month != "Sep" || got[5].Year != 2025 {
		t.Errorf("last bucket = %s %d, want Sep 2025", got[5].Month, got[5].Year)
	}
	if got[5].Expenses != 10 || got[5].Balance != -10 {
		t.Errorf("Sep bucket = %+v, want expenses 10 balance -10", got[5])
	}
	if got[3].Incomes != 40 {
		t.Errorf("Jul bucket incomes = %v, want 40", got[3].Incomes)
	}
	// empty months are zero-filled, not skipped
	if got[1].Expenses != 0 || got[1].Incomes != 0 {
		t.Errorf("May bucket not zero: %+v", got[1])
	}
}

func TestMonthlyTrendsSpansYears(t *testing.T) {
	now := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	got := MonthlyTrends(nil, 4, now)
	if len(got) != 4 {
		t.Fatalf("buckets = %d, want 4", len(got))
	}
	if got[0].Month != "Nov" || got[0].Year != 2024 {
		t.Errorf("first bucket = %s %d, want Nov 2024", got[0].Month, got[0].Year)
	}
}

func TestProjectBreakdown(t *testing.T) {
	date := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	projects := []models.Project{
		{ID: "p1", Name: "Kitchen", Status: models.ProjectActive},
		{ID: "p2", Name: "Idle", Status: models.ProjectOnHold},
	}
	txs := []models.Transaction{
		tx(models.KindExpense, 5000, date, nil, strptr("p1")),
		tx(models.KindExpense, 2500, date, nil, strptr("p1")),
		tx(models.KindIncome, 10000, date, nil, strptr("p1")),
		tx(models.KindExpense, 123, date, nil, nil), // unattached, ignored
	}

	got := ProjectBreakdown(txs, projects)
	if len(got) != 2 {
		t.Fatalf("rows = %d, want 2 (idle project still listed)", len(got))
	}
	if got[0].Expenses != 75 || got[0].ExpenseCount != 2 {
		t.Errorf("p1 expenses = %v x%d, want 75 x2", got[0].Expenses, got[0].ExpenseCount)
	}
	if got[0].Incomes != 100 || got[0].Balance != 25 {
		t.Errorf("p1 incomes/balance = %v / %v, want 100 / 25", got[0].Incomes, got[0].Balance)
	}
	if got[1].ProjectID != "p2" || got[1].Expenses != 0 || got[1].IncomeCount != 0 {
		t.Errorf("idle project row = %+v, want all zero", got[1])
	}
}
