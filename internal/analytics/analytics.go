// Package analytics computes the read-only aggregations. All functions
// are pure: they take already role-scoped rows and aggregate in cents,
// converting to decimal amounts only at the edges so balances stay exact.
package analytics

import (
	"sort"
	"time"

	"github.com/keval2310/Expense-Manager/internal/models"
	"github.com/keval2310/Expense-Manager/internal/util"
)

// DashboardStats holds overall and current-calendar-month totals.
type DashboardStats struct {
	TotalExpenses float64 `json:"total_expenses"`
	TotalIncomes  float64 `json:"total_incomes"`
	Balance       float64 `json:"balance"`
	MonthExpenses float64 `json:"month_expenses"`
	MonthIncomes  float64 `json:"month_incomes"`
	MonthBalance  float64 `json:"month_balance"`
}

// Dashboard sums all rows plus the rows falling in now's calendar month.
func Dashboard(txs []models.Transaction, now time.Time) DashboardStats {
	var totalExp, totalInc, monthExp, monthInc int64

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	for i := range txs {
		t := &txs[i]
		inMonth := !t.Date.Before(monthStart) && t.Date.Before(monthEnd)
		if t.Kind == models.KindIncome {
			totalInc += t.AmountCents
			if inMonth {
				monthInc += t.AmountCents
			}
		} else {
			totalExp += t.AmountCents
			if inMonth {
				monthExp += t.AmountCents
			}
		}
	}

	return DashboardStats{
		TotalExpenses: util.FromCents(totalExp),
		TotalIncomes:  util.FromCents(totalInc),
		Balance:       util.FromCents(totalInc - totalExp),
		MonthExpenses: util.FromCents(monthExp),
		MonthIncomes:  util.FromCents(monthInc),
		MonthBalance:  util.FromCents(monthInc - monthExp),
	}
}

// CategoryTotal is one row of the category breakdown.
type CategoryTotal struct {
	CategoryID string  `json:"category_id"`
	Name       string  `json:"name"`
	Total      float64 `json:"total"`
	Count      int     `json:"count"`
}

// CategoryBreakdown groups transactions of one kind by category. Only
// categories with at least one matching transaction appear; rows whose
// category was deleted group under "Uncategorized".
func CategoryBreakdown(txs []models.Transaction, cats []models.Category, kind models.Kind) []CategoryTotal {
	names := make(map[string]string, len(cats))
	for i := range cats {
		names[cats[i].ID] = cats[i].Name
	}

	type sums struct {
		cents int64
		count int
	}
	byCat := map[string]*sums{}
	for i := range txs {
		t := &txs[i]
		if t.Kind != kind {
			continue
		}
		id := ""
		if t.CategoryID != nil {
			id = *t.CategoryID
		}
		s, ok := byCat[id]
		if !ok {
			s = &sums{}
			byCat[id] = s
		}
		s.cents += t.AmountCents
		s.count++
	}

	out := make([]CategoryTotal, 0, len(byCat))
	for id, s := range byCat {
		name := "Uncategorized"
		if id != "" {
			if n, ok := names[id]; ok {
				name = n
			}
		}
		out = append(out, CategoryTotal{
			CategoryID: id,
			Name:       name,
			Total:      util.FromCents(s.cents),
			Count:      s.count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// MonthBucket is one calendar month of the trend window.
type MonthBucket struct {
	Month    string  `json:"month"` // short name, e.g. "Sep"
	Year     int     `json:"year"`
	Expenses float64 `json:"expenses"`
	Incomes  float64 `json:"incomes"`
	Balance  float64 `json:"balance"`
}

// MonthlyTrends produces exactly months buckets, oldest first, ending at
// now's calendar month. Months without transactions report zero, so the
// window stays contiguous even over sparse data.
func MonthlyTrends(txs []models.Transaction, months int, now time.Time) []MonthBucket {
	if months < 1 {
		months = 1
	}

	type sums struct{ exp, inc int64 }
	byMonth := map[int]*sums{}
	key := func(t time.Time) int { return t.Year()*12 + int(t.Month()) - 1 }

	windowStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(months - 1), 0)

	for i := range txs {
		t := &txs[i]
		if t.Date.Before(windowStart) {
			continue
		}
		k := key(t.Date)
		if k > key(now) {
			continue
		}
		s, ok := byMonth[k]
		if !ok {
			s = &sums{}
			byMonth[k] = s
		}
		if t.Kind == models.KindIncome {
			s.inc += t.AmountCents
		} else {
			s.exp += t.AmountCents
		}
	}

	out := make([]MonthBucket, 0, months)
	for i := 0; i < months; i++ {
		m := windowStart.AddDate(0, i, 0)
		b := MonthBucket{Month: m.Format("Jan"), Year: m.Year()}
		if s, ok := byMonth[key(m)]; ok {
			b.Expenses = util.FromCents(s.exp)
			b.Incomes = util.FromCents(s.inc)
			b.Balance = util.FromCents(s.inc - s.exp)
		}
		out = append(out, b)
	}
	return out
}

// ProjectTotal is one row of the project breakdown.
type ProjectTotal struct {
	ProjectID    string               `json:"project_id"`
	Name         string               `json:"name"`
	Status       models.ProjectStatus `json:"status"`
	Expenses     float64              `json:"expenses"`
	Incomes      float64              `json:"incomes"`
	ExpenseCount int                  `json:"expense_count"`
	IncomeCount  int                  `json:"income_count"`
	Balance      float64              `json:"balance"`
}

// ProjectBreakdown totals expenses and incomes per project. Every
// project is listed, including those with no activity.
func ProjectBreakdown(txs []models.Transaction, projects []models.Project) []ProjectTotal {
	type sums struct {
		exp, inc           int64
		expCount, incCount int
	}
	byProject := map[string]*sums{}
	for i := range txs {
		t := &txs[i]
		if t.ProjectID == nil {
			continue
		}
		s, ok := byProject[*t.ProjectID]
		if !ok {
			s = &sums{}
			byProject[*t.ProjectID] = s
		}
		if t.Kind == models.KindIncome {
			s.inc += t.AmountCents
			s.incCount++
		} else {
			s.exp += t.AmountCents
			s.expCount++
		}
	}

	out := make([]ProjectTotal, 0, len(projects))
	for i := range projects {
		p := &projects[i]
		pt := ProjectTotal{ProjectID: p.ID, Name: p.Name, Status: p.Status}
		if s, ok := byProject[p.ID]; ok {
			pt.Expenses = util.FromCents(s.exp)
			pt.Incomes = util.FromCents(s.inc)
			pt.ExpenseCount = s.expCount
			pt.IncomeCount = s.incCount
			pt.Balance = util.FromCents(s.inc - s.exp)
		}
		out = append(out, pt)
	}
	return out
}
