// Package report computes derived views over a user's transaction set:
// overall totals, expense breakdowns by category, and date-range reports
// with a per-day trend. All computations are read-only scans.
package report

import (
	"context"
	"sort"
	"time"

	"github.com/gitKrishh/finance-tracker/internal/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Totals summarizes a user's whole transaction set.
type Totals struct {
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
	Balance      float64 `json:"balance"`
}

// CategoryTotal is one row of the expense-by-category breakdown.
type CategoryTotal struct {
	Category    string  `json:"category"`
	TotalAmount float64 `json:"totalAmount"`
}

// TrendPoint holds summed income and expense for one calendar day.
type TrendPoint struct {
	Date    string  `json:"date"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// CategoryStat is one row of a report's category table.
type CategoryStat struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Count    int64   `json:"count"`
}

// Summary aggregates a report's whole date range.
type Summary struct {
	TotalIncome       float64 `json:"totalIncome"`
	TotalExpense      float64 `json:"totalExpense"`
	Balance           float64 `json:"balance"`
	TotalTransactions int64   `json:"totalTransactions"`
}

// Report combines the three range aggregations.
type Report struct {
	Trend      []TrendPoint   `json:"trend"`
	ByCategory []CategoryStat `json:"byCategory"`
	Summary    Summary        `json:"summary"`
}

// Engine runs aggregation queries scoped to a single owner.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

func centsToAmount(cents int64) float64 {
	return float64(cents) / 100
}

// Totals groups all of the owner's transactions by type and sums each group.
// A missing group contributes zero.
func (e *Engine) Totals(ctx context.Context, ownerID uint) (*Totals, error) {
	var rows []struct {
		Type  string
		Cents int64
	}
	err := e.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("type, COALESCE(SUM(amount_cents), 0) AS cents").
		Where("user_id = ?", ownerID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	t := &Totals{}
	for _, r := range rows {
		switch r.Type {
		case models.TypeIncome:
			t.TotalIncome = centsToAmount(r.Cents)
		case models.TypeExpense:
			t.TotalExpense = centsToAmount(r.Cents)
		}
	}
	t.Balance = t.TotalIncome - t.TotalExpense
	return t, nil
}

// CategoryBreakdown groups the owner's expense transactions by category and
// sums each group, sorted descending by amount.
func (e *Engine) CategoryBreakdown(ctx context.Context, ownerID uint) ([]CategoryTotal, error) {
	var rows []struct {
		Category string
		Cents    int64
	}
	err := e.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("category, COALESCE(SUM(amount_cents), 0) AS cents").
		Where("user_id = ? AND type = ?", ownerID, models.TypeExpense).
		Group("category").
		Order("cents DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]CategoryTotal, 0, len(rows))
	for _, r := range rows {
		out = append(out, CategoryTotal{Category: r.Category, TotalAmount: centsToAmount(r.Cents)})
	}
	return out, nil
}

// Report computes the trend, category, and summary aggregations for the
// owner over [start, endExclusive). The three scans are independent and run
// concurrently. An empty range yields an all-zero summary.
func (e *Engine) Report(ctx context.Context, ownerID uint, start, endExclusive time.Time) (*Report, error) {
	rep := &Report{
		Trend:      []TrendPoint{},
		ByCategory: []CategoryStat{},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		trend, err := e.trend(gctx, ownerID, start, endExclusive)
		if err != nil {
			return err
		}
		rep.Trend = trend
		return nil
	})

	g.Go(func() error {
		byCat, err := e.rangeCategories(gctx, ownerID, start, endExclusive)
		if err != nil {
			return err
		}
		rep.ByCategory = byCat
		return nil
	})

	g.Go(func() error {
		sum, err := e.rangeSummary(gctx, ownerID, start, endExclusive)
		if err != nil {
			return err
		}
		rep.Summary = *sum
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rep, nil
}

// trend buckets the range's transactions by calendar day, ascending. A day
// with only one type still carries both sums, the absent one as zero.
func (e *Engine) trend(ctx context.Context, ownerID uint, start, end time.Time) ([]TrendPoint, error) {
	var rows []struct {
		Type  string
		Cents int64
		Date  time.Time
	}
	err := e.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("type, amount_cents AS cents, date").
		Where("user_id = ? AND date >= ? AND date < ?", ownerID, start, end).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*TrendPoint)
	for _, r := range rows {
		day := r.Date.Format("2006-01-02")
		p, ok := buckets[day]
		if !ok {
			p = &TrendPoint{Date: day}
			buckets[day] = p
		}
		switch r.Type {
		case models.TypeIncome:
			p.Income += centsToAmount(r.Cents)
		case models.TypeExpense:
			p.Expense += centsToAmount(r.Cents)
		}
	}

	out := make([]TrendPoint, 0, len(buckets))
	for _, p := range buckets {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (e *Engine) rangeCategories(ctx context.Context, ownerID uint, start, end time.Time) ([]CategoryStat, error) {
	var rows []struct {
		Category string
		Cents    int64
		Count    int64
	}
	err := e.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("category, COALESCE(SUM(amount_cents), 0) AS cents, COUNT(*) AS count").
		Where("user_id = ? AND type = ? AND date >= ? AND date < ?",
			ownerID, models.TypeExpense, start, end).
		Group("category").
		Order("cents DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]CategoryStat, 0, len(rows))
	for _, r := range rows {
		out = append(out, CategoryStat{
			Category: r.Category,
			Amount:   centsToAmount(r.Cents),
			Count:    r.Count,
		})
	}
	return out, nil
}

func (e *Engine) rangeSummary(ctx context.Context, ownerID uint, start, end time.Time) (*Summary, error) {
	var row struct {
		IncomeCents  int64
		ExpenseCents int64
		Count        int64
	}
	err := e.db.WithContext(ctx).Model(&models.Transaction{}).
		Select(`COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END), 0) AS income_cents,
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount_cents ELSE 0 END), 0) AS expense_cents,
			COUNT(*) AS count`).
		Where("user_id = ? AND date >= ? AND date < ?", ownerID, start, end).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &Summary{
		TotalIncome:       centsToAmount(row.IncomeCents),
		TotalExpense:      centsToAmount(row.ExpenseCents),
		Balance:           centsToAmount(row.IncomeCents - row.ExpenseCents),
		TotalTransactions: row.Count,
	}, nil
}
