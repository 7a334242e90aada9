package report

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/gitKrishh/finance-tracker/internal/config"
	"github.com/gitKrishh/finance-tracker/internal/database"
	"github.com/gitKrishh/finance-tracker/internal/models"
	"github.com/gitKrishh/finance-tracker/internal/store"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func seed(t *testing.T, db *gorm.DB, ownerID uint, typ, category string, amount float64, date time.Time) {
	t.Helper()
	_, err := store.NewTransactionStore(db).Create(ownerID, store.CreateInput{
		Description: category,
		Amount:      amount,
		Type:        typ,
		Category:    category,
		Date:        date,
	})
	require.NoError(t, err)
}

func TestTotals(t *testing.T) {
	db := newTestDB(t)
	e := NewEngine(db)
	ctx := context.Background()
	now := time.Now()

	seed(t, db, 1, models.TypeExpense, "Food", 100, now)
	seed(t, db, 1, models.TypeExpense, "Food", 50, now)
	seed(t, db, 1, models.TypeIncome, "Salary", 500, now)
	// another user's data must not leak in
	seed(t, db, 2, models.TypeIncome, "Salary", 9999, now)

	totals, err := e.Totals(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 500.0, totals.TotalIncome)
	require.Equal(t, 150.0, totals.TotalExpense)
	require.Equal(t, 350.0, totals.Balance)
}

func TestTotalsEmptySet(t *testing.T) {
	e := NewEngine(newTestDB(t))

	totals, err := e.Totals(context.Background(), 1)
	require.NoError(t, err)
	require.Zero(t, totals.TotalIncome)
	require.Zero(t, totals.TotalExpense)
	require.Zero(t, totals.Balance)
}

func TestTotalsPureFunctionOfSet(t *testing.T) {
	db := newTestDB(t)
	e := NewEngine(db)
	ctx := context.Background()

	seed(t, db, 1, models.TypeExpense, "Food", 30, time.Now())
	before, err := e.Totals(ctx, 1)
	require.NoError(t, err)

	seed(t, db, 1, models.TypeIncome, "Gift", 50, time.Now())
	after, err := e.Totals(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, before.TotalIncome+50, after.TotalIncome)
	require.Equal(t, before.Balance+50, after.Balance)
}

func TestCategoryBreakdown(t *testing.T) {
	db := newTestDB(t)
	e := NewEngine(db)
	now := time.Now()

	seed(t, db, 1, models.TypeExpense, "Food", 100, now)
	seed(t, db, 1, models.TypeExpense, "Food", 50, now)
	seed(t, db, 1, models.TypeExpense, "Transport", 40, now)
	// income never appears in the breakdown
	seed(t, db, 1, models.TypeIncome, "Salary", 500, now)

	breakdown, err := e.CategoryBreakdown(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, breakdown, 2)
	require.Equal(t, CategoryTotal{Category: "Food", TotalAmount: 150}, breakdown[0])
	require.Equal(t, CategoryTotal{Category: "Transport", TotalAmount: 40}, breakdown[1])

	// sorted strictly descending by summed amount
	for i := 1; i < len(breakdown); i++ {
		require.GreaterOrEqual(t, breakdown[i-1].TotalAmount, breakdown[i].TotalAmount)
	}
}

func TestReport(t *testing.T) {
	db := newTestDB(t)
	e := NewEngine(db)

	day1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 11, 14, 0, 0, 0, time.UTC)
	seed(t, db, 1, models.TypeIncome, "Salary", 500, day1)
	seed(t, db, 1, models.TypeExpense, "Food", 100, day1)
	seed(t, db, 1, models.TypeExpense, "Food", 50, day2)
	seed(t, db, 1, models.TypeExpense, "Transport", 20, day2)

	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	rep, err := e.Report(context.Background(), 1, start, end)
	require.NoError(t, err)

	// trend: one bucket per calendar day, ascending, both sums present
	require.Len(t, rep.Trend, 2)
	require.Equal(t, TrendPoint{Date: "2025-03-10", Income: 500, Expense: 100}, rep.Trend[0])
	require.Equal(t, TrendPoint{Date: "2025-03-11", Income: 0, Expense: 70}, rep.Trend[1])

	// byCategory: expenses only, descending, with counts
	require.Len(t, rep.ByCategory, 2)
	require.Equal(t, CategoryStat{Category: "Food", Amount: 150, Count: 2}, rep.ByCategory[0])
	require.Equal(t, CategoryStat{Category: "Transport", Amount: 20, Count: 1}, rep.ByCategory[1])

	require.Equal(t, Summary{
		TotalIncome:       500,
		TotalExpense:      170,
		Balance:           330,
		TotalTransactions: 4,
	}, rep.Summary)
}

func TestReportEndDateInclusive(t *testing.T) {
	db := newTestDB(t)
	e := NewEngine(db)

	// late on the end day, any time of day counts
	lastMinute := time.Date(2025, 3, 11, 23, 59, 0, 0, time.UTC)
	seed(t, db, 1, models.TypeExpense, "Food", 10, lastMinute)

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	endExclusive := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC) // endDate 2025-03-11 + 1 day
	rep, err := e.Report(context.Background(), 1, start, endExclusive)
	require.NoError(t, err)
	require.Equal(t, int64(1), rep.Summary.TotalTransactions)
	require.Equal(t, 10.0, rep.Summary.TotalExpense)
}

func TestReportEmptyRange(t *testing.T) {
	db := newTestDB(t)
	e := NewEngine(db)

	seed(t, db, 1, models.TypeExpense, "Food", 10, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	rep, err := e.Report(context.Background(), 1, start, end)
	require.NoError(t, err)

	// an empty range is all zeros, not an error
	require.Empty(t, rep.Trend)
	require.Empty(t, rep.ByCategory)
	require.Equal(t, Summary{}, rep.Summary)
}
