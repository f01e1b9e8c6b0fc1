package analytics

import (
	"testing"
	"time"

	"budget/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func testCategories() []models.Category {
	return []models.Category{
		{ID: 1, UserID: 7, Name: "Food & Dining"},
		{ID: 2, UserID: 7, Name: "Transportation"},
		{ID: 3, UserID: 7, Name: "Rent"},
	}
}

func TestAggregate(t *testing.T) {
	expenses := []models.Expense{
		{Amount: 12.5, CategoryID: uintPtr(1), Date: day("2024-03-02 08:00")},
		{Amount: 30, CategoryID: uintPtr(2), Date: day("2024-03-01 18:30")},
		{Amount: 7.25, CategoryID: uintPtr(1), Date: day("2024-03-02 21:10")},
		{Amount: 40, CategoryID: nil, Date: day("2024-03-05 12:00")},
		{Amount: 9.99, CategoryID: uintPtr(99), Date: day("2024-03-05 13:00")},
	}

	agg := Aggregate(testCategories(), expenses)

	assert.Equal(t, []string{"Food & Dining", "Transportation", "Rent", models.CategoryOther}, agg.Categories)
	assert.Equal(t, "19.75", agg.Totals["Food & Dining"].StringFixed(2))
	assert.Equal(t, 2, agg.Counts["Food & Dining"])
	assert.Equal(t, "30.00", agg.Totals["Transportation"].StringFixed(2))
	assert.Equal(t, "49.99", agg.Totals[models.CategoryOther].StringFixed(2))
	assert.Equal(t, 2, agg.Counts[models.CategoryOther])

	// 有类别但无消费时仍以 0 出现
	assert.True(t, agg.Totals["Rent"].IsZero())
	assert.Equal(t, 0, agg.Counts["Rent"])

	require.Len(t, agg.Trend, 3)
	assert.Equal(t, "2024-03-01", agg.Trend[0].Date)
	assert.Equal(t, "2024-03-02", agg.Trend[1].Date)
	assert.Equal(t, "19.75", agg.Trend[1].Amount.StringFixed(2))
	assert.Equal(t, "2024-03-05", agg.Trend[2].Date)
}

func TestAggregate_TotalsMatchExpenseSum(t *testing.T) {
	expenses := []models.Expense{
		{Amount: 0.1, CategoryID: uintPtr(1), Date: day("2024-03-02 08:00")},
		{Amount: 0.2, CategoryID: uintPtr(2), Date: day("2024-03-03 08:00")},
		{Amount: 1234.56, CategoryID: nil, Date: day("2024-03-04 08:00")},
		{Amount: 0, CategoryID: uintPtr(3), Date: day("2024-03-04 09:00")},
	}

	agg := Aggregate(testCategories(), expenses)

	var byCategory decimal.Decimal
	for _, name := range agg.Categories {
		byCategory = byCategory.Add(agg.Totals[name])
	}
	var byDay decimal.Decimal
	for _, p := range agg.Trend {
		byDay = byDay.Add(p.Amount)
	}
	assert.Equal(t, "1234.86", agg.Total.StringFixed(2))
	assert.True(t, byCategory.Equal(agg.Total))
	assert.True(t, byDay.Equal(agg.Total))
}

func TestAggregate_NoExpenses(t *testing.T) {
	agg := Aggregate(testCategories(), nil)

	assert.Len(t, agg.Categories, 3)
	for _, name := range agg.Categories {
		assert.True(t, agg.Totals[name].IsZero())
	}
	assert.NotNil(t, agg.Trend)
	assert.Empty(t, agg.Trend)
	assert.True(t, agg.Total.IsZero())
}

func TestAverages(t *testing.T) {
	expenses := []models.Expense{
		{Amount: 10, CategoryID: uintPtr(1), Date: day("2024-03-02 08:00")},
		{Amount: 20, CategoryID: uintPtr(1), Date: day("2024-03-03 08:00")},
		{Amount: 5, CategoryID: uintPtr(2), Date: day("2024-03-03 09:00")},
	}

	avgs := Averages(Aggregate(testCategories(), expenses))
	require.Len(t, avgs, 3)

	assert.Equal(t, CategoryAverage{Category: "Food & Dining", Total: 30, Count: 2, Average: 15, ProjectedMonthly: 450}, avgs[0])
	assert.Equal(t, CategoryAverage{Category: "Transportation", Total: 5, Count: 1, Average: 5, ProjectedMonthly: 150}, avgs[1])
	assert.Equal(t, CategoryAverage{Category: "Rent"}, avgs[2])
}

func TestAggregate_SubCentAmounts(t *testing.T) {
	cats := []models.Category{
		{ID: 1, UserID: 7, Name: "A"},
		{ID: 2, UserID: 7, Name: "B"},
		{ID: 3, UserID: 7, Name: "C"},
	}
	expenses := []models.Expense{
		{Amount: 0.005, CategoryID: uintPtr(1), Date: day("2024-03-01 08:00")},
		{Amount: 0.005, CategoryID: uintPtr(2), Date: day("2024-03-01 09:00")},
		{Amount: 0.005, CategoryID: uintPtr(3), Date: day("2024-03-01 10:00")},
		{Amount: 1.234, CategoryID: uintPtr(1), Date: day("2024-03-02 10:00")},
	}

	agg := Aggregate(cats, expenses)

	sum := decimal.Zero
	for _, b := range Evaluate(agg, nil) {
		sum = sum.Add(decimal.NewFromFloat(b.Amount))
	}
	assert.True(t, agg.Total.Equal(decimal.RequireFromString("1.26")), agg.Total.String())
	assert.True(t, sum.Equal(agg.Total.Round(2)), "sum=%s total=%s", sum, agg.Total)
	require.Len(t, agg.Trend, 2)
	assert.True(t, agg.Trend[0].Amount.Equal(decimal.RequireFromString("0.03")))
}
