package analytics

import (
	"sort"

	"budget/models"

	"github.com/shopspring/decimal"
)

const dayLayout = "2006-01-02"

// TrendPoint 单日消费合计
type TrendPoint struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// Aggregation 窗口内按类别、按日的消费汇总
type Aggregation struct {
	// Categories 类别名称，先按用户类别顺序，再按首次出现顺序追加未知类别（如 Other）
	Categories []string
	Totals     map[string]decimal.Decimal
	Counts     map[string]int
	Trend      []TrendPoint
	Total      decimal.Decimal
}

// Aggregate 汇总消费记录
// 已知类别即使没有消费也以 0 出现；category_id 为空或无法匹配的归入 Other。
// 按存储日期的日历日分组，不做时区转换，不补齐空缺日期。
func Aggregate(categories []models.Category, expenses []models.Expense) Aggregation {
	agg := Aggregation{
		Totals: make(map[string]decimal.Decimal, len(categories)+1),
		Counts: make(map[string]int, len(categories)+1),
		Trend:  []TrendPoint{},
		Total:  decimal.Zero,
	}

	names := categoryNames(categories)
	for _, c := range categories {
		agg.seed(c.Name)
	}

	daily := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		name := resolveCategory(names, e)
		agg.seed(name)

		// 按分入账，保证 Total 等于各类别金额之和
		amount := decimal.NewFromFloat(e.Amount).Round(2)
		agg.Totals[name] = agg.Totals[name].Add(amount)
		agg.Counts[name]++
		agg.Total = agg.Total.Add(amount)

		day := e.Date.Format(dayLayout)
		daily[day] = daily[day].Add(amount)
	}

	for day, amount := range daily {
		agg.Trend = append(agg.Trend, TrendPoint{Date: day, Amount: amount})
	}
	sort.Slice(agg.Trend, func(i, j int) bool {
		return agg.Trend[i].Date < agg.Trend[j].Date
	})

	return agg
}

func categoryNames(categories []models.Category) map[uint]string {
	names := make(map[uint]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names
}

// resolveCategory category_id 为空或不属于该用户时归入 Other
func resolveCategory(names map[uint]string, e models.Expense) string {
	if e.CategoryID != nil {
		if n, ok := names[*e.CategoryID]; ok {
			return n
		}
	}
	return models.CategoryOther
}

func (a *Aggregation) seed(name string) {
	if _, ok := a.Totals[name]; ok {
		return
	}
	a.Categories = append(a.Categories, name)
	a.Totals[name] = decimal.Zero
	a.Counts[name] = 0
}

// CategoryAverage 类别平均单笔消费
type CategoryAverage struct {
	Category         string  `json:"category"`
	Total            float64 `json:"total"`
	Count            int     `json:"count"`
	Average          float64 `json:"average"`
	ProjectedMonthly float64 `json:"projected_monthly"`
}

var projectionDays = decimal.NewFromInt(30)

// Averages 按类别计算平均单笔消费及 30 天预估（平均值 × 30），没有消费的类别平均为 0
func Averages(agg Aggregation) []CategoryAverage {
	out := make([]CategoryAverage, 0, len(agg.Categories))
	for _, name := range agg.Categories {
		total := agg.Totals[name]
		count := agg.Counts[name]
		avg := decimal.Zero
		if count > 0 {
			avg = total.Div(decimal.NewFromInt(int64(count)))
		}
		out = append(out, CategoryAverage{
			Category:         name,
			Total:            money(total),
			Count:            count,
			Average:          money(avg),
			ProjectedMonthly: money(avg.Mul(projectionDays)),
		})
	}
	return out
}

// money 对外输出统一保留两位小数（四舍五入，远离零）
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
