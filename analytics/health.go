package analytics

import "github.com/shopspring/decimal"

var (
	scoreSlope  = decimal.NewFromInt(50)
	savingsRate = decimal.NewFromFloat(0.2)
	scoreMax    = decimal.NewFromInt(100)
)

// Health 财务健康度
type Health struct {
	ExpenseRatio     decimal.Decimal
	SuggestedSavings decimal.Decimal
	Score            decimal.Decimal
}

// Score 根据月收入和总支出计算健康分与建议储蓄
// 月收入为 0 时以 1 作为除数，分数结果限制在 [0,100]
func Score(monthlyIncome, totalExpenses decimal.Decimal) Health {
	denom := monthlyIncome
	if denom.IsZero() {
		denom = decimal.NewFromInt(1)
	}
	ratio := totalExpenses.Div(denom)

	score := scoreMax.Sub(ratio.Mul(scoreSlope))
	if score.LessThan(decimal.Zero) {
		score = decimal.Zero
	}
	if score.GreaterThan(scoreMax) {
		score = scoreMax
	}

	return Health{
		ExpenseRatio:     ratio,
		SuggestedSavings: monthlyIncome.Mul(savingsRate),
		Score:            score.Round(2),
	}
}

// HealthLabel 健康分对应的文字描述
func HealthLabel(score float64) string {
	switch {
	case score >= 70:
		return "财务状况良好"
	case score >= 40:
		return "仍有改进空间"
	default:
		return "需要关注"
	}
}
