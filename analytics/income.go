package analytics

import (
	"errors"
	"strings"

	"budget/models"

	"github.com/shopspring/decimal"
)

// ErrInvalidIncome 收入金额或频率不合法
var ErrInvalidIncome = errors.New("收入金额必须大于 0，频率必须为 weekly/biweekly/monthly/yearly")

var (
	weeksPerYear      = decimal.NewFromInt(52)
	fortnightsPerYear = decimal.NewFromInt(26)
	monthsPerYear     = decimal.NewFromInt(12)
)

// MonthlyEquivalent 将单条收入折算为月收入
// 未知频率按月处理，不拒绝历史脏数据
func MonthlyEquivalent(amount decimal.Decimal, frequency string) decimal.Decimal {
	switch frequency {
	case models.FrequencyWeekly:
		return amount.Mul(weeksPerYear).Div(monthsPerYear)
	case models.FrequencyBiweekly:
		return amount.Mul(fortnightsPerYear).Div(monthsPerYear)
	case models.FrequencyYearly:
		return amount.Div(monthsPerYear)
	default:
		return amount
	}
}

// NormalizeMonthlyIncome 多个收入来源折算后累加，空列表返回 0
func NormalizeMonthlyIncome(incomes []models.Income) decimal.Decimal {
	total := decimal.Zero
	for _, in := range incomes {
		total = total.Add(MonthlyEquivalent(decimal.NewFromFloat(in.Amount), in.Frequency))
	}
	return total
}

// ValidateIncome 写入前校验收入
func ValidateIncome(amount float64, frequency string) error {
	if amount <= 0 || !models.IsValidFrequency(frequency) {
		return ErrInvalidIncome
	}
	return nil
}

// IncomeDescription 未填写描述时的默认描述
func IncomeDescription(source, frequency, description string) string {
	if d := strings.TrimSpace(description); d != "" {
		return d
	}
	return source + " - " + frequency + " income"
}
