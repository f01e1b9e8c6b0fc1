package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"budget/models"

	"github.com/shopspring/decimal"
)

// DefaultLimit 未设置预算上限的类别使用的默认上限，仅用于进度展示
const DefaultLimit = 100

// ErrInvalidLimit 预算上限不合法（金额需大于 0，类别不能为空）
var ErrInvalidLimit = errors.New("预算上限必须大于 0 且类别不能为空")

var (
	defaultLimit = decimal.NewFromInt(DefaultLimit)
	hundred      = decimal.NewFromInt(100)
)

// CategoryBreakdown 单个类别的消费与预算对比
type CategoryBreakdown struct {
	Category      string  `json:"category"`
	Amount        float64 `json:"amount"`
	Count         int     `json:"count"`
	Limit         float64 `json:"limit"`
	OverBudget    bool    `json:"over_budget"`
	OverageAmount float64 `json:"overage_amount"`
	Progress      float64 `json:"progress"`
}

// LimitsByCategory 将预算上限记录转换为 类别 -> 上限
// 非正数上限视为未设置，回退到默认上限
func LimitsByCategory(limits []models.BudgetLimit) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(limits))
	for _, l := range limits {
		amount := decimal.NewFromFloat(l.LimitAmount)
		if !amount.IsPositive() {
			continue
		}
		out[l.CategoryName] = amount
	}
	return out
}

// Evaluate 逐类别计算是否超支、超支金额和进度百分比
func Evaluate(agg Aggregation, limits map[string]decimal.Decimal) []CategoryBreakdown {
	out := make([]CategoryBreakdown, 0, len(agg.Categories))
	for _, name := range agg.Categories {
		amount := agg.Totals[name]
		limit, ok := limits[name]
		if !ok {
			limit = defaultLimit
		}

		overage := amount.Sub(limit)
		if overage.IsNegative() {
			overage = decimal.Zero
		}

		out = append(out, CategoryBreakdown{
			Category:      name,
			Amount:        money(amount),
			Count:         agg.Counts[name],
			Limit:         money(limit),
			OverBudget:    amount.GreaterThan(limit),
			OverageAmount: money(overage),
			Progress:      money(amount.Div(limit).Mul(hundred)),
		})
	}
	return out
}

// LimitManager 预算上限维护，每个 (用户, 类别) 至多一条
type LimitManager struct {
	ledger Ledger
}

// NewLimitManager 创建预算上限管理器
func NewLimitManager(ledger Ledger) *LimitManager {
	return &LimitManager{ledger: ledger}
}

// SetLimit 存在则覆盖金额，不存在则创建；并发写入以最后一次为准
func (m *LimitManager) SetLimit(ctx context.Context, userID uint, category string, amount float64) (*models.BudgetLimit, error) {
	category = strings.TrimSpace(category)
	if category == "" || amount <= 0 {
		return nil, ErrInvalidLimit
	}

	limit := &models.BudgetLimit{
		UserID:       userID,
		CategoryName: category,
		LimitAmount:  amount,
	}
	if err := m.ledger.UpsertBudgetLimit(ctx, limit); err != nil {
		return nil, fmt.Errorf("保存预算上限失败: %w", err)
	}
	return limit, nil
}
