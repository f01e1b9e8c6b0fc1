package analytics

import (
	"context"
	"fmt"
	"log"

	"budget/models"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// 建议类型
const (
	SuggestionWarning = "warning"
	SuggestionAlert   = "alert"
	SuggestionInfo    = "info"
)

// 建议来源
const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

// ReasonDisabled 用户关闭了智能建议
const ReasonDisabled = "disabled"

// FallbackMessage AI 建议不可用时返回的本地提示
const FallbackMessage = "AI 建议暂不可用，已使用基础计算结果"

// Suggestion 单条建议
type Suggestion struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// AdvisoryResult 建议结果，Source 区分 AI 成功与本地回退
type AdvisoryResult struct {
	Suggestions []Suggestion
	Source      string
	Reason      string
}

// FallbackResult 本地回退结果，始终包含一条提示
func FallbackResult(reason string) AdvisoryResult {
	return AdvisoryResult{
		Suggestions: []Suggestion{{Type: SuggestionInfo, Message: FallbackMessage}},
		Source:      SourceFallback,
		Reason:      reason,
	}
}

// Advisor 外部建议服务，失败时必须返回回退结果而不是错误
type Advisor interface {
	Advise(ctx context.Context, summary Summary) AdvisoryResult
}

// Summary 发送给建议服务的请求体
type Summary struct {
	FinancialData FinancialData `json:"financialData"`
}

// FinancialData 建议服务使用的财务摘要
type FinancialData struct {
	MonthlyIncome    float64            `json:"monthlyIncome"`
	CategorySpending map[string]float64 `json:"categorySpending"`
	Expenses         []ExpenseSummary   `json:"expenses"`
	BudgetLimits     map[string]float64 `json:"budgetLimits"`
	TotalExpenses    float64            `json:"totalExpenses"`
	RemainingBudget  float64            `json:"remainingBudget"`
}

// ExpenseSummary 摘要中的单笔消费
type ExpenseSummary struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
}

// DailySpend 趋势中的单日消费
type DailySpend struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// BudgetInsights 一次完整计算得到的分析结果，不持久化也不缓存
type BudgetInsights struct {
	StartDate         string              `json:"start_date"`
	EndDate           string              `json:"end_date"` // 不含
	MonthlyIncome     float64             `json:"monthly_income"`
	TotalExpenses     float64             `json:"total_expenses"`
	RemainingBudget   float64             `json:"remaining_budget"`
	SuggestedSavings  float64             `json:"suggested_savings"`
	HealthScore       float64             `json:"health_score"`
	HealthLabel       string              `json:"health_label"`
	CategoryBreakdown []CategoryBreakdown `json:"category_breakdown"`
	Trend             []DailySpend        `json:"trend"`
	Suggestions       []Suggestion        `json:"suggestions"`
	AdvisorySource    string              `json:"advisory_source"`
	AdvisoryReason    string              `json:"advisory_reason,omitempty"`
}

// OverBudget 返回超支的类别
func (b *BudgetInsights) OverBudget() []CategoryBreakdown {
	var out []CategoryBreakdown
	for _, c := range b.CategoryBreakdown {
		if c.OverBudget {
			out = append(out, c)
		}
	}
	return out
}

// Engine 预算分析引擎
type Engine struct {
	ledger  Ledger
	advisor Advisor
}

// NewEngine 创建分析引擎，advisor 为 nil 时只使用本地计算
func NewEngine(ledger Ledger, advisor Advisor) *Engine {
	return &Engine{ledger: ledger, advisor: advisor}
}

type snapshot struct {
	categories []models.Category
	incomes    []models.Income
	expenses   []models.Expense
	limits     []models.BudgetLimit
}

// load 并发读取四类数据，任一失败即返回错误
func (e *Engine) load(ctx context.Context, userID uint, w Window, withIncome bool) (*snapshot, error) {
	var s snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if s.categories, err = e.ledger.ListCategories(gctx, userID); err != nil {
			return fmt.Errorf("读取类别失败: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if s.expenses, err = e.ledger.ListExpenses(gctx, userID, w); err != nil {
			return fmt.Errorf("读取消费记录失败: %w", err)
		}
		return nil
	})
	if withIncome {
		g.Go(func() error {
			var err error
			if s.incomes, err = e.ledger.ListIncomes(gctx, userID); err != nil {
				return fmt.Errorf("读取收入失败: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			if s.limits, err = e.ledger.ListBudgetLimits(gctx, userID); err != nil {
				return fmt.Errorf("读取预算上限失败: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Compute 计算窗口内的预算分析结果
// 读取失败返回错误；建议服务失败只会让结果回退为本地提示
func (e *Engine) Compute(ctx context.Context, userID uint, w Window, settings models.UserSettings) (*BudgetInsights, error) {
	s, err := e.load(ctx, userID, w, true)
	if err != nil {
		return nil, err
	}

	income := NormalizeMonthlyIncome(s.incomes).Round(2)
	agg := Aggregate(s.categories, s.expenses)
	total := agg.Total.Round(2)
	remaining := income.Sub(total)
	health := Score(income, total)
	limits := LimitsByCategory(s.limits)

	insights := &BudgetInsights{
		StartDate:         w.Start.Format(dayLayout),
		EndDate:           w.End.Format(dayLayout),
		MonthlyIncome:     money(income),
		TotalExpenses:     money(total),
		RemainingBudget:   money(remaining),
		SuggestedSavings:  money(health.SuggestedSavings),
		HealthScore:       money(health.Score),
		CategoryBreakdown: Evaluate(agg, limits),
		Trend:             make([]DailySpend, 0, len(agg.Trend)),
	}
	insights.HealthLabel = HealthLabel(insights.HealthScore)
	for _, p := range agg.Trend {
		insights.Trend = append(insights.Trend, DailySpend{Date: p.Date, Amount: money(p.Amount)})
	}

	var advice AdvisoryResult
	switch {
	case !settings.SmartSuggestions:
		advice = FallbackResult(ReasonDisabled)
	case e.advisor == nil:
		advice = FallbackResult("not_configured")
	default:
		summary := BuildSummary(s.categories, s.expenses, agg, limits, income, total, remaining)
		advice = e.advisor.Advise(ctx, summary)
		if len(advice.Suggestions) == 0 {
			log.Printf("建议服务返回空结果，使用本地回退 (user=%d)", userID)
			advice = FallbackResult(advice.Reason)
		}
	}
	insights.Suggestions = advice.Suggestions
	insights.AdvisorySource = advice.Source
	insights.AdvisoryReason = advice.Reason

	return insights, nil
}

// CategoryAverages 窗口内各类别平均单笔消费
func (e *Engine) CategoryAverages(ctx context.Context, userID uint, w Window) ([]CategoryAverage, error) {
	s, err := e.load(ctx, userID, w, false)
	if err != nil {
		return nil, err
	}
	return Averages(Aggregate(s.categories, s.expenses)), nil
}

// BuildSummary 构建建议服务请求体
func BuildSummary(categories []models.Category, expenses []models.Expense, agg Aggregation, limits map[string]decimal.Decimal, income, total, remaining decimal.Decimal) Summary {
	names := categoryNames(categories)

	data := FinancialData{
		MonthlyIncome:    money(income),
		CategorySpending: make(map[string]float64, len(agg.Categories)),
		Expenses:         make([]ExpenseSummary, 0, len(expenses)),
		BudgetLimits:     make(map[string]float64, len(limits)),
		TotalExpenses:    money(total),
		RemainingBudget:  money(remaining),
	}
	for _, name := range agg.Categories {
		data.CategorySpending[name] = money(agg.Totals[name])
	}
	for name, limit := range limits {
		data.BudgetLimits[name] = money(limit)
	}
	for _, ex := range expenses {
		data.Expenses = append(data.Expenses, ExpenseSummary{
			Amount:      ex.Amount,
			Category:    resolveCategory(names, ex),
			Date:        ex.Date.Format(dayLayout),
			Description: ex.Description,
		})
	}

	return Summary{FinancialData: data}
}
