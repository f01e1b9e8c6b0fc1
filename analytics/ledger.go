package analytics

//go:generate mockgen -source=ledger.go -destination=ledger_mock.go -package=analytics

import (
	"context"

	"budget/models"
)

// Ledger 账本存储，所有读写均按用户隔离
type Ledger interface {
	ListCategories(ctx context.Context, userID uint) ([]models.Category, error)
	ListIncomes(ctx context.Context, userID uint) ([]models.Income, error)
	// ListExpenses 返回 date 落在 [w.Start, w.End) 的消费
	ListExpenses(ctx context.Context, userID uint, w Window) ([]models.Expense, error)
	ListBudgetLimits(ctx context.Context, userID uint) ([]models.BudgetLimit, error)
	// UpsertBudgetLimit 按 (user_id, category_name) 插入或覆盖 limit_amount
	UpsertBudgetLimit(ctx context.Context, limit *models.BudgetLimit) error
}
