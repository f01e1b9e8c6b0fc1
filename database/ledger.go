package database

import (
	"context"
	"fmt"

	"budget/analytics"
	"budget/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository 基于 gorm 的账本存储，所有查询都带 user_id 条件
type LedgerRepository struct {
	db *gorm.DB
}

var _ analytics.Ledger = (*LedgerRepository)(nil)

// NewLedgerRepository 创建账本存储
func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// ListCategories 按 id 顺序返回用户类别
func (r *LedgerRepository) ListCategories(ctx context.Context, userID uint) ([]models.Category, error) {
	var cats []models.Category
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("查询类别失败: %w", err)
	}
	return cats, nil
}

// ListIncomes 返回用户全部收入记录
func (r *LedgerRepository) ListIncomes(ctx context.Context, userID uint) ([]models.Income, error) {
	var incomes []models.Income
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&incomes).Error; err != nil {
		return nil, fmt.Errorf("查询收入失败: %w", err)
	}
	return incomes, nil
}

// ListExpenses 返回 [w.Start, w.End) 内的消费，按日期升序
func (r *LedgerRepository) ListExpenses(ctx context.Context, userID uint, w analytics.Window) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, w.Start, w.End).
		Order("date ASC").
		Find(&expenses).Error
	if err != nil {
		return nil, fmt.Errorf("查询消费记录失败: %w", err)
	}
	return expenses, nil
}

// ListBudgetLimits 返回用户全部预算上限
func (r *LedgerRepository) ListBudgetLimits(ctx context.Context, userID uint) ([]models.BudgetLimit, error) {
	var limits []models.BudgetLimit
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&limits).Error; err != nil {
		return nil, fmt.Errorf("查询预算上限失败: %w", err)
	}
	return limits, nil
}

// UpsertBudgetLimit 按 (user_id, category_name) 唯一键插入或覆盖金额，limit 回填为库中的记录
func (r *LedgerRepository) UpsertBudgetLimit(ctx context.Context, limit *models.BudgetLimit) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "category_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"limit_amount", "updated_at"}),
	}).Create(limit).Error
	if err != nil {
		return fmt.Errorf("保存预算上限失败: %w", err)
	}

	// ON DUPLICATE KEY UPDATE 命中已有行时回填的 ID 不可靠，重新读取
	var stored models.BudgetLimit
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND category_name = ?", limit.UserID, limit.CategoryName).
		First(&stored).Error
	if err != nil {
		return fmt.Errorf("读取预算上限失败: %w", err)
	}
	*limit = stored
	return nil
}
