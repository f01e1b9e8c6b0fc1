package models

import "time"

// BudgetLimit 类别预算上限，每个 (用户, 类别) 至多一条
type BudgetLimit struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_limit_user_category,priority:1"`
	CategoryName string    `json:"category_name" gorm:"size:50;not null;uniqueIndex:idx_limit_user_category,priority:2"`
	LimitAmount  float64   `json:"limit_amount" gorm:"type:decimal(10,2);not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (BudgetLimit) TableName() string {
	return "budget_limits"
}
