package models

import (
	"time"

	"gorm.io/gorm"
)

// Expense 消费记录模型
// CategoryID 为空或指向不存在的类别时，统计中归入 CategoryOther
type Expense struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"index:idx_expense_user_date,priority:1;not null"`
	Amount      float64        `json:"amount" gorm:"type:decimal(10,2);not null"`
	CategoryID  *uint          `json:"category_id" gorm:"index"`
	Description string         `json:"description" gorm:"size:255"`
	Date        time.Time      `json:"date" gorm:"index:idx_expense_user_date,priority:2;not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (Expense) TableName() string {
	return "expenses"
}
