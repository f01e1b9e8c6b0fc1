package models

import (
	"time"
)

// CategoryOther 未分类消费的归集类别
const CategoryOther = "Other"

// Category 消费类别（按用户维护，同一用户下名称唯一）
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_category_user_name,priority:1"`
	Name      string    `json:"name" gorm:"size:50;not null;uniqueIndex:idx_category_user_name,priority:2"`
	Color     string    `json:"color" gorm:"size:20;default:#64748b"` // 颜色代码，如 #ef4444
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

// DefaultCategories 新用户注册时初始化的类别及颜色
func DefaultCategories() []Category {
	return []Category{
		{Name: "Food & Dining", Color: "#FF6B6B"},
		{Name: "Transportation", Color: "#4ECDC4"},
		{Name: "Shopping", Color: "#FFD93D"},
		{Name: "Entertainment", Color: "#95E1D3"},
		{Name: "Utilities", Color: "#6C5CE7"},
		{Name: "Health", Color: "#FF8B94"},
		{Name: "Travel", Color: "#A8E6CF"},
		{Name: "Education", Color: "#FFB6B9"},
	}
}
