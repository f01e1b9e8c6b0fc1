package models

import (
	"time"

	"gorm.io/gorm"
)

// 收入频率
const (
	FrequencyWeekly   = "weekly"
	FrequencyBiweekly = "biweekly"
	FrequencyMonthly  = "monthly"
	FrequencyYearly   = "yearly"
)

// Income 收入记录模型，同一用户可有多个来源，按月折算后累加
type Income struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"index;not null"`
	Amount      float64        `json:"amount" gorm:"type:decimal(10,2);not null"`
	Frequency   string         `json:"frequency" gorm:"size:20;not null;default:monthly"`
	Source      string         `json:"source" gorm:"size:100;not null"`
	Description string         `json:"description" gorm:"size:255"`
	Date        time.Time      `json:"date"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Income) TableName() string {
	return "incomes"
}

// Frequencies 允许写入的收入频率
func Frequencies() []string {
	return []string{FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyYearly}
}

// IsValidFrequency 校验收入频率
func IsValidFrequency(f string) bool {
	for _, v := range Frequencies() {
		if v == f {
			return true
		}
	}
	return false
}
