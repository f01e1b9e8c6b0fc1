package models

import "time"

// UserSettings 用户偏好，每次请求显式加载并传入分析/预测流程
// 布尔字段不设 gorm default，否则 false 在创建时会被默认值覆盖
type UserSettings struct {
	UserID             uint      `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	SmartSuggestions   bool      `json:"smart_suggestions"`
	AutoCategorization bool      `json:"auto_categorization"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (UserSettings) TableName() string {
	return "user_settings"
}

// DefaultUserSettings 未保存过设置的用户使用的默认值
func DefaultUserSettings(userID uint) UserSettings {
	return UserSettings{
		UserID:             userID,
		SmartSuggestions:   true,
		AutoCategorization: true,
	}
}
