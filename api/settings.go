package api

import (
	"budget/database"
	"budget/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// SettingsHandler 用户设置处理器
type SettingsHandler struct{}

func NewSettingsHandler() *SettingsHandler {
	return &SettingsHandler{}
}

// UpdateSettingsRequest 未传的字段保持原值
type UpdateSettingsRequest struct {
	SmartSuggestions   *bool `json:"smart_suggestions" example:"true"`
	AutoCategorization *bool `json:"auto_categorization" example:"true"`
}

// Get 获取用户设置
// @Summary 获取用户设置
// @Tags 用户设置
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.UserSettings} "获取成功"
// @Router /api/v1/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := loadUserSettings(database.DB, middleware.GetCurrentUserID(c))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "读取用户设置失败"))
		return
	}
	Success(c, settings)
}

// Update 更新用户设置
// @Summary 更新用户设置
// @Description smart_suggestions 关闭后分析不再调用 AI 建议，auto_categorization 关闭后不再自动预测类别
// @Tags 用户设置
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateSettingsRequest true "用户设置"
// @Success 200 {object} Response{data=models.UserSettings} "更新成功"
// @Failure 400 {object} Response "参数错误"
// @Router /api/v1/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	settings, err := loadUserSettings(database.DB, userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "读取用户设置失败"))
		return
	}
	if req.SmartSuggestions != nil {
		settings.SmartSuggestions = *req.SmartSuggestions
	}
	if req.AutoCategorization != nil {
		settings.AutoCategorization = *req.AutoCategorization
	}
	settings.UpdatedAt = timeNow()

	err = database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"smart_suggestions", "auto_categorization", "updated_at"}),
	}).Create(&settings).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "保存用户设置失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", settings)
}
