package api

import (
	"errors"

	"budget/analytics"
	"budget/database"
	"budget/middleware"
	"budget/models"

	"github.com/gin-gonic/gin"
)

// BudgetLimitHandler 类别预算上限处理器
type BudgetLimitHandler struct{}

func NewBudgetLimitHandler() *BudgetLimitHandler {
	return &BudgetLimitHandler{}
}

// SetBudgetLimitRequest 设置预算上限请求
type SetBudgetLimitRequest struct {
	CategoryName string  `json:"category_name" binding:"required" example:"Food & Dining"`
	LimitAmount  float64 `json:"limit_amount" example:"500"`
}

// List 获取预算上限
// @Summary 获取类别预算上限
// @Description 未设置上限的类别在分析时按默认值 100 计算
// @Tags 预算上限
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.BudgetLimit} "获取成功"
// @Router /api/v1/budget-limits [get]
func (h *BudgetLimitHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var limits []models.BudgetLimit
	if err := database.DB.Where("user_id = ?", userID).Order("category_name ASC").Find(&limits).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, limits)
}

// Set 设置预算上限
// @Summary 设置类别预算上限
// @Description 按 (用户, 类别名) 写入或覆盖上限，金额必须大于 0
// @Tags 预算上限
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SetBudgetLimitRequest true "预算上限"
// @Success 200 {object} Response{data=models.BudgetLimit} "设置成功"
// @Failure 400 {object} Response "参数错误"
// @Router /api/v1/budget-limits [put]
func (h *BudgetLimitHandler) Set(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req SetBudgetLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	manager := analytics.NewLimitManager(database.NewLedgerRepository(database.DB))
	limit, err := manager.SetLimit(c.Request.Context(), userID, req.CategoryName, req.LimitAmount)
	if errors.Is(err, analytics.ErrInvalidLimit) {
		BadRequest(c, err.Error())
		return
	}
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "设置预算上限失败"))
		return
	}

	SuccessWithMessage(c, "设置成功", limit)
}
