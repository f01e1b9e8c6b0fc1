package api

import (
	"strings"
	"time"

	"budget/analytics"
	"budget/database"
	"budget/middleware"
	"budget/models"

	"github.com/gin-gonic/gin"
)

// IncomeHandler 收入处理器
type IncomeHandler struct{}

func NewIncomeHandler() *IncomeHandler {
	return &IncomeHandler{}
}

type CreateIncomeRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"5000.00"`
	Frequency   string  `json:"frequency" binding:"required" example:"monthly"`
	Source      string  `json:"source" binding:"required,max=100" example:"工资"`
	Description string  `json:"description" binding:"max=255" example:""`
	Date        string  `json:"date" example:"2024-01-15"`
}

type UpdateIncomeRequest struct {
	Amount      float64 `json:"amount" binding:"omitempty,gt=0"`
	Frequency   string  `json:"frequency"`
	Source      string  `json:"source" binding:"max=100"`
	Description *string `json:"description" binding:"omitempty,max=255"`
	Date        string  `json:"date"`
}

type IncomeListRequest struct {
	Page      int    `form:"page" example:"1"`
	PageSize  int    `form:"page_size" example:"10"`
	Frequency string `form:"frequency" example:"monthly"`
}

// IncomeListResponse 收入列表，附带按月折算后的合计
type IncomeListResponse struct {
	PageResponse
	MonthlyIncome float64 `json:"monthly_income"`
}

// Create 创建收入
// @Summary 创建收入
// @Description 创建一条新的收入记录，frequency 取值 weekly/biweekly/monthly/yearly，描述为空时自动生成
// @Tags 收入
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateIncomeRequest true "收入信息"
// @Success 200 {object} Response{data=models.Income} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/incomes [post]
func (h *IncomeHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	var req CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	req.Frequency = strings.ToLower(strings.TrimSpace(req.Frequency))
	if err := analytics.ValidateIncome(req.Amount, req.Frequency); err != nil {
		BadRequest(c, err.Error())
		return
	}

	date := timeNow()
	if req.Date != "" {
		d, err := time.ParseInLocation(dateLayout, req.Date, time.Local)
		if err != nil {
			BadRequest(c, "日期格式错误，应为: 2006-01-02")
			return
		}
		date = d
	}

	income := models.Income{
		UserID:      userID,
		Amount:      req.Amount,
		Frequency:   req.Frequency,
		Source:      strings.TrimSpace(req.Source),
		Description: analytics.IncomeDescription(strings.TrimSpace(req.Source), req.Frequency, req.Description),
		Date:        date,
	}

	if err := database.DB.Create(&income).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建收入失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", income)
}

// List 获取收入列表
// @Summary 获取收入列表
// @Description 获取当前用户的收入记录，monthly_income 为全部收入按月折算后的合计
// @Tags 收入
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param frequency query string false "频率筛选"
// @Success 200 {object} Response{data=IncomeListResponse} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/incomes [get]
func (h *IncomeHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	var req IncomeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	var all []models.Income
	if err := database.DB.Where("user_id = ?", userID).Find(&all).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	monthly := analytics.NormalizeMonthlyIncome(all)

	query := database.DB.Model(&models.Income{}).Where("user_id = ?", userID)
	if req.Frequency != "" {
		query = query.Where("frequency = ?", req.Frequency)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	var incomes []models.Income
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("date DESC, id DESC").Offset(offset).Limit(req.PageSize).Find(&incomes).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, IncomeListResponse{
		PageResponse: PageResponse{
			Total:    total,
			Page:     req.Page,
			PageSize: req.PageSize,
			List:     incomes,
		},
		MonthlyIncome: monthly.Round(2).InexactFloat64(),
	})
}

// Get 获取单条收入
// @Summary 获取单条收入
// @Tags 收入
// @Produce json
// @Security BearerAuth
// @Param id path int true "收入ID"
// @Success 200 {object} Response{data=models.Income} "获取成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/incomes/{id} [get]
func (h *IncomeHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var income models.Income
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&income).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}
	Success(c, income)
}

// Update 更新收入
// @Summary 更新收入
// @Tags 收入
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "收入ID"
// @Param request body UpdateIncomeRequest true "收入信息"
// @Success 200 {object} Response{data=models.Income} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/incomes/{id} [put]
func (h *IncomeHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var income models.Income
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&income).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	var req UpdateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	amount := income.Amount
	if req.Amount > 0 {
		amount = req.Amount
	}
	frequency := income.Frequency
	if f := strings.ToLower(strings.TrimSpace(req.Frequency)); f != "" {
		frequency = f
	}
	if err := analytics.ValidateIncome(amount, frequency); err != nil {
		BadRequest(c, err.Error())
		return
	}

	updates := map[string]interface{}{
		"amount":    amount,
		"frequency": frequency,
	}
	if s := strings.TrimSpace(req.Source); s != "" {
		updates["source"] = s
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Date != "" {
		d, err := time.ParseInLocation(dateLayout, req.Date, time.Local)
		if err != nil {
			BadRequest(c, "日期格式错误，应为: 2006-01-02")
			return
		}
		updates["date"] = d
	}

	if err := database.DB.Model(&income).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}

	database.DB.First(&income, income.ID)
	SuccessWithMessage(c, "更新成功", income)
}

// Delete 删除收入
// @Summary 删除收入
// @Tags 收入
// @Produce json
// @Security BearerAuth
// @Param id path int true "收入ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/incomes/{id} [delete]
func (h *IncomeHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	result := database.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Income{})
	if result.Error != nil {
		InternalError(c, SafeErrorMessage(result.Error, "删除失败"))
		return
	}
	if result.RowsAffected == 0 {
		NotFound(c, "记录不存在")
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
