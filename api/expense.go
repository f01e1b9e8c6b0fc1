package api

import (
	"log"
	"strings"
	"time"

	"budget/config"
	"budget/database"
	"budget/middleware"
	"budget/models"
	"budget/service"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler 消费记录处理器
type ExpenseHandler struct {
	categories *CategoryHandler
}

// NewExpenseHandler 创建消费记录处理器
func NewExpenseHandler(cfg *config.Config) *ExpenseHandler {
	return &ExpenseHandler{categories: &CategoryHandler{predictor: service.NewCategoryPredictor(cfg.Predictor)}}
}

// CreateExpenseRequest 创建消费记录请求
// CategoryID 为空且 AutoCategorize 为 true 时，由服务端根据描述预测类别
type CreateExpenseRequest struct {
	Amount         *float64 `json:"amount" binding:"required,gte=0" example:"99.99"` // 允许 0
	CategoryID     *uint    `json:"category_id" example:"1"`
	AutoCategorize bool     `json:"auto_categorize" example:"false"`
	Description    string   `json:"description" binding:"max=255" example:"午餐"`
	Date           string   `json:"date" binding:"required" example:"2024-01-15"`
}

// UpdateExpenseRequest 更新消费记录请求
type UpdateExpenseRequest struct {
	Amount        *float64 `json:"amount" binding:"omitempty,gte=0" example:"99.99"`
	CategoryID    *uint    `json:"category_id" example:"1"`
	ClearCategory bool     `json:"clear_category" example:"false"` // 置为未分类（Other）
	Description   *string  `json:"description" binding:"omitempty,max=255" example:"午餐"`
	Date          string   `json:"date" example:"2024-01-15"`
}

// ExpenseListRequest 消费记录列表请求
type ExpenseListRequest struct {
	Page       int    `form:"page" example:"1"`
	PageSize   int    `form:"page_size" example:"10"`
	CategoryID uint   `form:"category_id" example:"1"`
	StartTime  string `form:"start_time" example:"2024-01-01"`
	EndTime    string `form:"end_time" example:"2024-12-31"`
}

// parseExpenseDate 支持 2006-01-02 与 2006-01-02 15:04:05
func parseExpenseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.Local); err == nil {
		return t, nil
	}
	return time.ParseInLocation(dateLayout, s, time.Local)
}

// Create 创建消费记录
// @Summary 创建消费记录
// @Description 创建一条新的消费记录。category_id 为空且 auto_categorize=true 时，若用户开启了自动分类，服务端会根据描述预测类别
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateExpenseRequest true "消费记录信息"
// @Success 200 {object} Response{data=models.Expense} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	date, err := parseExpenseDate(req.Date)
	if err != nil {
		BadRequest(c, "日期格式错误，应为: 2006-01-02")
		return
	}

	if req.CategoryID != nil {
		if _, err := userCategory(userID, *req.CategoryID); err != nil {
			BadRequest(c, "无效的消费类别")
			return
		}
	} else if req.AutoCategorize && strings.TrimSpace(req.Description) != "" {
		req.CategoryID, err = h.autoCategorize(c, userID, req.Description)
		if err != nil {
			InternalError(c, SafeErrorMessage(err, "自动分类失败"))
			return
		}
	}

	expense := models.Expense{
		UserID:      userID,
		Amount:      *req.Amount,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Date:        date,
	}

	if err := database.DB.Create(&expense).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建消费记录失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", expense)
}

// autoCategorize 用户开启自动分类时预测类别，未匹配返回 nil（归入 Other）
func (h *ExpenseHandler) autoCategorize(c *gin.Context, userID uint, description string) (*uint, error) {
	settings, err := loadUserSettings(database.DB, userID)
	if err != nil {
		return nil, err
	}
	if !settings.AutoCategorization {
		return nil, nil
	}

	var cats []models.Category
	if err := database.DB.Where("user_id = ?", userID).Order("id ASC").Find(&cats).Error; err != nil {
		return nil, err
	}

	result := h.categories.predict(c, description, cats)
	log.Printf("自动分类: user=%d description=%q category=%s", userID, description, result.Category)
	return result.CategoryID, nil
}

// List 获取消费记录列表
// @Summary 获取消费记录列表
// @Description 获取当前用户的消费记录列表，支持分页和筛选
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param category_id query int false "类别筛选"
// @Param start_time query string false "开始日期 (2024-01-01)"
// @Param end_time query string false "结束日期 (2024-12-31)，包含当天"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Expense}} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req ExpenseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	// 默认分页参数
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	query := database.DB.Model(&models.Expense{}).Where("user_id = ?", userID)

	if req.CategoryID != 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}

	// 时间范围筛选
	if req.StartTime != "" {
		if startTime, err := time.ParseInLocation(dateLayout, req.StartTime, time.Local); err == nil {
			query = query.Where("date >= ?", startTime)
		}
	}
	if req.EndTime != "" {
		if endTime, err := time.ParseInLocation(dateLayout, req.EndTime, time.Local); err == nil {
			// 包含结束日期当天
			query = query.Where("date < ?", endTime.AddDate(0, 0, 1))
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	var expenses []models.Expense
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("date DESC, id DESC").Offset(offset).Limit(req.PageSize).Find(&expenses).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     expenses,
	})
}

// Get 获取单条消费记录
// @Summary 获取单条消费记录
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "消费记录ID"
// @Success 200 {object} Response{data=models.Expense} "获取成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var expense models.Expense
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&expense).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	Success(c, expense)
}

// Update 更新消费记录
// @Summary 更新消费记录
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "消费记录ID"
// @Param request body UpdateExpenseRequest true "消费记录信息"
// @Success 200 {object} Response{data=models.Expense} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var expense models.Expense
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&expense).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	updates := make(map[string]interface{})
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	switch {
	case req.ClearCategory:
		updates["category_id"] = nil
	case req.CategoryID != nil:
		if _, err := userCategory(userID, *req.CategoryID); err != nil {
			BadRequest(c, "无效的消费类别")
			return
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Date != "" {
		date, err := parseExpenseDate(req.Date)
		if err != nil {
			BadRequest(c, "日期格式错误，应为: 2006-01-02")
			return
		}
		updates["date"] = date
	}
	if len(updates) == 0 {
		SuccessWithMessage(c, "无需更新", expense)
		return
	}

	if err := database.DB.Model(&expense).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}

	// 重新获取更新后的记录
	database.DB.First(&expense, expense.ID)
	SuccessWithMessage(c, "更新成功", expense)
}

// Delete 删除消费记录
// @Summary 删除消费记录
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "消费记录ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var expense models.Expense
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&expense).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	if err := database.DB.Delete(&expense).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
