package api

import (
	"strings"

	"budget/config"
	"budget/database"
	"budget/middleware"
	"budget/models"
	"budget/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CategoryHandler 消费类别（按用户维护）
type CategoryHandler struct {
	predictor *service.CategoryPredictor
}

func NewCategoryHandler(cfg *config.Config) *CategoryHandler {
	return &CategoryHandler{predictor: service.NewCategoryPredictor(cfg.Predictor)}
}

type CategoryCreateRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=50" example:"Food & Dining"`
	Color string `json:"color" binding:"omitempty,max=20" example:"#FF6B6B"` // 颜色代码
}

type CategoryUpdateRequest struct {
	Name  string  `json:"name" binding:"omitempty,min=1,max=50"`
	Color *string `json:"color" binding:"omitempty,max=20"`
}

// PredictCategoryRequest 类别预测请求
type PredictCategoryRequest struct {
	Description string `json:"description" binding:"required,max=255" example:"Uber ride home"`
}

// PredictCategoryResponse 类别预测结果
type PredictCategoryResponse struct {
	Category   string `json:"category"`
	CategoryID *uint  `json:"category_id"`
	Predicted  bool   `json:"predicted"` // 自动分类关闭时为 false
}

// List 获取当前用户类别
// @Summary 获取消费类别列表
// @Tags 消费类别
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Category} "获取成功"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var list []models.Category
	if err := database.DB.Where("user_id = ?", userID).Order("id ASC").Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, list)
}

// Create 创建类别
// @Summary 创建消费类别
// @Tags 消费类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryCreateRequest true "类别信息"
// @Success 200 {object} Response{data=models.Category} "创建成功"
// @Failure 400 {object} Response "参数错误或类别名称已存在"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "名称不能为空")
		return
	}

	// 同一用户下名称唯一
	var existing models.Category
	if err := database.DB.Where("user_id = ? AND name = ?", userID, req.Name).First(&existing).Error; err == nil {
		BadRequest(c, "类别名称已存在")
		return
	}

	color := req.Color
	if color == "" {
		color = "#64748b" // 默认灰色
	}
	cat := models.Category{UserID: userID, Name: req.Name, Color: color}
	if err := database.DB.Create(&cat).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", cat)
}

// Update 更新类别，重命名时同步预算上限的类别名称
// @Summary 更新消费类别
// @Tags 消费类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Param request body CategoryUpdateRequest true "更新的类别信息"
// @Success 200 {object} Response{data=models.Category} "更新成功"
// @Failure 400 {object} Response "参数错误或类别名称已存在"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	cat, err := userCategory(userID, id)
	if err != nil {
		NotFound(c, "类别不存在")
		return
	}

	var req CategoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	updates := map[string]interface{}{}
	oldName := cat.Name
	if req.Name != "" {
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			BadRequest(c, "名称不能为空")
			return
		}
		var existing models.Category
		if err := database.DB.Where("user_id = ? AND name = ? AND id != ?", userID, req.Name, cat.ID).First(&existing).Error; err == nil {
			BadRequest(c, "类别名称已存在")
			return
		}
		// 新旧名称都有预算上限时，重命名会违反 (user_id, category_name) 唯一约束
		if req.Name != oldName {
			var limits int64
			if err := database.DB.Model(&models.BudgetLimit{}).
				Where("user_id = ? AND category_name IN ?", userID, []string{oldName, req.Name}).
				Count(&limits).Error; err != nil {
				InternalError(c, SafeErrorMessage(err, "更新失败"))
				return
			}
			if limits > 1 {
				BadRequest(c, "新名称已设置预算上限，请先删除其中一个上限")
				return
			}
		}
		updates["name"] = req.Name
	}
	if req.Color != nil {
		color := *req.Color
		if color == "" {
			color = "#64748b"
		}
		updates["color"] = color
	}
	if len(updates) == 0 {
		SuccessWithMessage(c, "无需更新", cat)
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(cat).Updates(updates).Error; err != nil {
			return err
		}
		if name, ok := updates["name"]; ok && name != oldName {
			return tx.Model(&models.BudgetLimit{}).
				Where("user_id = ? AND category_name = ?", userID, oldName).
				Update("category_name", name).Error
		}
		return nil
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}

	if name, ok := updates["name"].(string); ok {
		cat.Name = name
	}
	if color, ok := updates["color"].(string); ok {
		cat.Color = color
	}
	SuccessWithMessage(c, "更新成功", cat)
}

// Delete 删除类别，仍被消费记录引用时拒绝删除
// @Summary 删除消费类别
// @Tags 消费类别
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Success 200 {object} Response "删除成功"
// @Failure 400 {object} Response "类别仍在使用"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	cat, err := userCategory(userID, id)
	if err != nil {
		NotFound(c, "类别不存在")
		return
	}

	var used int64
	if err := database.DB.Model(&models.Expense{}).Where("user_id = ? AND category_id = ?", userID, cat.ID).Count(&used).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}
	if used > 0 {
		BadRequest(c, "该类别下仍有消费记录，无法删除")
		return
	}

	if err := database.DB.Delete(cat).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// Predict 根据描述预测类别
// @Summary 预测消费类别
// @Description 根据消费描述从当前用户的类别中预测最合适的一个，预测失败或无法匹配时返回 Other
// @Tags 消费类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PredictCategoryRequest true "消费描述"
// @Success 200 {object} Response{data=PredictCategoryResponse} "预测结果"
// @Failure 400 {object} Response "参数错误"
// @Router /api/v1/categories/predict [post]
func (h *CategoryHandler) Predict(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req PredictCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	settings, err := loadUserSettings(database.DB, userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "读取用户设置失败"))
		return
	}
	if !settings.AutoCategorization {
		Success(c, PredictCategoryResponse{Category: models.CategoryOther})
		return
	}

	var cats []models.Category
	if err := database.DB.Where("user_id = ?", userID).Order("id ASC").Find(&cats).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, h.predict(c, req.Description, cats))
}

// predict 调用预测服务并映射到用户类别 ID
func (h *CategoryHandler) predict(c *gin.Context, description string, cats []models.Category) PredictCategoryResponse {
	labels := make([]string, 0, len(cats))
	for _, cat := range cats {
		labels = append(labels, cat.Name)
	}

	resp := PredictCategoryResponse{Category: models.CategoryOther, Predicted: true}
	if len(labels) == 0 {
		return resp
	}

	resp.Category = h.predictor.PredictCategory(c.Request.Context(), description, labels)
	for i := range cats {
		if cats[i].Name == resp.Category {
			resp.CategoryID = &cats[i].ID
			break
		}
	}
	return resp
}
