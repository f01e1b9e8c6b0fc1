package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"budget/analytics"
	"budget/config"
	"budget/database"
	"budget/middleware"
	"budget/models"
	"budget/service"

	"github.com/gin-gonic/gin"
)

const alertPublishTimeout = 5 * time.Second

// InsightsHandler 预算分析处理器
type InsightsHandler struct {
	defaultWindow string
	advisor       analytics.Advisor
	alerts        service.AlertPublisher
	email         *service.EmailService
}

// NewInsightsHandler 创建预算分析处理器，alerts 为 nil 时不发送超支告警
func NewInsightsHandler(cfg *config.Config, alerts service.AlertPublisher) *InsightsHandler {
	if alerts == nil {
		alerts = service.NoopAlertPublisher{}
	}
	return &InsightsHandler{
		defaultWindow: cfg.Analytics.DefaultWindow,
		advisor:       service.NewAdvisoryClient(cfg.Advisory),
		alerts:        alerts,
		email:         service.NewEmailService(&cfg.Email),
	}
}

// EmailInsightsRequest 发送分析报告请求，to 为空时发送到账号邮箱
type EmailInsightsRequest struct {
	To         string `json:"to" binding:"omitempty,email" example:"user@example.com"`
	Range      string `json:"range" example:"month"`
	StartTime  string `json:"start_time" example:"2024-01-01"`
	EndTime    string `json:"end_time" example:"2024-01-31"`
	WithReport *bool  `json:"with_report" example:"true"`
}

func (h *InsightsHandler) engine() *analytics.Engine {
	return analytics.NewEngine(database.NewLedgerRepository(database.DB), h.advisor)
}

// window 解析统计窗口，range 为空时使用配置的默认窗口
func (h *InsightsHandler) window(rangeName, start, end string) (analytics.Window, error) {
	if rangeName == "" {
		rangeName = h.defaultWindow
	}
	return analytics.ParseWindow(rangeName, start, end, timeNow())
}

// compute 计算分析结果并发布超支告警
func (h *InsightsHandler) compute(ctx context.Context, userID uint, w analytics.Window) (*analytics.BudgetInsights, error) {
	settings, err := loadUserSettings(database.DB, userID)
	if err != nil {
		return nil, fmt.Errorf("读取用户设置失败: %w", err)
	}

	insights, err := h.engine().Compute(ctx, userID, w, settings)
	if err != nil {
		return nil, err
	}

	if msgs := service.NewOverLimitMessages(userID, insights); len(msgs) > 0 {
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), alertPublishTimeout)
		defer cancel()
		if err := h.alerts.PublishOverLimit(pubCtx, msgs); err != nil {
			log.Printf("发布超支告警失败 (user=%d): %v", userID, err)
		}
	}

	return insights, nil
}

// Get 获取预算分析
// @Summary 获取预算分析
// @Description 计算窗口内的收入、支出、剩余预算、健康分、类别超支情况与建议。AI 建议不可用时 advisory_source=fallback
// @Tags 预算分析
// @Produce json
// @Security BearerAuth
// @Param range query string false "统计窗口 month|30d|custom，默认取配置"
// @Param start_time query string false "range=custom 时的开始日期 (2024-01-01)"
// @Param end_time query string false "range=custom 时的结束日期 (2024-01-31)，包含当天"
// @Success 200 {object} Response{data=analytics.BudgetInsights} "获取成功"
// @Failure 400 {object} Response "统计窗口参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/insights [get]
func (h *InsightsHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	w, err := h.window(c.Query("range"), c.Query("start_time"), c.Query("end_time"))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	insights, err := h.compute(c.Request.Context(), userID, w)
	if err != nil {
		log.Printf("计算预算分析失败 (user=%d, request=%s): %v", userID, middleware.GetRequestID(c), err)
		InternalError(c, SafeErrorMessage(err, "计算预算分析失败"))
		return
	}

	Success(c, insights)
}

// Averages 获取类别平均消费
// @Summary 获取类别平均消费
// @Description 最近 30 天各类别的单笔平均消费及按 30 天推算的支出
// @Tags 预算分析
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]analytics.CategoryAverage} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/insights/averages [get]
func (h *InsightsHandler) Averages(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	w, err := analytics.ParseWindow(analytics.RangeLast30, "", "", timeNow())
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	averages, err := h.engine().CategoryAverages(c.Request.Context(), userID, w)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "计算平均消费失败"))
		return
	}

	Success(c, averages)
}

// Export 导出预算分析报告
// @Summary 导出预算分析报告
// @Description 将预算分析结果导出为 Excel 文件
// @Tags 预算分析
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param range query string false "统计窗口 month|30d|custom"
// @Param start_time query string false "开始日期 (2024-01-01)"
// @Param end_time query string false "结束日期 (2024-01-31)"
// @Success 200 {file} file "Excel 文件"
// @Failure 400 {object} Response "统计窗口参数错误"
// @Router /api/v1/insights/export [get]
func (h *InsightsHandler) Export(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	w, err := h.window(c.Query("range"), c.Query("start_time"), c.Query("end_time"))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	insights, err := h.compute(c.Request.Context(), userID, w)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "计算预算分析失败"))
		return
	}

	data, err := service.RenderInsightsReport(insights)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "生成报告失败"))
		return
	}

	filename := service.ReportFilename(insights)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(filename)))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// Email 发送预算分析报告邮件
// @Summary 发送预算分析报告邮件
// @Description 计算预算分析并发送到邮箱，默认附带 Excel 报告
// @Tags 预算分析
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EmailInsightsRequest true "发送参数"
// @Success 200 {object} Response "发送成功"
// @Failure 400 {object} Response "参数错误"
// @Router /api/v1/insights/email [post]
func (h *InsightsHandler) Email(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req EmailInsightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	w, err := h.window(req.Range, req.StartTime, req.EndTime)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}
	to := req.To
	if to == "" {
		to = user.Email
	}
	if to == "" {
		BadRequest(c, "账号未绑定邮箱，请指定收件地址")
		return
	}

	insights, err := h.compute(c.Request.Context(), userID, w)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "计算预算分析失败"))
		return
	}

	var attachment *service.Attachment
	if req.WithReport == nil || *req.WithReport {
		data, err := service.RenderInsightsReport(insights)
		if err != nil {
			InternalError(c, SafeErrorMessage(err, "生成报告失败"))
			return
		}
		attachment = &service.Attachment{Filename: service.ReportFilename(insights), Data: data}
	}

	if err := h.email.SendInsightsReport(to, user.Username, insights, attachment); err != nil {
		log.Printf("发送分析报告邮件失败 (user=%d): %v", userID, err)
		InternalError(c, SafeErrorMessage(err, "发送邮件失败"))
		return
	}

	SuccessWithMessage(c, "发送成功", nil)
}

