package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"budget/analytics"
	"budget/config"
	"budget/models"
	"budget/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []service.OverLimitMessage
}

func (p *recordingPublisher) PublishOverLimit(_ context.Context, msgs []service.OverLimitMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msgs...)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func fixNow(t *testing.T, now time.Time) {
	old := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = old })
}

func newTestInsightsHandler(alerts service.AlertPublisher) *InsightsHandler {
	if alerts == nil {
		alerts = service.NoopAlertPublisher{}
	}
	return &InsightsHandler{
		defaultWindow: analytics.RangeMonth,
		alerts:        alerts,
		email:         service.NewEmailService(&config.EmailConfig{}),
	}
}

// expectLedger 四类数据并发读取，不校验顺序
func expectLedger(mock sqlmock.Sqlmock, withData bool) {
	now := time.Now()
	cats := categoryRows()
	incomes := incomeRows()
	expenses := sqlmock.NewRows([]string{"id", "user_id", "amount", "category_id", "description", "date", "created_at", "updated_at", "deleted_at"})
	limits := sqlmock.NewRows([]string{"id", "user_id", "category_name", "limit_amount"})
	if withData {
		cats.AddRow(1, 1, "Food & Dining", "#ef4444", now, now).
			AddRow(3, 1, "Rent", "#8b5cf6", now, now)
		incomes.AddRow(1, 1, 3000.0, models.FrequencyMonthly, "工资", "", now, now, now, nil)
		expenses.AddRow(1, 1, 150.0, 1, "聚餐", time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local), now, now, nil).
			AddRow(2, 1, 1200.0, 3, "房租", time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), now, now, nil)
		limits.AddRow(1, 1, "Rent", 1500.0)
	}

	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery("SELECT .* FROM `categories`").WillReturnRows(cats)
	mock.ExpectQuery("SELECT .* FROM `incomes`").WillReturnRows(incomes)
	mock.ExpectQuery("SELECT .* FROM `expenses`").WillReturnRows(expenses)
	mock.ExpectQuery("SELECT .* FROM `budget_limits`").WillReturnRows(limits)
}

func TestInsightsHandler_Get(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	fixNow(t, time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local))

	mock.ExpectQuery("SELECT .* FROM `user_settings`").
		WithArgs(1).
		WillReturnRows(settingsRows())
	expectLedger(mock, true)

	alerts := &recordingPublisher{}
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/insights", newTestInsightsHandler(alerts).Get)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/insights", nil))

	require.Equal(t, 200, w.Code, w.Body.String())
	var resp struct {
		Code int                      `json:"code"`
		Data analytics.BudgetInsights `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	got := resp.Data
	assert.Equal(t, "2024-03-01", got.StartDate)
	assert.Equal(t, "2024-04-01", got.EndDate)
	assert.Equal(t, 3000.0, got.MonthlyIncome)
	assert.Equal(t, 1350.0, got.TotalExpenses)
	assert.Equal(t, 1650.0, got.RemainingBudget)
	assert.Equal(t, 600.0, got.SuggestedSavings)
	assert.Equal(t, 77.5, got.HealthScore)
	assert.Equal(t, "财务状况良好", got.HealthLabel)
	// 未配置建议服务时回退
	assert.Equal(t, analytics.SourceFallback, got.AdvisorySource)
	require.Len(t, got.Suggestions, 1)

	// Food & Dining 使用默认上限 100，超支 50
	require.Len(t, alerts.msgs, 1)
	assert.Equal(t, "Food & Dining", alerts.msgs[0].Category)
	assert.Equal(t, 50.0, alerts.msgs[0].OverageAmount)
	assert.Equal(t, service.EventOverLimit, alerts.msgs[0].Event)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsightsHandler_Get_InvalidRange(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/insights", newTestInsightsHandler(nil).Get)

	for _, q := range []string{
		"/insights?range=year",
		"/insights?range=custom&start_time=2024-03-10&end_time=2024-03-01",
		"/insights?range=custom&start_time=bad",
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", q, nil))
		assert.Equal(t, 400, w.Code, q)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsightsHandler_Export(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	fixNow(t, time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local))

	mock.ExpectQuery("SELECT .* FROM `user_settings`").
		WithArgs(1).
		WillReturnRows(settingsRows().AddRow(1, false, true, time.Now()))
	expectLedger(mock, false)

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/insights/export", newTestInsightsHandler(service.NoopAlertPublisher{}).Export)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/insights/export?range=30d", nil))

	require.Equal(t, 200, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "filename*=UTF-8''")
	// xlsx 为 zip 格式
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsightsHandler_Email_NoAddress(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	fixNow(t, time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local))

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs(1).
		WillReturnRows(userRows().AddRow(1, "alice", "hash", "", models.UserStatusActive, time.Now(), time.Now(), nil))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/insights/email", newTestInsightsHandler(nil).Email)

	req := httptest.NewRequest("POST", "/insights/email", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
