package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func incomeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "amount", "frequency", "source", "description", "date", "created_at", "updated_at", "deleted_at"})
}

func TestIncomeHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `incomes`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/incomes", NewIncomeHandler().Create)

	body := `{"amount":5000,"frequency":"Monthly","source":"工资","date":"2024-01-15"}`
	req := httptest.NewRequest("POST", "/incomes", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "monthly", data["frequency"])
	assert.Equal(t, "工资 - monthly income", data["description"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIncomeHandler_Create_InvalidFrequency(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/incomes", NewIncomeHandler().Create)

	body := `{"amount":100,"frequency":"daily","source":"兼职"}`
	req := httptest.NewRequest("POST", "/incomes", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIncomeHandler_List_MonthlyIncome(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	rows := func() *sqlmock.Rows {
		return incomeRows().
			AddRow(1, 1, 100.0, "weekly", "兼职", "", now, now, now, nil).
			AddRow(2, 1, 12000.0, "yearly", "奖金", "", now, now, now, nil)
	}

	mock.ExpectQuery("SELECT .* FROM `incomes`").WithArgs(1).WillReturnRows(rows())
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `incomes`").WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT .* FROM `incomes`").WithArgs(1).WillReturnRows(rows())

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/incomes", NewIncomeHandler().List)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/incomes", nil))

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	// 100*52/12 + 12000/12
	assert.Equal(t, 1433.33, data["monthly_income"])
	assert.Equal(t, float64(2), data["total"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIncomeHandler_Delete_NotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `incomes` SET `deleted_at`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.DELETE("/incomes/:id", NewIncomeHandler().Delete)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/incomes/8", nil))

	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
