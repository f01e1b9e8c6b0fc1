package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"budget/analytics"
	"budget/config"
	"budget/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock, func() {
		sqlDB.Close()
	}
}

func TestLedgerRepository_ListCategories(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT \\* FROM `categories` WHERE user_id = \\? ORDER BY id").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "color"}).
			AddRow(1, 7, "Food & Dining", "#FF6B6B").
			AddRow(2, 7, "Rent", "#64748b"))

	cats, err := NewLedgerRepository(db).ListCategories(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Rent", cats[1].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_ListExpenses(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	w := analytics.MonthWindow(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	mock.ExpectQuery("SELECT \\* FROM `expenses` WHERE \\(user_id = \\? AND date >= \\? AND date < \\?\\) AND `expenses`.`deleted_at` IS NULL ORDER BY date ASC").
		WithArgs(7, w.Start, w.End).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "amount", "category_id", "description", "date"}).
			AddRow(1, 7, 12.5, 1, "lunch", time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)).
			AddRow(2, 7, 30, nil, "gift", time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC)))

	expenses, err := NewLedgerRepository(db).ListExpenses(context.Background(), 7, w)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	require.NotNil(t, expenses[0].CategoryID)
	assert.Equal(t, uint(1), *expenses[0].CategoryID)
	assert.Nil(t, expenses[1].CategoryID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_ListIncomes_Error(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	dbErr := errors.New("connection reset")
	mock.ExpectQuery("SELECT \\* FROM `incomes`").WithArgs(7).WillReturnError(dbErr)

	_, err := NewLedgerRepository(db).ListIncomes(context.Background(), 7)
	assert.ErrorIs(t, err, dbErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_ListBudgetLimits(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT \\* FROM `budget_limits` WHERE user_id = \\?").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "category_name", "limit_amount"}).
			AddRow(1, 7, "Food & Dining", 300))

	limits, err := NewLedgerRepository(db).ListBudgetLimits(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, limits, 1)
	assert.Equal(t, 300.0, limits[0].LimitAmount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_UpsertBudgetLimit(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	repo := NewLedgerRepository(db)
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	// 同一 (user, category) 写两次，依赖唯一索引覆盖而不是新增
	for i, amount := range []float64{250, 300} {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `budget_limits` .* ON DUPLICATE KEY UPDATE `limit_amount`=VALUES\\(`limit_amount`\\),`updated_at`=VALUES\\(`updated_at`\\)").
			WithArgs(7, "Food & Dining", amount, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(int64(i+5), 2))
		mock.ExpectCommit()
		mock.ExpectQuery("SELECT .* FROM `budget_limits`").
			WithArgs(7, "Food & Dining").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "category_name", "limit_amount", "created_at", "updated_at"}).
				AddRow(1, 7, "Food & Dining", amount, created, time.Now()))

		limit := &models.BudgetLimit{UserID: 7, CategoryName: "Food & Dining", LimitAmount: amount}
		require.NoError(t, repo.UpsertBudgetLimit(context.Background(), limit))

		// 返回库中已有行，而不是驱动回填的自增 ID
		assert.Equal(t, uint(1), limit.ID)
		assert.Equal(t, amount, limit.LimitAmount)
		assert.True(t, created.Equal(limit.CreatedAt))
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDialector(t *testing.T) {
	d, err := dialector(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	d, err = dialector(&config.DatabaseConfig{Driver: "mysql", Host: "127.0.0.1", Port: "3306", DBName: "budget", Charset: "utf8mb4"})
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	_, err = dialector(&config.DatabaseConfig{Driver: "postgres"})
	assert.Error(t, err)
}
