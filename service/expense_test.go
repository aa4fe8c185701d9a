package service

import (
	"testing"
	"time"

	"expensetracker/models"
	"expensetracker/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockService(t *testing.T) (sqlmock.Sqlmock, *ExpenseService, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	svc := NewExpenseService(repository.NewExpenseRepository(gormDB))
	return mock, svc, func() { sqlDB.Close() }
}

func categoryRows(id uint, name string, budget float64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "budget", "created_at", "updated_at", "deleted_at"}).
		AddRow(id, name, budget, time.Now(), time.Now(), nil)
}

func settingRows(overall float64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "overall_budget", "created_at", "updated_at"}).
		AddRow(1, overall, time.Now(), time.Now())
}

func sumRows(total float64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"total"}).AddRow(total)
}

func expenseRows(id uint, amount float64, date time.Time, desc string, categoryID uint) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "amount", "date", "description", "category_id", "created_at", "updated_at", "deleted_at"}).
		AddRow(id, amount, date, desc, categoryID, time.Now(), time.Now(), nil)
}

// 类别预算 500，已有消费 450：新增 50 恰好用满预算，必须允许
func TestCreate_ExactlyAtCap(t *testing.T) {
	mock, svc, cleanup := setupMockService(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM `categories`").
		WillReturnRows(categoryRows(1, "食品杂货", 500))
	mock.ExpectQuery("SELECT .+ FROM `budget_settings`").
		WillReturnRows(settingRows(1000))
	mock.ExpectQuery("SELECT COALESCE.+FROM `expenses`").
		WithArgs(uint(1)).
		WillReturnRows(sumRows(450))
	mock.ExpectQuery("SELECT COALESCE.+FROM `expenses`").
		WillReturnRows(sumRows(450))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `expenses`").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	created, err := svc.Create(&models.Expense{
		Amount:      50,
		Date:        time.Date(2025, 1, 10, 12, 0, 0, 0, time.Local),
		Description: "周末采购",
		CategoryID:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(3), created.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

// 类别预算 500，已有消费 450：新增 60 超出类别预算，必须拒绝
func TestCreate_CategoryBudgetExceeded(t *testing.T) {
	mock, svc, cleanup := setupMockService(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM `categories`").
		WillReturnRows(categoryRows(1, "食品杂货", 500))
	mock.ExpectQuery("SELECT .+ FROM `budget_settings`").
		WillReturnRows(settingRows(1000))
	mock.ExpectQuery("SELECT COALESCE.+FROM `expenses`").
		WithArgs(uint(1)).
		WillReturnRows(sumRows(450))
	mock.ExpectQuery("SELECT COALESCE.+FROM `expenses`").
		WillReturnRows(sumRows(450))

	_, err := svc.Create(&models.Expense{Amount: 60, CategoryID: 1, Description: "采购"})
	assert.ErrorIs(t, err, ErrCategoryBudgetExceeded)
	require.NoError(t, mock.ExpectationsWereMet())
}

// 总预算 1000，当前总额 980：类别内合法的 21 仍超出总预算；20 恰好到顶，允许
func TestCreate_OverallBudgetBoundary(t *testing.T) {
	mock, svc, cleanup := setupMockService(t)
	defer cleanup()

	// 第一次：金额 21，980 + 21 > 1000，拒绝
	mock.ExpectQuery("SELECT .+ FROM `categories`").
		WillReturnRows(categoryRows(2, "娱乐", 200))
	mock.ExpectQuery("SELECT .+ FROM `budget_settings`").
		WillReturnRows(settingRows(1000))
	mock.ExpectQuery("SELECT COALESCE.+FROM `expenses`").
		WithArgs(uint(2)).
		WillReturnRows(sumRows(100))
	mock.ExpectQuery("SELECT COALESCE.+FROM `expenses`").
		WillReturnRows(sumRows(980))

	_, err := svc.Create(&models.Expense{Amount: 21, CategoryID: 2, Description: "电影票"})
	assert.ErrorIs(t, err, ErrOverallBudgetExceeded)

	// 第二次：金额 20，980 + 20 == 1000，恰好到顶，允许
	mock.ExpectQuery("SELECT .+ FROM `categories`").
		WillReturnRows(categoryRows(2, "娱乐", 200))
	mock.ExpectQuery("SELECT .+ FROM `budget_settings`").
		WillReturnRows(settingRows(1000))
	mock.ExpectQuery("SELECT COALESCE.+FROM `expenses`").
		WithArgs(uint(2)).
		WillReturnRows(sumRows(100))
	mock.ExpectQuery("SELECT COALESCE.+FROM `expenses`").
		WillReturnRows(sumRows(980))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `expenses`").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectCommit()

	_, err = svc.Create(&models.Expense{Amount: 20, CategoryID: 2, Description: "电影票"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

// 类别不存在时立即返回，不再查询总预算和各项总额
func TestCreate_InvalidCategory(t *testing.T) {
	mock, svc, cleanup := setupMockService(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM `categories`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "budget"}))

	_, err := svc.Create(&models.Expense{Amount: 10, CategoryID: 99, Description: "测试"})
	assert.ErrorIs(t, err, ErrInvalidCategory)
	require.NoError(t, mock.ExpectationsWereMet())
}

// 总预算单例缺失是配置错误，在求和之前就返回
func TestCreate_BudgetNotConfigured(t *testing.T) {
	mock, svc, cleanup := setupMockService(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM `categories`").
		WillReturnRows(categoryRows(1, "食品杂货", 500))
	mock.ExpectQuery("SELECT .+ FROM `budget_settings`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "overall_budget"}))

	_, err := svc.Create(&models.Expense{Amount: 10, CategoryID: 1, Description: "测试"})
	assert.ErrorIs(t, err, ErrBudgetNotConfigured)
	require.NoError(t, mock.ExpectationsWereMet())
}

// 更新校验时两个总额都要排除本条记录的旧金额，否则旧值会被重复计入
func TestUpdate_ExcludesOwnRow(t *testing.T) {
	mock, svc, cleanup := setupMockService(t)
	defer cleanup()

	date := time.Date(2025, 1, 3, 0, 0, 0, 0, time.Local)

	// 查询待更新记录（带类别）
	mock.ExpectQuery("SELECT .+ FROM `expenses`").
		WillReturnRows(expenseRows(2, 50, date, "电影票", 1))
	mock.ExpectQuery("SELECT .+ FROM `categories`").
		WillReturnRows(categoryRows(1, "食品杂货", 500))

	// 预算校验：总额统计排除 id=2
	mock.ExpectQuery("SELECT .+ FROM `categories`").
		WillReturnRows(categoryRows(1, "食品杂货", 500))
	mock.ExpectQuery("SELECT .+ FROM `budget_settings`").
		WillReturnRows(settingRows(1000))
	mock.ExpectQuery("SELECT COALESCE.+FROM `expenses`").
		WithArgs(uint(1), uint(2)).
		WillReturnRows(sumRows(450))
	mock.ExpectQuery("SELECT COALESCE.+FROM `expenses`").
		WithArgs(uint(2)).
		WillReturnRows(sumRows(450))

	// 450 + 100 > 500，超出类别预算
	amount := 100.0
	_, err := svc.Update(2, UpdateExpenseInput{Amount: &amount})
	assert.ErrorIs(t, err, ErrCategoryBudgetExceeded)
	require.NoError(t, mock.ExpectationsWereMet())
}

// 部分更新：只覆盖提供的字段，合并后恰好用满类别预算，允许
func TestUpdate_PartialMergeSuccess(t *testing.T) {
	mock, svc, cleanup := setupMockService(t)
	defer cleanup()

	date := time.Date(2025, 1, 3, 0, 0, 0, 0, time.Local)

	mock.ExpectQuery("SELECT .+ FROM `expenses`").
		WillReturnRows(expenseRows(2, 30, date, "电影票", 1))
	mock.ExpectQuery("SELECT .+ FROM `categories`").
		WillReturnRows(categoryRows(1, "食品杂货", 500))

	mock.ExpectQuery("SELECT .+ FROM `categories`").
		WillReturnRows(categoryRows(1, "食品杂货", 500))
	mock.ExpectQuery("SELECT .+ FROM `budget_settings`").
		WillReturnRows(settingRows(1000))
	mock.ExpectQuery("SELECT COALESCE.+FROM `expenses`").
		WithArgs(uint(1), uint(2)).
		WillReturnRows(sumRows(450))
	mock.ExpectQuery("SELECT COALESCE.+FROM `expenses`").
		WithArgs(uint(2)).
		WillReturnRows(sumRows(450))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `expenses`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// 更新后重新查询
	mock.ExpectQuery("SELECT .+ FROM `expenses`").
		WillReturnRows(expenseRows(2, 50, date, "电影票", 1))
	mock.ExpectQuery("SELECT .+ FROM `categories`").
		WillReturnRows(categoryRows(1, "食品杂货", 500))

	amount := 50.0
	updated, err := svc.Update(2, UpdateExpenseInput{Amount: &amount})
	require.NoError(t, err)
	// 只改金额，描述保留原值
	assert.Equal(t, 50.0, updated.Amount)
	assert.Equal(t, "电影票", updated.Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

// 更新类别时，保存的外键必须是合并后的新类别，
// 预加载的旧 Category 关联不能把外键改回去
func TestUpdate_ChangesCategory(t *testing.T) {
	mock, svc, cleanup := setupMockService(t)
	defer cleanup()

	date := time.Date(2025, 1, 3, 0, 0, 0, 0, time.Local)

	// 待更新记录属于类别 1，预加载出类别 1
	mock.ExpectQuery("SELECT .+ FROM `expenses`").
		WillReturnRows(expenseRows(2, 50, date, "电影票", 1))
	mock.ExpectQuery("SELECT .+ FROM `categories`").
		WillReturnRows(categoryRows(1, "食品杂货", 500))

	// 预算校验针对新类别 2
	mock.ExpectQuery("SELECT .+ FROM `categories`").
		WillReturnRows(categoryRows(2, "娱乐", 200))
	mock.ExpectQuery("SELECT .+ FROM `budget_settings`").
		WillReturnRows(settingRows(1000))
	mock.ExpectQuery("SELECT COALESCE.+FROM `expenses`").
		WithArgs(uint(2), uint(2)).
		WillReturnRows(sumRows(100))
	mock.ExpectQuery("SELECT COALESCE.+FROM `expenses`").
		WithArgs(uint(2)).
		WillReturnRows(sumRows(450))

	// 持久化的 category_id 必须是 2，且不保存旧关联
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `expenses`").
		WithArgs(50.0, sqlmock.AnyArg(), "电影票", uint(2),
			sqlmock.AnyArg(), sqlmock.AnyArg(), nil, uint(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery("SELECT .+ FROM `expenses`").
		WillReturnRows(expenseRows(2, 50, date, "电影票", 2))
	mock.ExpectQuery("SELECT .+ FROM `categories`").
		WillReturnRows(categoryRows(2, "娱乐", 200))

	newCategory := uint(2)
	updated, err := svc.Update(2, UpdateExpenseInput{CategoryID: &newCategory})
	require.NoError(t, err)
	assert.Equal(t, uint(2), updated.CategoryID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFound(t *testing.T) {
	mock, svc, cleanup := setupMockService(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	amount := 10.0
	_, err := svc.Update(99, UpdateExpenseInput{Amount: &amount})
	assert.ErrorIs(t, err, ErrExpenseNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// 删除不做预算校验：查到记录后直接删除
func TestDelete(t *testing.T) {
	mock, svc, cleanup := setupMockService(t)
	defer cleanup()

	date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)
	mock.ExpectQuery("SELECT .+ FROM `expenses`").
		WillReturnRows(expenseRows(1, 100, date, "每周采购", 1))
	mock.ExpectQuery("SELECT .+ FROM `categories`").
		WillReturnRows(categoryRows(1, "食品杂货", 500))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `expenses`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.Delete(1))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_NotFound(t *testing.T) {
	mock, svc, cleanup := setupMockService(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	assert.ErrorIs(t, svc.Delete(99), ErrExpenseNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyTotals(t *testing.T) {
	expenses := []models.Expense{
		{Amount: 100, Date: time.Date(2025, 1, 1, 9, 0, 0, 0, time.Local)},
		{Amount: 50, Date: time.Date(2025, 1, 3, 21, 30, 0, 0, time.Local)},
	}

	// 每日总额 {100, 50}，日均 75
	totals := dailyTotals(expenses)
	assert.Len(t, totals, 2)
	assert.InDelta(t, 75.0, mean(totals), 1e-9)

	// 同一天不同时刻归入同一组
	sameDay := []models.Expense{
		{Amount: 30, Date: time.Date(2025, 1, 1, 8, 0, 0, 0, time.Local)},
		{Amount: 70, Date: time.Date(2025, 1, 1, 23, 59, 59, 0, time.Local)},
	}
	totals = dailyTotals(sameDay)
	assert.Len(t, totals, 1)
	assert.InDelta(t, 100.0, totals[0], 1e-9)
}

func TestMonthlyAndYearlyTotals(t *testing.T) {
	expenses := []models.Expense{
		{Amount: 100, Date: time.Date(2024, 12, 31, 0, 0, 0, 0, time.Local)},
		{Amount: 50, Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)},
		{Amount: 150, Date: time.Date(2025, 1, 20, 0, 0, 0, 0, time.Local)},
	}

	// 月分组：{2024-12: 100, 2025-01: 200}，月均 150
	assert.InDelta(t, 150.0, mean(monthlyTotals(expenses)), 1e-9)

	// 年分组：{2024: 100, 2025: 200}，年均 150
	assert.InDelta(t, 150.0, mean(yearlyTotals(expenses)), 1e-9)
}

// 空范围的平均值是 0.0，不是错误也不是 NaN
func TestMean_Empty(t *testing.T) {
	assert.Equal(t, 0.0, mean(nil))
	assert.Equal(t, 0.0, mean([]float64{}))
}

// 范围内无记录时三个平均值接口都返回 0.0
func TestAverageDaily_EmptyRange(t *testing.T) {
	mock, svc, cleanup := setupMockService(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "amount", "date", "description", "category_id"}))

	avg, err := svc.AverageDaily(
		time.Date(2030, 1, 1, 0, 0, 0, 0, time.Local),
		time.Date(2030, 1, 31, 0, 0, 0, 0, time.Local),
	)
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg)
	require.NoError(t, mock.ExpectationsWereMet())
}

// 无记录时最贵/最便宜返回 nil，不报错
func TestExtremes_Empty(t *testing.T) {
	mock, svc, cleanup := setupMockService(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	most, err := svc.MostExpensive()
	require.NoError(t, err)
	assert.Nil(t, most)
	require.NoError(t, mock.ExpectationsWereMet())
}
