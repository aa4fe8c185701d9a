package service

import (
	"time"

	"expensetracker/models"
	"expensetracker/repository"
)

// ExpenseService 消费领域服务，承载全部预算校验与统计规则；
// 数据访问层只负责存取，不含任何业务规则
type ExpenseService struct {
	repo *repository.ExpenseRepository
}

// NewExpenseService 创建领域服务
func NewExpenseService(repo *repository.ExpenseRepository) *ExpenseService {
	return &ExpenseService{repo: repo}
}

// UpdateExpenseInput 部分更新输入，nil 字段表示保留原值
type UpdateExpenseInput struct {
	Amount      *float64
	Date        *time.Time
	Description *string
	CategoryID  *uint
}

// validateBudget 校验一笔金额为 amount、属于 categoryID 的消费是否会超出预算。
// excludeID 非 nil 时，两个总额都排除该条记录（更新场景下旧金额不能重复计入）。
// 检查顺序固定：类别存在 -> 总预算已配置 -> 类别预算 -> 总预算。
// 比较使用严格大于，恰好到达预算上限的消费是允许的。
// 只读不写；读取总额和随后的写入不在同一事务内，并发请求可能同时通过校验，
// 这是已知并接受的限制。
func (s *ExpenseService) validateBudget(categoryID uint, amount float64, excludeID *uint) error {
	category, err := s.repo.FindCategory(categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrInvalidCategory
	}

	setting, err := s.repo.FindBudgetSetting()
	if err != nil {
		return err
	}
	if setting == nil {
		return ErrBudgetNotConfigured
	}

	categoryTotal, err := s.repo.SumAmountByCategory(categoryID, excludeID)
	if err != nil {
		return err
	}
	overallTotal, err := s.repo.SumAmountOverall(excludeID)
	if err != nil {
		return err
	}

	if categoryTotal+amount > category.Budget {
		return ErrCategoryBudgetExceeded
	}
	if overallTotal+amount > setting.OverallBudget {
		return ErrOverallBudgetExceeded
	}
	return nil
}

// Create 校验预算后新增消费记录，返回带主键的记录
func (s *ExpenseService) Create(expense *models.Expense) (*models.Expense, error) {
	if err := s.validateBudget(expense.CategoryID, expense.Amount, nil); err != nil {
		return nil, err
	}
	return s.repo.InsertExpense(expense)
}

// Update 部分更新消费记录：只覆盖调用方提供的字段，
// 合并后的记录重新走预算校验，两个总额均排除本条记录的旧值
func (s *ExpenseService) Update(id uint, input UpdateExpenseInput) (*models.Expense, error) {
	expense, err := s.repo.FindExpense(id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}

	if input.Amount != nil {
		expense.Amount = *input.Amount
	}
	if input.Date != nil {
		expense.Date = *input.Date
	}
	if input.Description != nil {
		expense.Description = *input.Description
	}
	if input.CategoryID != nil {
		expense.CategoryID = *input.CategoryID
	}

	if err := s.validateBudget(expense.CategoryID, expense.Amount, &expense.ID); err != nil {
		return nil, err
	}

	if err := s.repo.ReplaceExpense(expense); err != nil {
		return nil, err
	}

	// 重新查询，带出合并后记录对应的类别
	updated, err := s.repo.FindExpense(id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrExpenseNotFound
	}
	return updated, nil
}

// Delete 删除消费记录。删除只会减少总额，无需重新校验预算
func (s *ExpenseService) Delete(id uint) error {
	expense, err := s.repo.FindExpense(id)
	if err != nil {
		return err
	}
	if expense == nil {
		return ErrExpenseNotFound
	}
	return s.repo.RemoveExpense(id)
}

// Get 查询单条消费记录，不存在时返回 ErrExpenseNotFound
func (s *ExpenseService) Get(id uint) (*models.Expense, error) {
	expense, err := s.repo.FindExpense(id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}
	return expense, nil
}

// List 分页查询消费记录
func (s *ExpenseService) List(categoryID uint, startTime, endTime *time.Time, offset, limit int) ([]models.Expense, int64, error) {
	return s.repo.ListExpenses(categoryID, startTime, endTime, offset, limit)
}

// ListInRange 查询时间范围内的消费记录（含边界，结束日归一化到当天末尾）
func (s *ExpenseService) ListInRange(from, to time.Time) ([]models.Expense, error) {
	return s.repo.ListExpensesInRange(from, to)
}

// Categories 列出全部消费类别
func (s *ExpenseService) Categories() ([]models.Category, error) {
	return s.repo.ListCategories()
}

// Category 查询单个类别，不存在时返回 (nil, nil)
func (s *ExpenseService) Category(id uint) (*models.Category, error) {
	return s.repo.FindCategory(id)
}

// TotalCount 消费记录总数
func (s *ExpenseService) TotalCount() (int64, error) {
	return s.repo.CountExpenses()
}

// MostExpensive 金额最大的消费记录，无记录时返回 (nil, nil)
func (s *ExpenseService) MostExpensive() (*models.Expense, error) {
	return s.repo.FindExtreme(true)
}

// LeastExpensive 金额最小的消费记录，无记录时返回 (nil, nil)
func (s *ExpenseService) LeastExpensive() (*models.Expense, error) {
	return s.repo.FindExtreme(false)
}

// AverageDaily 日均消费：范围内的记录按自然日分组求和后取算术平均。
// 范围内无记录时返回 0.0，不是错误
func (s *ExpenseService) AverageDaily(from, to time.Time) (float64, error) {
	expenses, err := s.repo.ListExpensesInRange(from, to)
	if err != nil {
		return 0, err
	}
	return mean(dailyTotals(expenses)), nil
}

// AverageMonthly 月均消费，按 (年, 月) 分组
func (s *ExpenseService) AverageMonthly(from, to time.Time) (float64, error) {
	expenses, err := s.repo.ListExpensesInRange(from, to)
	if err != nil {
		return 0, err
	}
	return mean(monthlyTotals(expenses)), nil
}

// AverageYearly 年均消费，按年分组
func (s *ExpenseService) AverageYearly(from, to time.Time) (float64, error) {
	expenses, err := s.repo.ListExpensesInRange(from, to)
	if err != nil {
		return 0, err
	}
	return mean(yearlyTotals(expenses)), nil
}

// dailyTotals 按自然日（舍弃时分秒）分组求每日金额之和
func dailyTotals(expenses []models.Expense) []float64 {
	groups := make(map[string]float64)
	for _, e := range expenses {
		groups[e.Date.Format("2006-01-02")] += e.Amount
	}
	return groupValues(groups)
}

// monthlyTotals 按 (年, 月) 分组求每月金额之和
func monthlyTotals(expenses []models.Expense) []float64 {
	groups := make(map[string]float64)
	for _, e := range expenses {
		groups[e.Date.Format("2006-01")] += e.Amount
	}
	return groupValues(groups)
}

// yearlyTotals 按年分组求每年金额之和
func yearlyTotals(expenses []models.Expense) []float64 {
	groups := make(map[string]float64)
	for _, e := range expenses {
		groups[e.Date.Format("2006")] += e.Amount
	}
	return groupValues(groups)
}

func groupValues(groups map[string]float64) []float64 {
	values := make([]float64, 0, len(groups))
	for _, v := range groups {
		values = append(values, v)
	}
	return values
}

// mean 算术平均，空切片返回 0.0
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
