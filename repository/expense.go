package repository

import (
	"errors"
	"time"

	"expensetracker/models"

	"gorm.io/gorm"
)

// ExpenseRepository 消费记录数据访问层，只做存取，不含业务规则
type ExpenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository 创建数据访问层
func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// FindCategory 根据 ID 查询类别，不存在时返回 (nil, nil)
func (r *ExpenseRepository) FindCategory(id uint) (*models.Category, error) {
	var cat models.Category
	if err := r.db.First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

// ListCategories 列出所有类别
func (r *ExpenseRepository) ListCategories() ([]models.Category, error) {
	var list []models.Category
	if err := r.db.Order("id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// FindBudgetSetting 查询总预算单例记录（id 固定为 1），不存在时返回 (nil, nil)
func (r *ExpenseRepository) FindBudgetSetting() (*models.BudgetSetting, error) {
	var setting models.BudgetSetting
	if err := r.db.First(&setting, models.BudgetSettingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

// SumAmountByCategory 统计指定类别下所有消费金额之和。
// excludeID 非 nil 时排除该条记录（更新校验时排除旧值，避免重复计入）。
func (r *ExpenseRepository) SumAmountByCategory(categoryID uint, excludeID *uint) (float64, error) {
	query := r.db.Model(&models.Expense{}).Where("category_id = ?", categoryID)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	var total float64
	if err := query.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// SumAmountOverall 统计全部消费金额之和，excludeID 语义同上
func (r *ExpenseRepository) SumAmountOverall(excludeID *uint) (float64, error) {
	query := r.db.Model(&models.Expense{})
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	var total float64
	if err := query.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// FindExpense 根据 ID 查询消费记录（带类别），不存在时返回 (nil, nil)
func (r *ExpenseRepository) FindExpense(id uint) (*models.Expense, error) {
	var expense models.Expense
	if err := r.db.Preload("Category").First(&expense, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &expense, nil
}

// InsertExpense 新增消费记录，返回带主键的记录
func (r *ExpenseRepository) InsertExpense(expense *models.Expense) (*models.Expense, error) {
	if err := r.db.Create(expense).Error; err != nil {
		return nil, err
	}
	return expense, nil
}

// ReplaceExpense 整条覆盖保存消费记录。
// 记录由 FindExpense 查出时带有预加载的 Category 关联，保存时必须跳过该关联，
// 否则 gorm 会先保存旧关联再用旧关联的主键覆盖已合并的 category_id
func (r *ExpenseRepository) ReplaceExpense(expense *models.Expense) error {
	return r.db.Omit("Category").Save(expense).Error
}

// RemoveExpense 删除消费记录（软删除）
func (r *ExpenseRepository) RemoveExpense(id uint) error {
	return r.db.Delete(&models.Expense{}, id).Error
}

// ListExpenses 分页查询消费记录，支持按类别和时间范围筛选。
// categoryID 为 0 表示不筛选类别；endTime 已由调用方归一化到当天末尾。
func (r *ExpenseRepository) ListExpenses(categoryID uint, startTime, endTime *time.Time, offset, limit int) ([]models.Expense, int64, error) {
	query := r.db.Model(&models.Expense{})
	if categoryID > 0 {
		query = query.Where("category_id = ?", categoryID)
	}
	if startTime != nil {
		query = query.Where("date >= ?", *startTime)
	}
	if endTime != nil {
		query = query.Where("date <= ?", *endTime)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var expenses []models.Expense
	if err := query.Preload("Category").
		Order("date DESC").
		Offset(offset).Limit(limit).
		Find(&expenses).Error; err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

// ListExpensesInRange 查询时间范围内的消费记录（含边界），
// 结束时间归一化到当天 23:59:59，保证 from == to 时覆盖整个自然日
func (r *ExpenseRepository) ListExpensesInRange(from, to time.Time) ([]models.Expense, error) {
	end := EndOfDay(to)
	var expenses []models.Expense
	if err := r.db.Preload("Category").
		Where("date >= ? AND date <= ?", from, end).
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// CountExpenses 统计消费记录总数
func (r *ExpenseRepository) CountExpenses() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Expense{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindExtreme 查询金额最大（byMax=true）或最小的消费记录。
// 金额相同时取 ID 较小的一条，保证结果确定；无记录时返回 (nil, nil)。
func (r *ExpenseRepository) FindExtreme(byMax bool) (*models.Expense, error) {
	order := "amount ASC, id ASC"
	if byMax {
		order = "amount DESC, id ASC"
	}
	var expense models.Expense
	if err := r.db.Preload("Category").Order(order).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &expense, nil
}

// EndOfDay 把时间归一化到所在自然日的最后一秒
func EndOfDay(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.Add(24*time.Hour - time.Second)
}
