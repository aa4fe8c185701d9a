package models

import "time"

// BudgetSettingID 总预算配置的固定主键，全局只有这一条记录
const BudgetSettingID uint = 1

// BudgetSetting 总预算配置（单例记录，id 固定为 1）
type BudgetSetting struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	OverallBudget float64   `json:"overall_budget" gorm:"type:decimal(10,2);not null"` // 所有类别合计的金额上限
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (BudgetSetting) TableName() string {
	return "budget_settings"
}
