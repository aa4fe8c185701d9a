package models

import (
	"time"

	"gorm.io/gorm"
)

// Expense 消费记录模型
type Expense struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Amount      float64        `json:"amount" gorm:"type:decimal(10,2);not null"`
	Date        time.Time      `json:"date" gorm:"index;not null"`
	Description string         `json:"description" gorm:"size:255"`
	CategoryID  uint           `json:"category_id" gorm:"index;not null"`
	Category    Category       `json:"-" gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (Expense) TableName() string {
	return "expenses"
}
