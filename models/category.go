package models

import (
	"time"

	"gorm.io/gorm"
)

// Category 消费类别（含类别预算上限）
type Category struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"size:50;not null;uniqueIndex"`
	Budget    float64        `json:"budget" gorm:"type:decimal(10,2);not null"` // 该类别下所有消费金额之和的上限
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Category) TableName() string {
	return "categories"
}
