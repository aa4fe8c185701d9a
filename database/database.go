package database

import (
	"fmt"
	"log"
	"time"

	"expensetracker/config"
	"expensetracker/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init 初始化数据库连接
func Init(cfg *config.Config) error {
	// 构建 MySQL DSN 连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	// 设置连接池参数
	sqlDB.SetMaxIdleConns(10)  // 最大空闲连接数
	sqlDB.SetMaxOpenConns(100) // 最大打开连接数

	// 自动迁移数据库表
	if err := DB.AutoMigrate(
		&models.Category{},
		&models.BudgetSetting{},
		&models.Expense{},
	); err != nil {
		return err
	}

	if err := seed(); err != nil {
		return err
	}

	log.Println("数据库初始化成功")
	return nil
}

// seed 初始化种子数据（仅当对应表为空时写入）
func seed() error {
	// 默认消费类别及各自的预算上限
	var catCount int64
	DB.Model(&models.Category{}).Count(&catCount)
	if catCount == 0 {
		defaultCats := []models.Category{
			{Name: "食品杂货", Budget: 500},
			{Name: "娱乐", Budget: 200},
			{Name: "水电", Budget: 300},
		}
		if err := DB.Create(&defaultCats).Error; err != nil {
			return fmt.Errorf("初始化默认类别失败: %w", err)
		}
	}

	// 总预算单例记录，id 固定为 1；预算校验依赖这条记录存在
	var settingCount int64
	DB.Model(&models.BudgetSetting{}).Count(&settingCount)
	if settingCount == 0 {
		setting := models.BudgetSetting{
			ID:            models.BudgetSettingID,
			OverallBudget: 1000,
		}
		if err := DB.Create(&setting).Error; err != nil {
			return fmt.Errorf("初始化总预算配置失败: %w", err)
		}
	}

	// 示例消费记录
	var expenseCount int64
	DB.Model(&models.Expense{}).Count(&expenseCount)
	if expenseCount == 0 {
		sample := []models.Expense{
			{
				Amount:      100,
				Date:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local),
				Description: "每周采购",
				CategoryID:  1,
			},
			{
				Amount:      50,
				Date:        time.Date(2025, 1, 3, 0, 0, 0, 0, time.Local),
				Description: "电影票",
				CategoryID:  2,
			},
		}
		if err := DB.Create(&sample).Error; err != nil {
			return fmt.Errorf("初始化示例消费记录失败: %w", err)
		}
	}

	return nil
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}
