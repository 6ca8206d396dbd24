package database

import (
	"fmt"
	"log"

	"expensetracker/config"
	"expensetracker/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// defaultCategories 系统默认类别及其显示颜色（与前端 CSS 保持一致）
var defaultCategories = []models.Category{
	{Name: "Food", Color: "#FF5722", IsDefault: true},
	{Name: "Transport", Color: "#2196F3", IsDefault: true},
	{Name: "Entertainment", Color: "#4CAF50", IsDefault: true},
	{Name: "Bills", Color: "#FFC107", IsDefault: true},
	{Name: "Shopping", Color: "#9C27B0", IsDefault: true},
	{Name: "Health", Color: "#E91E63", IsDefault: true},
	{Name: "Other", Color: "#607D8B", IsDefault: true},
}

// Init 初始化数据库连接
func Init(cfg *config.Config) error {
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

	// 获取底层 *sql.DB 配置连接池
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	// 自动迁移数据库表
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Expense{},
	); err != nil {
		return err
	}

	// 初始化系统默认类别（仅当表为空时）
	var catCount int64
	DB.Model(&models.Category{}).Count(&catCount)
	if catCount == 0 {
		cats := make([]models.Category, len(defaultCategories))
		copy(cats, defaultCategories)
		if err := DB.Create(&cats).Error; err != nil {
			return fmt.Errorf("初始化默认类别失败: %w", err)
		}
		log.Printf("已创建 %d 个默认类别", len(cats))
	}

	log.Println("数据库初始化成功")
	return nil
}

// Close 关闭数据库连接
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}
