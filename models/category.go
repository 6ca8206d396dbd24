package models

import (
	"crypto/rand"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DefaultCategoryColor 找不到类别记录时使用的中性灰
const DefaultCategoryColor = "#757575"

// Category 消费类别
// UserID 为空表示系统默认类别，对所有用户可见且不可修改、删除
// 名称唯一性由服务层在 {name, 归属者或默认} 范围内预检，这里只声明普通索引，
// 并发重复创建是已接受的竞态
type Category struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"size:50;not null;index:idx_categories_user_name"`
	Color     string         `json:"color" gorm:"size:20;default:#1976d2"` // 颜色代码，如 #ef4444
	UserID    *uint          `json:"user_id" gorm:"index:idx_categories_user_name"`
	IsDefault bool           `json:"is_default" gorm:"default:false;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (Category) TableName() string {
	return "categories"
}

// RandomColor 生成随机显示颜色（自动建类别时使用）
func RandomColor() string {
	bytes := make([]byte, 3)
	if _, err := rand.Read(bytes); err != nil {
		return DefaultCategoryColor
	}
	return fmt.Sprintf("#%02x%02x%02x", bytes[0], bytes[1], bytes[2])
}
