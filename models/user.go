package models

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"gorm.io/gorm"
)

const (
	// RoleUser 普通用户
	RoleUser = "user"
	// RoleAdmin 管理员：可访问用户管理接口，并可越过消费记录的归属校验
	RoleAdmin = "admin"
)

// User 用户模型
// 密码重置令牌只保存单向哈希，明文令牌仅出现在发送给用户的邮件里
type User struct {
	ID                  uint           `json:"id" gorm:"primaryKey"`
	Username            string         `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email               string         `json:"email" gorm:"uniqueIndex;size:100;not null"`
	Password            string         `json:"-" gorm:"size:255;not null"`
	Role                string         `json:"role" gorm:"size:20;default:user;index"`
	ResetPasswordToken  *string        `json:"-" gorm:"size:64;index"`
	ResetPasswordExpire *time.Time     `json:"-"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// GenerateResetToken 生成随机重置令牌（返回明文，入库前需 HashResetToken）
func GenerateResetToken() (string, error) {
	bytes := make([]byte, 20)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// HashResetToken 计算重置令牌的 SHA-256 哈希（十六进制）
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
