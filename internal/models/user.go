package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                            // 主键
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`            // 用户名
	Email        string         `gorm:"index" json:"email"`                              // 邮箱
	FullName     string         `gorm:"default:''" json:"full_name"`                     // 姓名
	Phone        string         `gorm:"type:varchar(32);default:''" json:"phone"`        // 电话
	PasswordHash string         `gorm:"not null" json:"-"`                               // 密码哈希（不返回给前端）
	Role         string         `gorm:"type:varchar(20);not null;index" json:"role"`     // 角色（client/manager/admin）
	Status       string         `gorm:"type:varchar(20);default:'active'" json:"status"` // 账号状态
	LastLoginAt  *time.Time     `json:"last_login_at"`                                   // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                         // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                  // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsStaff 是否为后台人员角色
func (u *User) IsStaff() bool {
	return u.Role == "manager" || u.Role == "admin"
}
