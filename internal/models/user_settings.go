package models

import (
	"time"

	"gorm.io/gorm"
)

// UserSettings 用户界面偏好设置（与用户 1:1）
type UserSettings struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                     // 主键
	UserID       uint           `gorm:"uniqueIndex;not null" json:"user_id"`                      // 用户ID
	Theme        string         `gorm:"type:varchar(20);default:'light'" json:"theme"`            // 主题（light/dark）
	DateFormat   string         `gorm:"type:varchar(20);default:'Y-m-d'" json:"date_format"`      // 日期格式
	NumberFormat string         `gorm:"type:varchar(20);default:'1 234,56'" json:"number_format"` // 数字格式
	PageSize     int            `gorm:"not null;default:12" json:"page_size"`                     // 目录每页条数
	SavedFilters JSON           `gorm:"type:json" json:"saved_filters"`                           // 已保存的目录筛选条件
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                                  // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间
}

// TableName 指定表名
func (UserSettings) TableName() string {
	return "user_settings"
}
