package models

import (
	"time"

	"gorm.io/gorm"
)

// Genre 桌游类型表
type Genre struct {
	ID        uint           `gorm:"primarykey" json:"id"`              // 主键
	Slug      string         `gorm:"uniqueIndex;not null" json:"slug"`  // 唯一标识
	Name      string         `gorm:"not null" json:"name"`              // 类型名称
	SortOrder int            `gorm:"default:0;index" json:"sort_order"` // 排序权重
	CreatedAt time.Time      `gorm:"index" json:"created_at"`           // 创建时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                    // 软删除时间
}

// TableName 指定表名
func (Genre) TableName() string {
	return "genres"
}
