package models

import (
	"time"

	"gorm.io/gorm"
)

// DeliveryMethod 配送方式参照表（standard/express）
type DeliveryMethod struct {
	ID        uint           `gorm:"primarykey" json:"id"`                   // 主键
	Code      string         `gorm:"uniqueIndex;not null" json:"code"`       // 编码
	Name      string         `gorm:"not null" json:"name"`                   // 名称
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"` // 是否启用
	SortOrder int            `gorm:"not null;default:0" json:"sort_order"`   // 排序
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                // 创建时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间
}

// TableName 指定表名
func (DeliveryMethod) TableName() string {
	return "delivery_methods"
}
