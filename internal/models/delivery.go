package models

import (
	"time"

	"gorm.io/gorm"
)

// Delivery 配送记录（与订单 1:1）
type Delivery struct {
	ID          uint           `gorm:"primarykey" json:"id"`                 // 主键
	OrderID     uint           `gorm:"uniqueIndex;not null" json:"order_id"` // 订单ID
	MethodID    uint           `gorm:"index;not null" json:"method_id"`      // 配送方式ID
	Status      string         `gorm:"index;not null" json:"status"`         // 配送状态
	Address     string         `gorm:"type:varchar(500)" json:"address"`     // 收货地址
	TrackingNo  string         `gorm:"index" json:"tracking_no"`             // 物流单号
	ShippedAt   *time.Time     `gorm:"index" json:"shipped_at"`              // 发货时间
	DeliveredAt *time.Time     `gorm:"index" json:"delivered_at"`            // 送达时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`              // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`              // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                       // 软删除时间

	Method DeliveryMethod `gorm:"foreignKey:MethodID" json:"method,omitempty"` // 配送方式
}

// TableName 指定表名
func (Delivery) TableName() string {
	return "deliveries"
}
