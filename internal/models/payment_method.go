package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentMethod 支付方式参照表（cod/card/bank）
type PaymentMethod struct {
	ID        uint           `gorm:"primarykey" json:"id"`                   // 主键
	Code      string         `gorm:"uniqueIndex;not null" json:"code"`       // 编码
	Name      string         `gorm:"not null" json:"name"`                   // 名称
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"` // 是否启用
	// 货到付款类方式在下单时直接授权，不进入结算流程
	IsCashOnDelivery bool           `gorm:"not null;default:false" json:"is_cash_on_delivery"`
	SortOrder        int            `gorm:"not null;default:0" json:"sort_order"` // 排序
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`              // 创建时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                       // 软删除时间
}

// TableName 指定表名
func (PaymentMethod) TableName() string {
	return "payment_methods"
}
