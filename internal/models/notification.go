package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification 站内通知表（由队列 worker 写入）
type Notification struct {
	ID        uint           `gorm:"primarykey" json:"id"`                          // 主键
	UserID    uint           `gorm:"index;not null" json:"user_id"`                 // 接收用户ID
	BizType   string         `gorm:"type:varchar(20);not null" json:"biz_type"`     // 业务类型（order/payment/delivery）
	OrderID   uint           `gorm:"index" json:"order_id"`                         // 关联订单ID
	Title     string         `gorm:"not null" json:"title"`                         // 标题
	Body      string         `gorm:"type:text" json:"body"`                         // 内容
	ReadAt    *time.Time     `gorm:"index" json:"read_at"`                          // 阅读时间
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                       // 创建时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}
