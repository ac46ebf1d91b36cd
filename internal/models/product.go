package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表（桌游）
type Product struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                      // 主键
	GenreID      uint           `gorm:"not null;index" json:"genre_id"`                            // 类型ID
	Slug         string         `gorm:"uniqueIndex;not null" json:"slug"`                          // 唯一标识
	Title        string         `gorm:"not null" json:"title"`                                     // 标题
	Description  string         `gorm:"type:text" json:"description"`                              // 描述
	PriceAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_amount"` // 价格金额
	Stock        int            `gorm:"not null;default:0" json:"stock"`                           // 库存数量
	Images       StringArray    `gorm:"type:json" json:"images"`                                   // 图片数组
	IsActive     bool           `gorm:"default:true;index" json:"is_active"`                       // 是否上架
	SortOrder    int            `gorm:"default:0;index" json:"sort_order"`                         // 排序权重
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	// 目录查询时由聚合子查询填充，不建列、不参与写入
	AvgRating   float64 `gorm:"->;-:migration" json:"avg_rating"`   // 平均评分
	ReviewCount int64   `gorm:"->;-:migration" json:"review_count"` // 评论数
	SoldCount   int64   `gorm:"->;-:migration" json:"sold_count"`   // 已售数量

	// 关联
	Genre        Genre         `gorm:"foreignKey:GenreID" json:"genre,omitempty"`                          // 类型信息
	PlayerRanges []PlayerRange `gorm:"many2many:product_player_ranges;" json:"player_ranges,omitempty"` // 支持的人数区间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
