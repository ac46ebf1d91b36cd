package repository

import "time"

// CatalogListFilter 查询商品目录的过滤条件
type CatalogListFilter struct {
	Page       int
	PageSize   int
	Search     string
	GenreID    uint
	Players    int
	PriceMin   *float64
	PriceMax   *float64
	MinRating  *float64
	InStock    bool
	OnlyActive bool
	Sort       string
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ReviewListFilter 查询评论列表的过滤条件
type ReviewListFilter struct {
	Page      int
	PageSize  int
	ProductID uint
	UserID    uint
}

// NotificationListFilter 查询通知列表的过滤条件
type NotificationListFilter struct {
	Page       int
	PageSize   int
	UserID     uint
	OnlyUnread bool
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Role        string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
