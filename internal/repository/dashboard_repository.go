package repository

import (
	"fmt"
	"time"

	"github.com/meeplemarket/internal/constants"
	"github.com/meeplemarket/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error)
	GetSalesByDay(startAt, endAt time.Time) ([]DashboardSalesDayRow, error)
	GetTopProducts(startAt, endAt time.Time, limit int) ([]DashboardProductRankingRow, error)
	GetTopCustomers(startAt, endAt time.Time, limit int) ([]DashboardCustomerRankingRow, error)
}

// DashboardOverviewRow 仪表盘总览原始统计结果
type DashboardOverviewRow struct {
	OrdersTotal     int64
	PaidOrders      int64
	CancelledOrders int64
	Revenue         float64
	UniqueCustomers int64
	NewUsers        int64
	ActiveProducts  int64
	Currency        string
}

// DashboardSalesDayRow 按日销售统计
type DashboardSalesDayRow struct {
	Day         string
	OrdersTotal int64
	OrdersPaid  int64
	Revenue     float64
}

// DashboardProductRankingRow 商品排行原始行
type DashboardProductRankingRow struct {
	ProductID  uint
	Title      string
	PaidOrders int64
	Quantity   int64
	PaidAmount float64
}

// DashboardCustomerRankingRow 客户排行原始行
type DashboardCustomerRankingRow struct {
	UserID     uint
	Username   string
	PaidOrders int64
	PaidAmount float64
}

// GormDashboardRepository GORM 仪表盘聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

func paidOrderStatuses() []string {
	return []string{
		constants.OrderStatusAwaitingShipment,
		constants.OrderStatusPaid,
		constants.OrderStatusShipped,
		constants.OrderStatusCompleted,
	}
}

// GetOverview 获取总览统计
func (r *GormDashboardRepository) GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error) {
	result := DashboardOverviewRow{}

	orderBase := func() *gorm.DB {
		return r.db.Model(&models.Order{}).
			Where("created_at >= ? AND created_at < ?", startAt, endAt)
	}

	if err := orderBase().Count(&result.OrdersTotal).Error; err != nil {
		return result, err
	}

	paidStatuses := paidOrderStatuses()
	if err := orderBase().Where("status IN ?", paidStatuses).Count(&result.PaidOrders).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("status = ?", constants.OrderStatusCancelled).Count(&result.CancelledOrders).Error; err != nil {
		return result, err
	}

	if err := orderBase().
		Where("status IN ?", paidStatuses).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&result.Revenue).Error; err != nil {
		return result, err
	}

	if err := orderBase().
		Where("status IN ?", paidStatuses).
		Distinct("user_id").
		Count(&result.UniqueCustomers).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Count(&result.NewUsers).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.Product{}).
		Where("is_active = ?", true).
		Count(&result.ActiveProducts).Error; err != nil {
		return result, err
	}

	_ = r.db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ? AND currency <> ''", startAt, endAt).
		Order("id DESC").
		Limit(1).
		Pluck("currency", &result.Currency).Error

	return result, nil
}

// GetSalesByDay 获取按日销售趋势
func (r *GormDashboardRepository) GetSalesByDay(startAt, endAt time.Time) ([]DashboardSalesDayRow, error) {
	type totalRow struct {
		Day   string
		Total int64
	}
	type paidRow struct {
		Day     string
		Paid    int64
		Revenue float64
	}

	dayExpr := "CAST(date(created_at) AS TEXT)"

	var totals []totalRow
	if err := r.db.Model(&models.Order{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as total", dayExpr)).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Group(dayExpr).
		Order("day asc").
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	var paids []paidRow
	if err := r.db.Model(&models.Order{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as paid, COALESCE(SUM(total_amount), 0) as revenue", dayExpr)).
		Where("created_at >= ? AND created_at < ? AND status IN ?", startAt, endAt, paidOrderStatuses()).
		Group(dayExpr).
		Order("day asc").
		Scan(&paids).Error; err != nil {
		return nil, err
	}

	paidMap := make(map[string]paidRow, len(paids))
	for _, item := range paids {
		paidMap[item.Day] = item
	}

	result := make([]DashboardSalesDayRow, 0, len(totals))
	for _, item := range totals {
		result = append(result, DashboardSalesDayRow{
			Day:         item.Day,
			OrdersTotal: item.Total,
			OrdersPaid:  paidMap[item.Day].Paid,
			Revenue:     paidMap[item.Day].Revenue,
		})
	}
	return result, nil
}

// GetTopProducts 获取商品销量排行榜
func (r *GormDashboardRepository) GetTopProducts(startAt, endAt time.Time, limit int) ([]DashboardProductRankingRow, error) {
	if limit <= 0 {
		limit = 5
	}
	rows := make([]DashboardProductRankingRow, 0)
	if err := r.db.Model(&models.OrderItem{}).
		Select(`
			order_items.product_id as product_id,
			order_items.title as title,
			COUNT(DISTINCT order_items.order_id) as paid_orders,
			COALESCE(SUM(order_items.quantity), 0) as quantity,
			COALESCE(SUM(order_items.total_price), 0) as paid_amount
		`).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ? AND orders.created_at < ? AND orders.status IN ?", startAt, endAt, paidOrderStatuses()).
		Group("order_items.product_id, order_items.title").
		Order("quantity DESC, paid_amount DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetTopCustomers 获取客户下单排行榜
func (r *GormDashboardRepository) GetTopCustomers(startAt, endAt time.Time, limit int) ([]DashboardCustomerRankingRow, error) {
	if limit <= 0 {
		limit = 5
	}
	rows := make([]DashboardCustomerRankingRow, 0)
	if err := r.db.Model(&models.Order{}).
		Select(`
			orders.user_id as user_id,
			COALESCE(users.username, '') as username,
			COUNT(*) as paid_orders,
			COALESCE(SUM(orders.total_amount), 0) as paid_amount
		`).
		Joins("LEFT JOIN users ON users.id = orders.user_id").
		Where("orders.created_at >= ? AND orders.created_at < ? AND orders.status IN ?", startAt, endAt, paidOrderStatuses()).
		Group("orders.user_id, users.username").
		Order("paid_orders DESC, paid_amount DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
