package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/meeplemarket/internal/cache"
	"github.com/meeplemarket/internal/repository"
)

const (
	dashboardCacheTTL      = 45 * time.Second
	dashboardCustomMaxDays = 90
	dashboardRankingLimit  = 10
)

// DashboardService 后台分析仪表盘服务
// 说明：聚合店铺核心经营数据，结果带短 TTL 缓存。
type DashboardService struct {
	repo repository.DashboardRepository
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(repo repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// DashboardQueryInput 仪表盘查询输入
type DashboardQueryInput struct {
	Range        string
	From         *time.Time
	To           *time.Time
	Timezone     string
	ForceRefresh bool
}

// DashboardOverviewResponse 仪表盘总览响应
type DashboardOverviewResponse struct {
	Range    string       `json:"range"`
	From     string       `json:"from"`
	To       string       `json:"to"`
	Timezone string       `json:"timezone"`
	Currency string       `json:"currency,omitempty"`
	KPI      DashboardKPI `json:"kpi"`
}

// DashboardKPI 仪表盘核心指标
type DashboardKPI struct {
	OrdersTotal     int64  `json:"orders_total"`
	PaidOrders      int64  `json:"paid_orders"`
	CancelledOrders int64  `json:"cancelled_orders"`
	Revenue         string `json:"revenue"`
	AvgOrderValue   string `json:"avg_order_value"`
	UniqueCustomers int64  `json:"unique_customers"`
	NewUsers        int64  `json:"new_users"`
	ActiveProducts  int64  `json:"active_products"`
}

// DashboardSalesResponse 按日销售趋势响应
type DashboardSalesResponse struct {
	Range    string                `json:"range"`
	From     string                `json:"from"`
	To       string                `json:"to"`
	Timezone string                `json:"timezone"`
	Points   []DashboardSalesPoint `json:"points"`
}

// DashboardSalesPoint 单日销售点
type DashboardSalesPoint struct {
	Date        string `json:"date"`
	OrdersTotal int64  `json:"orders_total"`
	OrdersPaid  int64  `json:"orders_paid"`
	Revenue     string `json:"revenue"`
}

// DashboardRankingsResponse 排行榜响应
type DashboardRankingsResponse struct {
	Range        string                     `json:"range"`
	From         string                     `json:"from"`
	To           string                     `json:"to"`
	Timezone     string                     `json:"timezone"`
	TopProducts  []DashboardProductRanking  `json:"top_products"`
	TopCustomers []DashboardCustomerRanking `json:"top_customers"`
}

// DashboardProductRanking 商品排行项
type DashboardProductRanking struct {
	ProductID  uint   `json:"product_id"`
	Title      string `json:"title"`
	PaidOrders int64  `json:"paid_orders"`
	Quantity   int64  `json:"quantity"`
	PaidAmount string `json:"paid_amount"`
}

// DashboardCustomerRanking 客户排行项
type DashboardCustomerRanking struct {
	UserID     uint   `json:"user_id"`
	Username   string `json:"username"`
	PaidOrders int64  `json:"paid_orders"`
	PaidAmount string `json:"paid_amount"`
}

type dashboardWindow struct {
	rangeKey string
	startAt  time.Time
	endAt    time.Time
	timezone string
}

// GetOverview 获取仪表盘总览
func (s *DashboardService) GetOverview(ctx context.Context, input DashboardQueryInput) (*DashboardOverviewResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardOverviewResponse{}, nil
	}

	window, err := resolveDashboardWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("dashboard:overview:%s:%d:%d:%s",
		window.rangeKey, window.startAt.Unix(), window.endAt.Unix(), window.timezone)
	if !input.ForceRefresh {
		var cached DashboardOverviewResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	overview, err := s.repo.GetOverview(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}

	// AOV = 营收 / 已支付订单数
	avgOrderValue := 0.0
	if overview.PaidOrders > 0 {
		avgOrderValue = overview.Revenue / float64(overview.PaidOrders)
	}

	response := &DashboardOverviewResponse{
		Range:    window.rangeKey,
		From:     window.startAt.Format(time.RFC3339),
		To:       window.endAt.Add(-time.Second).Format(time.RFC3339),
		Timezone: window.timezone,
		Currency: strings.ToUpper(strings.TrimSpace(overview.Currency)),
		KPI: DashboardKPI{
			OrdersTotal:     overview.OrdersTotal,
			PaidOrders:      overview.PaidOrders,
			CancelledOrders: overview.CancelledOrders,
			Revenue:         formatMoneyValue(overview.Revenue),
			AvgOrderValue:   formatMoneyValue(avgOrderValue),
			UniqueCustomers: overview.UniqueCustomers,
			NewUsers:        overview.NewUsers,
			ActiveProducts:  overview.ActiveProducts,
		},
	}

	_ = cache.SetJSON(ctx, cacheKey, response, dashboardCacheTTL)
	return response, nil
}

// GetSalesByDay 获取按日销售趋势，缺失的天补零点
func (s *DashboardService) GetSalesByDay(ctx context.Context, input DashboardQueryInput) (*DashboardSalesResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardSalesResponse{}, nil
	}

	window, err := resolveDashboardWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("dashboard:sales:%s:%d:%d:%s",
		window.rangeKey, window.startAt.Unix(), window.endAt.Unix(), window.timezone)
	if !input.ForceRefresh {
		var cached DashboardSalesResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	rows, err := s.repo.GetSalesByDay(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}
	rowMap := make(map[string]repository.DashboardSalesDayRow, len(rows))
	for _, item := range rows {
		rowMap[item.Day] = item
	}

	points := make([]DashboardSalesPoint, 0)
	for cursor := time.Date(window.startAt.Year(), window.startAt.Month(), window.startAt.Day(), 0, 0, 0, 0, window.startAt.Location()); cursor.Before(window.endAt); cursor = cursor.AddDate(0, 0, 1) {
		day := cursor.Format("2006-01-02")
		item := rowMap[day]
		points = append(points, DashboardSalesPoint{
			Date:        day,
			OrdersTotal: item.OrdersTotal,
			OrdersPaid:  item.OrdersPaid,
			Revenue:     formatMoneyValue(item.Revenue),
		})
	}

	response := &DashboardSalesResponse{
		Range:    window.rangeKey,
		From:     window.startAt.Format(time.RFC3339),
		To:       window.endAt.Add(-time.Second).Format(time.RFC3339),
		Timezone: window.timezone,
		Points:   points,
	}

	_ = cache.SetJSON(ctx, cacheKey, response, dashboardCacheTTL)
	return response, nil
}

// GetRankings 获取商品与客户排行榜
func (s *DashboardService) GetRankings(ctx context.Context, input DashboardQueryInput) (*DashboardRankingsResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardRankingsResponse{}, nil
	}

	window, err := resolveDashboardWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("dashboard:rankings:%s:%d:%d:%s",
		window.rangeKey, window.startAt.Unix(), window.endAt.Unix(), window.timezone)
	if !input.ForceRefresh {
		var cached DashboardRankingsResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	productRows, err := s.repo.GetTopProducts(window.startAt, window.endAt, dashboardRankingLimit)
	if err != nil {
		return nil, err
	}
	customerRows, err := s.repo.GetTopCustomers(window.startAt, window.endAt, dashboardRankingLimit)
	if err != nil {
		return nil, err
	}

	products := make([]DashboardProductRanking, 0, len(productRows))
	for _, item := range productRows {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = "-"
		}
		products = append(products, DashboardProductRanking{
			ProductID:  item.ProductID,
			Title:      title,
			PaidOrders: item.PaidOrders,
			Quantity:   item.Quantity,
			PaidAmount: formatMoneyValue(item.PaidAmount),
		})
	}

	customers := make([]DashboardCustomerRanking, 0, len(customerRows))
	for _, item := range customerRows {
		customers = append(customers, DashboardCustomerRanking{
			UserID:     item.UserID,
			Username:   strings.TrimSpace(item.Username),
			PaidOrders: item.PaidOrders,
			PaidAmount: formatMoneyValue(item.PaidAmount),
		})
	}

	response := &DashboardRankingsResponse{
		Range:        window.rangeKey,
		From:         window.startAt.Format(time.RFC3339),
		To:           window.endAt.Add(-time.Second).Format(time.RFC3339),
		Timezone:     window.timezone,
		TopProducts:  products,
		TopCustomers: customers,
	}

	_ = cache.SetJSON(ctx, cacheKey, response, dashboardCacheTTL)
	return response, nil
}

func resolveDashboardWindow(input DashboardQueryInput, now time.Time) (dashboardWindow, error) {
	rangeKey := strings.ToLower(strings.TrimSpace(input.Range))
	if rangeKey == "" {
		rangeKey = "7d"
	}

	timezone := strings.TrimSpace(input.Timezone)
	location := time.Local
	if timezone != "" {
		if parsed, err := time.LoadLocation(timezone); err == nil {
			location = parsed
		} else {
			timezone = ""
		}
	}
	if timezone == "" {
		timezone = location.String()
	}

	localNow := now.In(location)
	todayStart := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, location)
	window := dashboardWindow{rangeKey: rangeKey, timezone: timezone}

	switch rangeKey {
	case "today":
		window.startAt = todayStart
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "7d":
		window.startAt = todayStart.AddDate(0, 0, -6)
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "30d":
		window.startAt = todayStart.AddDate(0, 0, -29)
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "custom":
		if input.From == nil || input.To == nil {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		startAt := input.From.In(location)
		endAt := input.To.In(location)
		if endAt.Before(startAt) {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		if endAt.Sub(startAt) > time.Hour*24*dashboardCustomMaxDays {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		window.startAt = startAt
		window.endAt = endAt.Add(time.Second)
	default:
		return dashboardWindow{}, ErrDashboardRangeInvalid
	}

	if !window.endAt.After(window.startAt) {
		return dashboardWindow{}, ErrDashboardRangeInvalid
	}
	return window, nil
}

func formatMoneyValue(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
