package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/meeplemarket/internal/repository"
)

func timePtr(v time.Time) *time.Time { return &v }

func TestResolveDashboardWindow(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	t.Run("default_range_is_7d", func(t *testing.T) {
		window, err := resolveDashboardWindow(DashboardQueryInput{Timezone: "UTC"}, now)
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if window.rangeKey != "7d" {
			t.Fatalf("range want 7d got %s", window.rangeKey)
		}
		if got := window.endAt.Sub(window.startAt); got != 7*24*time.Hour {
			t.Fatalf("window span want 7d got %v", got)
		}
	})

	t.Run("today_covers_local_day", func(t *testing.T) {
		window, err := resolveDashboardWindow(DashboardQueryInput{Range: "today", Timezone: "UTC"}, now)
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if !window.startAt.Equal(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)) {
			t.Fatalf("start want local midnight got %v", window.startAt)
		}
	})

	t.Run("custom_requires_bounds", func(t *testing.T) {
		if _, err := resolveDashboardWindow(DashboardQueryInput{Range: "custom"}, now); !errors.Is(err, ErrDashboardRangeInvalid) {
			t.Fatalf("missing bounds want ErrDashboardRangeInvalid got %v", err)
		}
	})

	t.Run("custom_rejects_inverted_bounds", func(t *testing.T) {
		input := DashboardQueryInput{
			Range: "custom",
			From:  timePtr(now),
			To:    timePtr(now.AddDate(0, 0, -1)),
		}
		if _, err := resolveDashboardWindow(input, now); !errors.Is(err, ErrDashboardRangeInvalid) {
			t.Fatalf("inverted bounds want ErrDashboardRangeInvalid got %v", err)
		}
	})

	t.Run("custom_rejects_window_over_limit", func(t *testing.T) {
		input := DashboardQueryInput{
			Range: "custom",
			From:  timePtr(now.AddDate(0, 0, -120)),
			To:    timePtr(now),
		}
		if _, err := resolveDashboardWindow(input, now); !errors.Is(err, ErrDashboardRangeInvalid) {
			t.Fatalf("oversized window want ErrDashboardRangeInvalid got %v", err)
		}
	})

	t.Run("unknown_range_rejected", func(t *testing.T) {
		if _, err := resolveDashboardWindow(DashboardQueryInput{Range: "quarter"}, now); !errors.Is(err, ErrDashboardRangeInvalid) {
			t.Fatalf("unknown range want ErrDashboardRangeInvalid got %v", err)
		}
	})
}

func TestGetOverviewAggregatesOrders(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	svc := NewDashboardService(repository.NewDashboardRepository(db))

	// 一单待发货（计入营收），一单取消（回补后不计）
	placed := placeCODOrder(t, db, f, 2)
	canceled := placeCODOrder(t, db, f, 1)
	if _, err := newOrderService(db).Cancel(canceled.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	overview, err := svc.GetOverview(context.Background(), DashboardQueryInput{Range: "today"})
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	if overview.KPI.OrdersTotal != 2 {
		t.Fatalf("orders total want 2 got %d", overview.KPI.OrdersTotal)
	}
	if overview.KPI.PaidOrders != 1 {
		t.Fatalf("paid orders want 1 got %d", overview.KPI.PaidOrders)
	}
	if overview.KPI.CancelledOrders != 1 {
		t.Fatalf("cancelled orders want 1 got %d", overview.KPI.CancelledOrders)
	}
	if overview.KPI.Revenue != "6400.00" {
		t.Fatalf("revenue want 6400.00 got %s", overview.KPI.Revenue)
	}
	if overview.KPI.AvgOrderValue != "6400.00" {
		t.Fatalf("avg order value want 6400.00 got %s", overview.KPI.AvgOrderValue)
	}
	if overview.KPI.ActiveProducts != 2 {
		t.Fatalf("active products want 2 got %d", overview.KPI.ActiveProducts)
	}
	if overview.Currency != "JPY" {
		t.Fatalf("currency want JPY got %s", overview.Currency)
	}
	if placed.OrderNo == "" {
		t.Fatalf("order no should be generated")
	}
}

func TestGetSalesAndRankings(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	svc := NewDashboardService(repository.NewDashboardRepository(db))

	placeCODOrder(t, db, f, 2)

	sales, err := svc.GetSalesByDay(context.Background(), DashboardQueryInput{Range: "today"})
	if err != nil {
		t.Fatalf("sales failed: %v", err)
	}
	if len(sales.Points) != 1 {
		t.Fatalf("sales points want 1 day got %d", len(sales.Points))
	}
	if sales.Points[0].OrdersPaid != 1 || sales.Points[0].Revenue != "6400.00" {
		t.Fatalf("sales point mismatch: %+v", sales.Points[0])
	}

	rankings, err := svc.GetRankings(context.Background(), DashboardQueryInput{Range: "today"})
	if err != nil {
		t.Fatalf("rankings failed: %v", err)
	}
	if len(rankings.TopProducts) != 1 {
		t.Fatalf("top products want 1 got %d", len(rankings.TopProducts))
	}
	top := rankings.TopProducts[0]
	if top.ProductID != f.Catan.ID || top.Quantity != 2 || top.Title != "卡坦岛" {
		t.Fatalf("top product mismatch: %+v", top)
	}
	if len(rankings.TopCustomers) != 1 || rankings.TopCustomers[0].Username != "meeplefan" {
		t.Fatalf("top customers mismatch: %+v", rankings.TopCustomers)
	}
}
