package service

import (
	"errors"
	"testing"

	"github.com/meeplemarket/internal/constants"
	"github.com/meeplemarket/internal/models"

	"gorm.io/gorm"
)

// placeCODOrder 准备一笔货到付款订单（下单即进入待发货）
func placeCODOrder(t *testing.T, db *gorm.DB, f *storeFixtures, quantity int) *models.Order {
	t.Helper()
	f.addToCart(t, f.Catan.ID, quantity)
	placed, err := newCheckoutService(db).PlaceOrder(PlaceOrderInput{
		UserID:            f.User.ID,
		Address:           "大阪市北区 2-3-4",
		PaymentMethodCode: constants.PaymentMethodCOD,
	})
	if err != nil {
		t.Fatalf("place cod order failed: %v", err)
	}
	return placed.Order
}

func TestCancelRestoresStockAndFailsPayment(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	placed := placeCODOrder(t, db, f, 2)
	svc := newOrderService(db)

	if got := f.stockOf(t, f.Catan.ID); got != 3 {
		t.Fatalf("stock after order want 3 got %d", got)
	}

	order, err := svc.Cancel(placed.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if order.Status != constants.OrderStatusCancelled {
		t.Fatalf("order status want cancelled got %s", order.Status)
	}
	if order.CanceledAt == nil {
		t.Fatalf("canceled_at should be set")
	}
	if got := f.stockOf(t, f.Catan.ID); got != 5 {
		t.Fatalf("stock should be restored to 5, got %d", got)
	}
	if order.Payment == nil || order.Payment.Status != constants.PaymentStatusFailed {
		t.Fatalf("payment should be closed as failed on cancel")
	}
}

func TestCancelTwiceRejected(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	placed := placeCODOrder(t, db, f, 1)
	svc := newOrderService(db)

	if _, err := svc.Cancel(placed.ID); err != nil {
		t.Fatalf("first cancel failed: %v", err)
	}
	if _, err := svc.Cancel(placed.ID); !errors.Is(err, ErrOrderAlreadyCanceled) {
		t.Fatalf("want ErrOrderAlreadyCanceled got %v", err)
	}
	// 重复取消不能再回补库存
	if got := f.stockOf(t, f.Catan.ID); got != 5 {
		t.Fatalf("stock should stay at 5, got %d", got)
	}
}

func TestShipThenComplete(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	placed := placeCODOrder(t, db, f, 1)
	svc := newOrderService(db)

	order, err := svc.Ship(placed.ID, "JP1234567890")
	if err != nil {
		t.Fatalf("ship failed: %v", err)
	}
	if order.Status != constants.OrderStatusShipped {
		t.Fatalf("order status want shipped got %s", order.Status)
	}
	if order.Delivery == nil {
		t.Fatalf("delivery should be loaded")
	}
	if order.Delivery.Status != constants.DeliveryStatusShipped {
		t.Fatalf("delivery status want shipped got %s", order.Delivery.Status)
	}
	if order.Delivery.TrackingNo != "JP1234567890" {
		t.Fatalf("tracking_no want JP1234567890 got %s", order.Delivery.TrackingNo)
	}
	if order.Delivery.ShippedAt == nil {
		t.Fatalf("shipped_at should be set")
	}

	order, err = svc.Complete(placed.ID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if order.Status != constants.OrderStatusCompleted {
		t.Fatalf("order status want completed got %s", order.Status)
	}
	if order.Delivery.Status != constants.DeliveryStatusDelivered {
		t.Fatalf("delivery status want delivered got %s", order.Delivery.Status)
	}
	if order.Delivery.DeliveredAt == nil {
		t.Fatalf("delivered_at should be set")
	}
}

func TestShipIsIdempotentAtTarget(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	placed := placeCODOrder(t, db, f, 1)
	svc := newOrderService(db)

	if _, err := svc.Ship(placed.ID, "JP000"); err != nil {
		t.Fatalf("first ship failed: %v", err)
	}
	order, err := svc.Ship(placed.ID, "JP999")
	if err != nil {
		t.Fatalf("repeat ship should be a no-op, got %v", err)
	}
	// 已发货订单重复发货不覆盖运单号
	if order.Delivery.TrackingNo != "JP000" {
		t.Fatalf("tracking_no should keep JP000, got %s", order.Delivery.TrackingNo)
	}
}

func TestCompleteBeforeShipRejected(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	placed := placeCODOrder(t, db, f, 1)
	svc := newOrderService(db)

	if _, err := svc.Complete(placed.ID); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("want ErrOrderStatusInvalid got %v", err)
	}
}

func TestCancelAfterShipRejected(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	placed := placeCODOrder(t, db, f, 2)
	svc := newOrderService(db)

	if _, err := svc.Ship(placed.ID, ""); err != nil {
		t.Fatalf("ship failed: %v", err)
	}
	if _, err := svc.Cancel(placed.ID); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("want ErrOrderStatusInvalid got %v", err)
	}
	// 失败的取消不能动库存
	if got := f.stockOf(t, f.Catan.ID); got != 3 {
		t.Fatalf("stock should stay reserved at 3, got %d", got)
	}
}

func TestGetOrderByUserScopesOwner(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	placed := placeCODOrder(t, db, f, 1)
	svc := newOrderService(db)

	order, err := svc.GetOrderByUser(placed.ID, f.User.ID)
	if err != nil {
		t.Fatalf("owner fetch failed: %v", err)
	}
	if len(order.Items) != 1 {
		t.Fatalf("items should be preloaded, got %d", len(order.Items))
	}

	if _, err := svc.GetOrderByUser(placed.ID, f.Staff.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("other user should get ErrOrderNotFound, got %v", err)
	}
	if _, err := svc.Cancel(9999); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("missing order cancel want ErrOrderNotFound got %v", err)
	}
}
