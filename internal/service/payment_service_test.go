package service

import (
	"errors"
	"testing"

	"github.com/meeplemarket/internal/constants"
	"github.com/meeplemarket/internal/models"

	"gorm.io/gorm"
)

// placeCardOrder 准备一笔待结算的信用卡订单
func placeCardOrder(t *testing.T, db *gorm.DB, f *storeFixtures, quantity int) *PlacedOrder {
	t.Helper()
	f.addToCart(t, f.Catan.ID, quantity)
	placed, err := newCheckoutService(db).PlaceOrder(PlaceOrderInput{
		UserID:            f.User.ID,
		Address:           "东京都涩谷区 1-1-1",
		PaymentMethodCode: constants.PaymentMethodCard,
	})
	if err != nil {
		t.Fatalf("place card order failed: %v", err)
	}
	return placed
}

func TestSettleSuccessMarksPaidAndClearsCart(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	placed := placeCardOrder(t, db, f, 2)
	svc := newPaymentService(db)

	order, err := svc.Settle(SettleInput{
		PaymentID:   placed.PaymentID,
		Outcome:     constants.SettleOutcomeSuccess,
		ActorUserID: f.User.ID,
		ActorRole:   constants.UserRoleClient,
		ProviderRef: "mock-abc-123",
	})
	if err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	if order.Status != constants.OrderStatusPaid {
		t.Fatalf("order status want paid got %s", order.Status)
	}
	if order.PaidAt == nil {
		t.Fatalf("paid_at should be set")
	}
	if order.Payment == nil || order.Payment.Status != constants.PaymentStatusPaid {
		t.Fatalf("payment should be paid")
	}
	if order.Payment.ProviderRef != "mock-abc-123" {
		t.Fatalf("provider_ref want mock-abc-123 got %s", order.Payment.ProviderRef)
	}
	if got := f.cartCount(t); got != 0 {
		t.Fatalf("cart should be cleared after successful settlement, got %d rows", got)
	}
}

func TestSettleIsIdempotentForSameOutcome(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	placed := placeCardOrder(t, db, f, 1)
	svc := newPaymentService(db)

	input := SettleInput{
		PaymentID:   placed.PaymentID,
		Outcome:     constants.SettleOutcomeSuccess,
		ActorUserID: f.User.ID,
		ActorRole:   constants.UserRoleClient,
	}
	if _, err := svc.Settle(input); err != nil {
		t.Fatalf("first settle failed: %v", err)
	}
	// 同态重放不报错也不改变状态
	order, err := svc.Settle(input)
	if err != nil {
		t.Fatalf("replayed settle should be idempotent, got %v", err)
	}
	if order.Status != constants.OrderStatusPaid {
		t.Fatalf("order status want paid got %s", order.Status)
	}
}

func TestSettleFailureKeepsStockReserved(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	placed := placeCardOrder(t, db, f, 2)
	svc := newPaymentService(db)

	order, err := svc.Settle(SettleInput{
		PaymentID:   placed.PaymentID,
		Outcome:     constants.SettleOutcomeFailure,
		ActorUserID: f.User.ID,
		ActorRole:   constants.UserRoleClient,
	})
	if err != nil {
		t.Fatalf("settle failure path errored: %v", err)
	}
	if order.Status != constants.OrderStatusPaymentFailed {
		t.Fatalf("order status want payment_failed got %s", order.Status)
	}
	if order.Payment == nil || order.Payment.Status != constants.PaymentStatusFailed {
		t.Fatalf("payment should be failed")
	}
	// 失败不回补库存，回补只走显式取消
	if got := f.stockOf(t, f.Catan.ID); got != 3 {
		t.Fatalf("stock want 3 got %d", got)
	}
}

func TestSettleRejectsTerminalPayment(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	placed := placeCardOrder(t, db, f, 1)
	svc := newPaymentService(db)

	if _, err := svc.Settle(SettleInput{
		PaymentID:   placed.PaymentID,
		Outcome:     constants.SettleOutcomeFailure,
		ActorUserID: f.User.ID,
		ActorRole:   constants.UserRoleClient,
	}); err != nil {
		t.Fatalf("settle failure errored: %v", err)
	}

	// failed 是终态，不能再翻转成 paid
	_, err := svc.Settle(SettleInput{
		PaymentID:   placed.PaymentID,
		Outcome:     constants.SettleOutcomeSuccess,
		ActorUserID: f.User.ID,
		ActorRole:   constants.UserRoleClient,
	})
	if !errors.Is(err, ErrPaymentStatusInvalid) {
		t.Fatalf("want ErrPaymentStatusInvalid got %v", err)
	}
}

func TestSettleAmountMismatchGuard(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	placed := placeCardOrder(t, db, f, 1)
	svc := newPaymentService(db)

	// 模拟订单总额被篡改后的不一致
	if err := db.Model(&models.Order{}).Where("id = ?", placed.Order.ID).
		Update("total_amount", "9999.00").Error; err != nil {
		t.Fatalf("tamper order total failed: %v", err)
	}

	_, err := svc.Settle(SettleInput{
		PaymentID:   placed.PaymentID,
		Outcome:     constants.SettleOutcomeSuccess,
		ActorUserID: f.User.ID,
		ActorRole:   constants.UserRoleClient,
	})
	if !errors.Is(err, ErrPaymentAmountMismatch) {
		t.Fatalf("want ErrPaymentAmountMismatch got %v", err)
	}
}

func TestSettleAuthorization(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	placed := placeCardOrder(t, db, f, 1)
	svc := newPaymentService(db)

	// 其他普通用户不能操作别人的支付单
	_, err := svc.Settle(SettleInput{
		PaymentID:   placed.PaymentID,
		Outcome:     constants.SettleOutcomeSuccess,
		ActorUserID: f.User.ID + 1000,
		ActorRole:   constants.UserRoleClient,
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized got %v", err)
	}

	// 后台人员可以代为结算
	order, err := svc.Settle(SettleInput{
		PaymentID:   placed.PaymentID,
		Outcome:     constants.SettleOutcomeSuccess,
		ActorUserID: f.Staff.ID,
		ActorRole:   constants.UserRoleManager,
	})
	if err != nil {
		t.Fatalf("staff settle failed: %v", err)
	}
	if order.Status != constants.OrderStatusPaid {
		t.Fatalf("order status want paid got %s", order.Status)
	}
}

func TestSettleUnknownOutcomeAndPayment(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	svc := newPaymentService(db)

	if _, err := svc.Settle(SettleInput{PaymentID: 1, Outcome: "maybe", ActorUserID: f.User.ID}); !errors.Is(err, ErrSettleOutcomeInvalid) {
		t.Fatalf("want ErrSettleOutcomeInvalid got %v", err)
	}
	if _, err := svc.Settle(SettleInput{PaymentID: 404, Outcome: constants.SettleOutcomeSuccess, ActorUserID: f.User.ID}); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("want ErrPaymentNotFound got %v", err)
	}
}
