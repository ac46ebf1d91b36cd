package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/meeplemarket/internal/constants"
	"github.com/meeplemarket/internal/models"
)

func TestPlaceOrderCODDeductsStockAndSnapshotsPrice(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	f.addToCart(t, f.Catan.ID, 2)
	svc := newCheckoutService(db)

	placed, err := svc.PlaceOrder(PlaceOrderInput{
		UserID:             f.User.ID,
		Address:            "东京都台东区 1-2-3",
		PaymentMethodCode:  constants.PaymentMethodCOD,
		DeliveryMethodCode: constants.DeliveryMethodStandard,
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if placed.RequiresSettlement {
		t.Fatalf("cod order should not require settlement")
	}

	order := placed.Order
	if order.Status != constants.OrderStatusAwaitingShipment {
		t.Fatalf("order status want awaiting_shipment got %s", order.Status)
	}
	if got := order.TotalAmount.String(); got != "6400.00" {
		t.Fatalf("order total want 6400.00 got %s", got)
	}
	if len(order.Items) != 1 {
		t.Fatalf("order items want 1 got %d", len(order.Items))
	}
	item := order.Items[0]
	if item.UnitPrice.String() != "3200.00" || item.Quantity != 2 {
		t.Fatalf("item snapshot want 3200.00 x2 got %s x%d", item.UnitPrice.String(), item.Quantity)
	}
	if item.Title != "卡坦岛" {
		t.Fatalf("item title snapshot want 卡坦岛 got %s", item.Title)
	}

	if got := f.stockOf(t, f.Catan.ID); got != 3 {
		t.Fatalf("stock after checkout want 3 got %d", got)
	}
	if got := f.cartCount(t); got != 0 {
		t.Fatalf("cart should be cleared for cod order, got %d rows", got)
	}
	if order.Payment == nil || order.Payment.Status != constants.PaymentStatusAuthorized {
		t.Fatalf("cod payment should be authorized")
	}
	if order.Delivery == nil || order.Delivery.Status != constants.DeliveryStatusPending {
		t.Fatalf("delivery should be created as pending")
	}
}

func TestPlaceOrderCardKeepsCartUntilSettlement(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	f.addToCart(t, f.Catan.ID, 1)
	svc := newCheckoutService(db)

	placed, err := svc.PlaceOrder(PlaceOrderInput{
		UserID:            f.User.ID,
		Address:           "大阪市北区 4-5-6",
		PaymentMethodCode: constants.PaymentMethodCard,
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if !placed.RequiresSettlement {
		t.Fatalf("card order should require settlement")
	}
	if placed.Order.Status != constants.OrderStatusNew {
		t.Fatalf("order status want new got %s", placed.Order.Status)
	}
	if placed.Order.Payment == nil || placed.Order.Payment.Status != constants.PaymentStatusPending {
		t.Fatalf("card payment should stay pending")
	}
	// 库存在下单时即预留
	if got := f.stockOf(t, f.Catan.ID); got != 4 {
		t.Fatalf("stock want 4 got %d", got)
	}
	// 购物车等结算成功后才清空
	if got := f.cartCount(t); got != 1 {
		t.Fatalf("cart should survive until settlement, got %d rows", got)
	}
}

func TestPlaceOrderOutOfStockRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	f.addToCart(t, f.Catan.ID, 1)
	f.addToCart(t, f.Pandemic.ID, 2) // 库存只有 1
	svc := newCheckoutService(db)

	_, err := svc.PlaceOrder(PlaceOrderInput{
		UserID:            f.User.ID,
		Address:           "名古屋市中区 7-8-9",
		PaymentMethodCode: constants.PaymentMethodCOD,
	})
	if !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("want ErrOutOfStock got %v", err)
	}
	if !strings.Contains(err.Error(), "瘟疫危机") {
		t.Fatalf("error should name the product, got %s", err.Error())
	}

	// 整单回滚：两件商品库存都不动，也不留下订单
	if got := f.stockOf(t, f.Catan.ID); got != 5 {
		t.Fatalf("catan stock want 5 got %d", got)
	}
	if got := f.stockOf(t, f.Pandemic.ID); got != 1 {
		t.Fatalf("pandemic stock want 1 got %d", got)
	}
	var orderCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("no order should persist, got %d", orderCount)
	}
	if got := f.cartCount(t); got != 2 {
		t.Fatalf("cart should be untouched, got %d rows", got)
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	svc := newCheckoutService(db)

	cases := []struct {
		name  string
		input PlaceOrderInput
		want  error
	}{
		{
			name:  "empty address",
			input: PlaceOrderInput{UserID: f.User.ID, Address: "  ", PaymentMethodCode: constants.PaymentMethodCOD},
			want:  ErrAddressRequired,
		},
		{
			name:  "unknown payment method",
			input: PlaceOrderInput{UserID: f.User.ID, Address: "somewhere", PaymentMethodCode: "crypto"},
			want:  ErrPaymentMethodInvalid,
		},
		{
			name:  "empty cart",
			input: PlaceOrderInput{UserID: f.User.ID, Address: "somewhere", PaymentMethodCode: constants.PaymentMethodCOD},
			want:  ErrCartEmpty,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.PlaceOrder(tc.input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("want %v got %v", tc.want, err)
			}
		})
	}
}

func TestOrderSnapshotSurvivesPriceChange(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	placed := placeCODOrder(t, db, f, 2)

	newPrice, err := models.NewMoneyFromString("4500.00")
	if err != nil {
		t.Fatalf("parse price failed: %v", err)
	}
	if err := db.Model(&models.Product{}).Where("id = ?", f.Catan.ID).
		Update("price_amount", newPrice).Error; err != nil {
		t.Fatalf("update price failed: %v", err)
	}

	// 调价只影响后续订单，已落库的快照保持下单时刻的价格
	order, err := newOrderService(db).GetOrderByUser(placed.ID, f.User.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if got := order.Items[0].UnitPrice.String(); got != "3200.00" {
		t.Fatalf("unit price snapshot want 3200.00 got %s", got)
	}
	if got := order.TotalAmount.String(); got != "6400.00" {
		t.Fatalf("order total snapshot want 6400.00 got %s", got)
	}
}

func TestPlaceOrderDefaultsToStandardDelivery(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	f.addToCart(t, f.Catan.ID, 1)

	placed, err := newCheckoutService(db).PlaceOrder(PlaceOrderInput{
		UserID:            f.User.ID,
		Address:           "京都市左京区 5-6-7",
		PaymentMethodCode: constants.PaymentMethodCOD,
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if placed.Order.Delivery == nil {
		t.Fatalf("delivery should be created")
	}
	if placed.Order.Delivery.MethodID != f.StandardMethod.ID {
		t.Fatalf("delivery method want standard(%d) got %d",
			f.StandardMethod.ID, placed.Order.Delivery.MethodID)
	}
}
