package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/meeplemarket/internal/constants"
	"github.com/meeplemarket/internal/logger"
	"github.com/meeplemarket/internal/models"
	"github.com/meeplemarket/internal/queue"
	"github.com/meeplemarket/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CheckoutService 下单服务：购物车到订单的原子转换
type CheckoutService struct {
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	cartRepo      repository.CartRepository
	paymentRepo   repository.PaymentRepository
	deliveryRepo  repository.DeliveryRepository
	referenceRepo repository.ReferenceRepository
	queueClient   *queue.Client
	currency      string
}

// NewCheckoutService 创建下单服务
func NewCheckoutService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, cartRepo repository.CartRepository, paymentRepo repository.PaymentRepository, deliveryRepo repository.DeliveryRepository, referenceRepo repository.ReferenceRepository, queueClient *queue.Client, currency string) *CheckoutService {
	if strings.TrimSpace(currency) == "" {
		currency = constants.SiteCurrencyDefault
	}
	return &CheckoutService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		cartRepo:      cartRepo,
		paymentRepo:   paymentRepo,
		deliveryRepo:  deliveryRepo,
		referenceRepo: referenceRepo,
		queueClient:   queueClient,
		currency:      currency,
	}
}

// PlaceOrderInput 下单输入
type PlaceOrderInput struct {
	UserID             uint
	Address            string
	PaymentMethodCode  string
	DeliveryMethodCode string
}

// PlacedOrder 下单结果
type PlacedOrder struct {
	Order *models.Order `json:"order"`
	// 非货到付款方式需要调用方继续走结算流程
	RequiresSettlement bool `json:"requires_settlement"`
	PaymentID          uint `json:"payment_id"`
}

// PlaceOrder 原子下单：库存校验在事务内完成，任何失败整体回滚
func (s *CheckoutService) PlaceOrder(input PlaceOrderInput) (*PlacedOrder, error) {
	if input.UserID == 0 {
		return nil, ErrCartItemInvalid
	}
	address := strings.TrimSpace(input.Address)
	if address == "" {
		return nil, ErrAddressRequired
	}

	paymentMethod, err := s.referenceRepo.GetPaymentMethodByCode(strings.TrimSpace(input.PaymentMethodCode))
	if err != nil {
		return nil, err
	}
	if paymentMethod == nil || !paymentMethod.IsActive {
		return nil, ErrPaymentMethodInvalid
	}

	deliveryCode := strings.TrimSpace(input.DeliveryMethodCode)
	if deliveryCode == "" {
		deliveryCode = constants.DeliveryMethodStandard
	}
	deliveryMethod, err := s.referenceRepo.GetDeliveryMethodByCode(deliveryCode)
	if err != nil {
		return nil, err
	}
	if deliveryMethod == nil || !deliveryMethod.IsActive {
		return nil, ErrDeliveryMethodInvalid
	}

	lines, err := s.cartRepo.ListByUser(input.UserID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	now := time.Now()
	order := &models.Order{
		OrderNo:     generateOrderNo(),
		UserID:      input.UserID,
		Status:      constants.OrderStatusNew,
		Currency:    s.currency,
		TotalAmount: models.NewMoneyFromDecimal(decimal.Zero),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	cod := paymentMethod.IsCashOnDelivery
	payment := &models.Payment{}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)
		paymentRepo := s.paymentRepo.WithTx(tx)
		deliveryRepo := s.deliveryRepo.WithTx(tx)

		if err := orderRepo.Create(order, nil); err != nil {
			return err
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			if line.Quantity <= 0 {
				return ErrCartItemInvalid
			}
			var product models.Product
			if err := tx.First(&product, line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotAvailable
				}
				return err
			}
			if !product.IsActive {
				return ErrProductNotAvailable
			}

			// 条件扣减：影响行数为 0 即库存不足，整单回滚
			affected, err := productRepo.ReserveStock(product.ID, line.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return fmt.Errorf("%w: %s", ErrOutOfStock, product.Title)
			}

			unitPrice := product.PriceAmount.Decimal.Round(2)
			lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
			total = total.Add(lineTotal).Round(2)
			items = append(items, models.OrderItem{
				OrderID:    order.ID,
				ProductID:  product.ID,
				Title:      product.Title,
				UnitPrice:  models.NewMoneyFromDecimal(unitPrice),
				Quantity:   line.Quantity,
				TotalPrice: models.NewMoneyFromDecimal(lineTotal),
				CreatedAt:  now,
				UpdatedAt:  now,
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		// 订单总额取事务内累计值，而非购物车展示价
		order.TotalAmount = models.NewMoneyFromDecimal(total)
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"total_amount": order.TotalAmount,
			"updated_at":   now,
		}).Error; err != nil {
			return err
		}

		delivery := &models.Delivery{
			OrderID:   order.ID,
			MethodID:  deliveryMethod.ID,
			Status:    constants.DeliveryStatusPending,
			Address:   address,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := deliveryRepo.Create(delivery); err != nil {
			return err
		}

		payment.OrderID = order.ID
		payment.MethodID = paymentMethod.ID
		payment.Amount = order.TotalAmount
		payment.Currency = order.Currency
		payment.Status = constants.PaymentStatusPending
		payment.CreatedAt = now
		payment.UpdatedAt = now
		if err := paymentRepo.Create(payment); err != nil {
			return err
		}

		if cod {
			// 货到付款：直接授权并进入待发货，购物车清空
			if err := paymentRepo.UpdateStatus(payment.ID, constants.PaymentStatusAuthorized, map[string]interface{}{
				"updated_at": now,
			}); err != nil {
				return err
			}
			if err := orderRepo.UpdateStatus(order.ID, constants.OrderStatusAwaitingShipment, map[string]interface{}{
				"updated_at": now,
			}); err != nil {
				return err
			}
			if err := cartRepo.ClearByUser(input.UserID); err != nil {
				return err
			}
			payment.Status = constants.PaymentStatusAuthorized
			order.Status = constants.OrderStatusAwaitingShipment
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrOutOfStock) ||
			errors.Is(err, ErrCartItemInvalid) ||
			errors.Is(err, ErrProductNotAvailable) {
			return nil, err
		}
		logger.Errorw("checkout_transaction_failed",
			"user_id", input.UserID,
			"order_no", order.OrderNo,
			"error", err,
		)
		return nil, ErrOrderCreateFailed
	}

	if cod {
		s.enqueueNotification(order.ID, order.UserID, order.Status)
	}

	full, err := s.orderRepo.GetByID(order.ID)
	if err == nil && full != nil {
		return &PlacedOrder{Order: full, RequiresSettlement: !cod, PaymentID: payment.ID}, nil
	}
	return &PlacedOrder{Order: order, RequiresSettlement: !cod, PaymentID: payment.ID}, nil
}

func (s *CheckoutService) enqueueNotification(orderID, userID uint, status string) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueOrderNotification(queue.OrderNotificationPayload{
		OrderID: orderID,
		UserID:  userID,
		Status:  status,
	}); err != nil {
		// 队列不可用只记日志，不影响已提交的业务结果
		logger.Warnw("order_enqueue_notification_failed",
			"order_id", orderID,
			"status", status,
			"error", err,
		)
	}
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("MM%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
