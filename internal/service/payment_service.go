package service

import (
	"errors"
	"strings"
	"time"

	"github.com/meeplemarket/internal/constants"
	"github.com/meeplemarket/internal/logger"
	"github.com/meeplemarket/internal/models"
	"github.com/meeplemarket/internal/queue"
	"github.com/meeplemarket/internal/repository"

	"gorm.io/gorm"
)

// PaymentService 支付服务（模拟结算）
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	queueClient *queue.Client
}

// NewPaymentService 创建支付服务
func NewPaymentService(paymentRepo repository.PaymentRepository, orderRepo repository.OrderRepository, cartRepo repository.CartRepository, queueClient *queue.Client) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		queueClient: queueClient,
	}
}

// SettleInput 结算输入
type SettleInput struct {
	PaymentID   uint
	Outcome     string
	ActorUserID uint
	ActorRole   string
	ProviderRef string
}

func isStaffRole(role string) bool {
	switch strings.TrimSpace(role) {
	case constants.UserRoleManager, constants.UserRoleAdmin:
		return true
	default:
		return false
	}
}

// Settle 模拟结算：行锁支付记录串行化并发回调，终态不可逆转
func (s *PaymentService) Settle(input SettleInput) (*models.Order, error) {
	outcome := strings.ToLower(strings.TrimSpace(input.Outcome))
	if outcome != constants.SettleOutcomeSuccess && outcome != constants.SettleOutcomeFailure {
		return nil, ErrSettleOutcomeInvalid
	}

	targetPayment := constants.PaymentStatusPaid
	targetOrder := constants.OrderStatusPaid
	if outcome == constants.SettleOutcomeFailure {
		targetPayment = constants.PaymentStatusFailed
		targetOrder = constants.OrderStatusPaymentFailed
	}

	var orderID uint
	var changed bool
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		paymentRepo := s.paymentRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		payment, err := paymentRepo.GetByIDLocked(input.PaymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return ErrPaymentNotFound
		}

		var order models.Order
		if err := tx.First(&order, payment.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		orderID = order.ID

		if order.UserID != input.ActorUserID && !isStaffRole(input.ActorRole) {
			return ErrUnauthorized
		}

		// 同态重入幂等成功，不再触发任何副作用
		if payment.Status == targetPayment {
			return nil
		}
		// 一致性守卫：支付金额必须与订单总额一致
		if !payment.Amount.Decimal.Equal(order.TotalAmount.Decimal) {
			return ErrPaymentAmountMismatch
		}
		if !isPaymentTransitionAllowed(payment.Status, targetPayment) {
			return ErrPaymentStatusInvalid
		}
		if order.Status != targetOrder && !isOrderTransitionAllowed(order.Status, targetOrder) {
			return ErrOrderStatusInvalid
		}

		now := time.Now()
		paymentUpdates := map[string]interface{}{
			"callback_at": now,
			"updated_at":  now,
		}
		if ref := strings.TrimSpace(input.ProviderRef); ref != "" {
			paymentUpdates["provider_ref"] = ref
		}

		if outcome == constants.SettleOutcomeSuccess {
			paymentUpdates["paid_at"] = now
			if err := paymentRepo.UpdateStatus(payment.ID, constants.PaymentStatusPaid, paymentUpdates); err != nil {
				return err
			}
			if err := orderRepo.UpdateStatus(order.ID, constants.OrderStatusPaid, map[string]interface{}{
				"paid_at":    now,
				"updated_at": now,
			}); err != nil {
				return err
			}
			// 支付成功后兜底清空购物车
			if err := cartRepo.ClearByUser(order.UserID); err != nil {
				return err
			}
		} else {
			if err := paymentRepo.UpdateStatus(payment.ID, constants.PaymentStatusFailed, paymentUpdates); err != nil {
				return err
			}
			// 失败不回补库存，库存回补只走显式取消
			if err := orderRepo.UpdateStatus(order.ID, constants.OrderStatusPaymentFailed, map[string]interface{}{
				"updated_at": now,
			}); err != nil {
				return err
			}
		}
		changed = true
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) ||
			errors.Is(err, ErrOrderNotFound) ||
			errors.Is(err, ErrUnauthorized) ||
			errors.Is(err, ErrPaymentAmountMismatch) ||
			errors.Is(err, ErrPaymentStatusInvalid) ||
			errors.Is(err, ErrOrderStatusInvalid) {
			return nil, err
		}
		logger.Errorw("payment_settle_transaction_failed",
			"payment_id", input.PaymentID,
			"outcome", outcome,
			"error", err,
		)
		return nil, ErrOrderUpdateFailed
	}

	order, fetchErr := s.orderRepo.GetByID(orderID)
	if fetchErr != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if changed {
		s.enqueueNotification(order.ID, order.UserID, order.Status)
	}
	return order, nil
}

// GetByOrder 获取订单支付记录（属主或后台人员）
func (s *PaymentService) GetByOrder(orderID, actorUserID uint, actorRole string) (*models.Payment, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != actorUserID && !isStaffRole(actorRole) {
		return nil, ErrUnauthorized
	}
	payment, err := s.paymentRepo.GetByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

func (s *PaymentService) enqueueNotification(orderID, userID uint, status string) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueOrderNotification(queue.OrderNotificationPayload{
		OrderID: orderID,
		UserID:  userID,
		Status:  status,
	}); err != nil {
		logger.Warnw("payment_enqueue_notification_failed",
			"order_id", orderID,
			"status", status,
			"error", err,
		)
	}
}
