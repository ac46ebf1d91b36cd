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

// OrderService 订单服务
type OrderService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	paymentRepo  repository.PaymentRepository
	deliveryRepo repository.DeliveryRepository
	queueClient  *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, paymentRepo repository.PaymentRepository, deliveryRepo repository.DeliveryRepository, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		paymentRepo:  paymentRepo,
		deliveryRepo: deliveryRepo,
		queueClient:  queueClient,
	}
}

// GetOrderByUser 获取用户自己的订单详情
func (s *OrderService) GetOrderByUser(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersByUser 分页查询用户订单
func (s *OrderService) ListOrdersByUser(userID uint, page, pageSize int, status string) ([]models.Order, int64, error) {
	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   strings.TrimSpace(status),
	}
	orders, total, err := s.orderRepo.ListByUser(filter)
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	return orders, total, nil
}

// GetOrderForAdmin 后台获取订单详情
func (s *OrderService) GetOrderForAdmin(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersForAdmin 后台分页查询订单
func (s *OrderService) ListOrdersForAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	orders, total, err := s.orderRepo.ListAdmin(filter)
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	return orders, total, nil
}

// Cancel 取消订单：回补库存并关闭支付，已取消订单拒绝重复取消
func (s *OrderService) Cancel(orderID uint) (*models.Order, error) {
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		paymentRepo := s.paymentRepo.WithTx(tx)

		var order models.Order
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Status == constants.OrderStatusCancelled {
			return ErrOrderAlreadyCanceled
		}
		if !isOrderTransitionAllowed(order.Status, constants.OrderStatusCancelled) {
			return ErrOrderStatusInvalid
		}

		// 取消是唯一的库存回补路径
		for _, item := range order.Items {
			if _, err := productRepo.RestoreStock(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		now := time.Now()
		payment, err := paymentRepo.GetByOrderID(order.ID)
		if err != nil {
			return err
		}
		if payment != nil && payment.Status != constants.PaymentStatusFailed && payment.Status != constants.PaymentStatusRefunded {
			if err := paymentRepo.UpdateStatus(payment.ID, constants.PaymentStatusFailed, map[string]interface{}{
				"callback_at": now,
				"updated_at":  now,
			}); err != nil {
				return err
			}
		}

		if err := orderRepo.UpdateStatus(order.ID, constants.OrderStatusCancelled, map[string]interface{}{
			"canceled_at": now,
			"updated_at":  now,
		}); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) ||
			errors.Is(err, ErrOrderAlreadyCanceled) ||
			errors.Is(err, ErrOrderStatusInvalid) {
			return nil, err
		}
		logger.Errorw("order_cancel_transaction_failed", "order_id", orderID, "error", err)
		return nil, ErrOrderUpdateFailed
	}

	order, fetchErr := s.orderRepo.GetByID(orderID)
	if fetchErr != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	s.enqueueNotification(order.ID, order.UserID, order.Status)
	return order, nil
}

// Ship 发货：订单与物流同步推进，可补录运单号
func (s *OrderService) Ship(orderID uint, trackingNo string) (*models.Order, error) {
	return s.advance(orderID, constants.OrderStatusShipped, constants.DeliveryStatusShipped, strings.TrimSpace(trackingNo))
}

// Complete 确认送达并完结订单
func (s *OrderService) Complete(orderID uint) (*models.Order, error) {
	return s.advance(orderID, constants.OrderStatusCompleted, constants.DeliveryStatusDelivered, "")
}

func (s *OrderService) advance(orderID uint, targetOrder, targetDelivery, trackingNo string) (*models.Order, error) {
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		deliveryRepo := s.deliveryRepo.WithTx(tx)

		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Status != targetOrder && !isOrderTransitionAllowed(order.Status, targetOrder) {
			return ErrOrderStatusInvalid
		}

		now := time.Now()
		delivery, err := deliveryRepo.GetByOrderID(order.ID)
		if err != nil {
			return err
		}
		if delivery == nil {
			return ErrDeliveryNotFound
		}
		if delivery.Status != targetDelivery {
			if !isDeliveryTransitionAllowed(delivery.Status, targetDelivery) {
				return ErrDeliveryStatusInvalid
			}
			updates := map[string]interface{}{"updated_at": now}
			switch targetDelivery {
			case constants.DeliveryStatusShipped:
				updates["shipped_at"] = now
				if trackingNo != "" {
					updates["tracking_no"] = trackingNo
				}
			case constants.DeliveryStatusDelivered:
				updates["delivered_at"] = now
			}
			if err := deliveryRepo.UpdateStatus(delivery.ID, targetDelivery, updates); err != nil {
				return err
			}
		}

		if order.Status != targetOrder {
			if err := orderRepo.UpdateStatus(order.ID, targetOrder, map[string]interface{}{
				"updated_at": now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) ||
			errors.Is(err, ErrOrderStatusInvalid) ||
			errors.Is(err, ErrDeliveryNotFound) ||
			errors.Is(err, ErrDeliveryStatusInvalid) {
			return nil, err
		}
		logger.Errorw("order_advance_transaction_failed",
			"order_id", orderID,
			"target_status", targetOrder,
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
	s.enqueueNotification(order.ID, order.UserID, order.Status)
	return order, nil
}

func (s *OrderService) enqueueNotification(orderID, userID uint, status string) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueOrderNotification(queue.OrderNotificationPayload{
		OrderID: orderID,
		UserID:  userID,
		Status:  status,
	}); err != nil {
		logger.Warnw("order_enqueue_notification_failed",
			"order_id", orderID,
			"status", status,
			"error", err,
		)
	}
}
