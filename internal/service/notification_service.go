package service

import (
	"fmt"
	"time"

	"github.com/meeplemarket/internal/constants"
	"github.com/meeplemarket/internal/models"
	"github.com/meeplemarket/internal/repository"
)

// NotificationService 站内通知服务
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	orderRepo        repository.OrderRepository
}

// NewNotificationService 创建通知服务
func NewNotificationService(notificationRepo repository.NotificationRepository, orderRepo repository.OrderRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo, orderRepo: orderRepo}
}

// ListByUser 分页查询用户通知
func (s *NotificationService) ListByUser(userID uint, page, pageSize int, onlyUnread bool) ([]models.Notification, int64, error) {
	return s.notificationRepo.ListByUser(repository.NotificationListFilter{
		Page:       page,
		PageSize:   pageSize,
		UserID:     userID,
		OnlyUnread: onlyUnread,
	})
}

// MarkRead 标记通知已读，仅限本人
func (s *NotificationService) MarkRead(id, userID uint) error {
	affected, err := s.notificationRepo.MarkRead(id, userID, time.Now())
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// 状态到通知文案的映射
var orderStatusNotifications = map[string]struct {
	bizType string
	title   string
	body    string
}{
	constants.OrderStatusAwaitingShipment: {constants.NotificationBizTypeOrder, "订单已确认", "订单 %s 已确认，等待发货。"},
	constants.OrderStatusPaid:             {constants.NotificationBizTypePayment, "支付成功", "订单 %s 已支付成功。"},
	constants.OrderStatusPaymentFailed:    {constants.NotificationBizTypePayment, "支付失败", "订单 %s 支付失败，请重新发起结算。"},
	constants.OrderStatusShipped:          {constants.NotificationBizTypeDelivery, "订单已发货", "订单 %s 已发货。"},
	constants.OrderStatusCompleted:        {constants.NotificationBizTypeDelivery, "订单已完成", "订单 %s 已送达并完成。"},
	constants.OrderStatusCancelled:        {constants.NotificationBizTypeOrder, "订单已取消", "订单 %s 已取消，占用库存已释放。"},
}

// CreateFromOrderStatus 根据订单状态落通知（由队列 worker 调用）
func (s *NotificationService) CreateFromOrderStatus(orderID, userID uint, status string) (*models.Notification, error) {
	tpl, ok := orderStatusNotifications[status]
	if !ok {
		// 未映射的状态不落通知
		return nil, nil
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	notification := &models.Notification{
		UserID:  userID,
		BizType: tpl.bizType,
		OrderID: orderID,
		Title:   tpl.title,
		Body:    fmt.Sprintf(tpl.body, order.OrderNo),
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		return nil, err
	}
	return notification, nil
}
