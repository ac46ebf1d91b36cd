package repository

import (
	"time"

	"github.com/meeplemarket/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository 通知数据访问接口
type NotificationRepository interface {
	Create(notification *models.Notification) error
	ListByUser(filter NotificationListFilter) ([]models.Notification, int64, error)
	MarkRead(id uint, userID uint, at time.Time) (int64, error)
}

// GormNotificationRepository GORM 实现
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository 创建通知仓库
func NewNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create 写入通知
func (r *GormNotificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// ListByUser 用户通知列表
func (r *GormNotificationRepository) ListByUser(filter NotificationListFilter) ([]models.Notification, int64, error) {
	query := r.db.Model(&models.Notification{}).Where("user_id = ?", filter.UserID)
	if filter.OnlyUnread {
		query = query.Where("read_at IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var notifications []models.Notification
	if err := query.Order("id desc").Find(&notifications).Error; err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// MarkRead 标记通知为已读，返回影响行数
func (r *GormNotificationRepository) MarkRead(id uint, userID uint, at time.Time) (int64, error) {
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", id, userID).
		Update("read_at", at)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
