package repository

import (
	"errors"

	"github.com/meeplemarket/internal/models"

	"gorm.io/gorm"
)

// ReferenceRepository 支付方式 / 配送方式等参照数据访问接口
type ReferenceRepository interface {
	ListPaymentMethods(activeOnly bool) ([]models.PaymentMethod, error)
	GetPaymentMethodByCode(code string) (*models.PaymentMethod, error)
	ListDeliveryMethods(activeOnly bool) ([]models.DeliveryMethod, error)
	GetDeliveryMethodByCode(code string) (*models.DeliveryMethod, error)
	ListPlayerRanges() ([]models.PlayerRange, error)
}

// GormReferenceRepository GORM 实现
type GormReferenceRepository struct {
	db *gorm.DB
}

// NewReferenceRepository 创建参照数据仓库
func NewReferenceRepository(db *gorm.DB) *GormReferenceRepository {
	return &GormReferenceRepository{db: db}
}

// ListPaymentMethods 支付方式列表
func (r *GormReferenceRepository) ListPaymentMethods(activeOnly bool) ([]models.PaymentMethod, error) {
	query := r.db.Model(&models.PaymentMethod{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var methods []models.PaymentMethod
	if err := query.Order("sort_order DESC, id ASC").Find(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}

// GetPaymentMethodByCode 根据编码获取支付方式
func (r *GormReferenceRepository) GetPaymentMethodByCode(code string) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	if err := r.db.Where("code = ?", code).First(&method).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &method, nil
}

// ListDeliveryMethods 配送方式列表
func (r *GormReferenceRepository) ListDeliveryMethods(activeOnly bool) ([]models.DeliveryMethod, error) {
	query := r.db.Model(&models.DeliveryMethod{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var methods []models.DeliveryMethod
	if err := query.Order("sort_order DESC, id ASC").Find(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}

// GetDeliveryMethodByCode 根据编码获取配送方式
func (r *GormReferenceRepository) GetDeliveryMethodByCode(code string) (*models.DeliveryMethod, error) {
	var method models.DeliveryMethod
	if err := r.db.Where("code = ?", code).First(&method).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &method, nil
}

// ListPlayerRanges 人数区间列表
func (r *GormReferenceRepository) ListPlayerRanges() ([]models.PlayerRange, error) {
	var ranges []models.PlayerRange
	if err := r.db.Order("min_players ASC, max_players ASC").Find(&ranges).Error; err != nil {
		return nil, err
	}
	return ranges, nil
}
