package repository

import (
	"errors"

	"github.com/meeplemarket/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentRepository 支付数据访问接口
type PaymentRepository interface {
	Create(payment *models.Payment) error
	Update(payment *models.Payment) error
	GetByID(id uint) (*models.Payment, error)
	GetByIDLocked(id uint) (*models.Payment, error)
	GetByOrderID(orderID uint) (*models.Payment, error)
	UpdateStatus(id uint, status string, updates map[string]interface{}) error
	WithTx(tx *gorm.DB) *GormPaymentRepository
}

// GormPaymentRepository GORM 实现
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建支付仓库
func NewPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPaymentRepository) WithTx(tx *gorm.DB) *GormPaymentRepository {
	if tx == nil {
		return r
	}
	return &GormPaymentRepository{db: tx}
}

// Create 创建支付记录
func (r *GormPaymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// Update 更新支付记录
func (r *GormPaymentRepository) Update(payment *models.Payment) error {
	return r.db.Save(payment).Error
}

// GetByID 根据 ID 获取支付记录
func (r *GormPaymentRepository) GetByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.Preload("Method").First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// GetByIDLocked 行锁读取支付记录，结算回调串行化。
// sqlite 不支持 FOR UPDATE，事务本身已是库级锁。
func (r *GormPaymentRepository) GetByIDLocked(id uint) (*models.Payment, error) {
	query := r.db
	switch dbDialectName(r.db) {
	case "postgres", "postgresql":
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var payment models.Payment
	err := query.First(&payment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// GetByOrderID 根据订单获取支付记录（与订单一对一）
func (r *GormPaymentRepository) GetByOrderID(orderID uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.Preload("Method").Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// UpdateStatus 更新支付状态
func (r *GormPaymentRepository) UpdateStatus(id uint, status string, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	return r.db.Model(&models.Payment{}).Where("id = ?", id).Updates(updates).Error
}
