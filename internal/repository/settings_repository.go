package repository

import (
	"errors"

	"github.com/meeplemarket/internal/models"

	"gorm.io/gorm"
)

// SettingsRepository 用户设置数据访问接口
type SettingsRepository interface {
	GetByUser(userID uint) (*models.UserSettings, error)
	Create(settings *models.UserSettings) error
	Update(settings *models.UserSettings) error
}

// GormSettingsRepository GORM 实现
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository 创建用户设置仓库
func NewSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// GetByUser 获取用户设置
func (r *GormSettingsRepository) GetByUser(userID uint) (*models.UserSettings, error) {
	var settings models.UserSettings
	if err := r.db.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

// Create 创建用户设置
func (r *GormSettingsRepository) Create(settings *models.UserSettings) error {
	return r.db.Create(settings).Error
}

// Update 更新用户设置
func (r *GormSettingsRepository) Update(settings *models.UserSettings) error {
	return r.db.Save(settings).Error
}
