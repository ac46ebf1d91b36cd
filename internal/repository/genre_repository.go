package repository

import (
	"errors"

	"github.com/meeplemarket/internal/models"

	"gorm.io/gorm"
)

// GenreRepository 桌游类型数据访问接口
type GenreRepository interface {
	List() ([]models.Genre, error)
	GetByID(id uint) (*models.Genre, error)
	GetBySlug(slug string) (*models.Genre, error)
	Create(genre *models.Genre) error
	Update(genre *models.Genre) error
	Delete(id uint) error
	CountProducts(genreID uint) (int64, error)
}

// GormGenreRepository GORM 实现
type GormGenreRepository struct {
	db *gorm.DB
}

// NewGenreRepository 创建类型仓库
func NewGenreRepository(db *gorm.DB) *GormGenreRepository {
	return &GormGenreRepository{db: db}
}

// List 类型列表
func (r *GormGenreRepository) List() ([]models.Genre, error) {
	var genres []models.Genre
	if err := r.db.Order("sort_order DESC, id ASC").Find(&genres).Error; err != nil {
		return nil, err
	}
	return genres, nil
}

// GetByID 根据 ID 获取类型
func (r *GormGenreRepository) GetByID(id uint) (*models.Genre, error) {
	var genre models.Genre
	if err := r.db.First(&genre, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &genre, nil
}

// GetBySlug 根据 slug 获取类型
func (r *GormGenreRepository) GetBySlug(slug string) (*models.Genre, error) {
	var genre models.Genre
	if err := r.db.Where("slug = ?", slug).First(&genre).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &genre, nil
}

// Create 创建类型
func (r *GormGenreRepository) Create(genre *models.Genre) error {
	return r.db.Create(genre).Error
}

// Update 更新类型
func (r *GormGenreRepository) Update(genre *models.Genre) error {
	return r.db.Save(genre).Error
}

// Delete 删除类型
func (r *GormGenreRepository) Delete(id uint) error {
	return r.db.Delete(&models.Genre{}, id).Error
}

// CountProducts 统计某类型下商品数（删除保护）
func (r *GormGenreRepository) CountProducts(genreID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("genre_id = ?", genreID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
