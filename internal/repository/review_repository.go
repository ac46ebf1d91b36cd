package repository

import (
	"errors"

	"github.com/meeplemarket/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository 评论数据访问接口
type ReviewRepository interface {
	Create(review *models.Review) error
	GetByProductAndUser(productID, userID uint) (*models.Review, error)
	ListByProduct(filter ReviewListFilter) ([]models.Review, int64, error)
	AverageRating(productID uint) (float64, int64, error)
}

// GormReviewRepository GORM 实现
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评论仓库
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// Create 创建评论
func (r *GormReviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

// GetByProductAndUser 获取用户对商品的评论
func (r *GormReviewRepository) GetByProductAndUser(productID, userID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.Where("product_id = ? AND user_id = ?", productID, userID).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// ListByProduct 商品评论列表
func (r *GormReviewRepository) ListByProduct(filter ReviewListFilter) ([]models.Review, int64, error) {
	query := r.db.Model(&models.Review{}).Where("product_id = ?", filter.ProductID)
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var reviews []models.Review
	if err := query.Preload("User").Order("id desc").Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// AverageRating 商品平均评分与评论数
func (r *GormReviewRepository) AverageRating(productID uint) (float64, int64, error) {
	var row struct {
		Avg   float64
		Total int64
	}
	err := r.db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as total").
		Where("product_id = ?", productID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Avg, row.Total, nil
}
