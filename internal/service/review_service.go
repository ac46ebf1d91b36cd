package service

import (
	"strings"

	"github.com/meeplemarket/internal/constants"
	"github.com/meeplemarket/internal/models"
	"github.com/meeplemarket/internal/repository"
)

// ReviewService 商品评论服务
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

// NewReviewService 创建评论服务
func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, productRepo: productRepo}
}

// AddInput 新增评论输入
type AddReviewInput struct {
	ProductID uint
	UserID    uint
	Rating    int
	Comment   string
}

// Add 新增评论：评分 1 到 5，同一用户对同一商品仅一条
func (s *ReviewService) Add(input AddReviewInput) (*models.Review, error) {
	if input.Rating < constants.ReviewRatingMin || input.Rating > constants.ReviewRatingMax {
		return nil, ErrReviewRatingInvalid
	}

	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}

	existing, err := s.reviewRepo.GetByProductAndUser(input.ProductID, input.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewExists
	}

	review := &models.Review{
		ProductID: input.ProductID,
		UserID:    input.UserID,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

// ProductReviews 商品评论列表视图
type ProductReviews struct {
	Reviews   []models.Review `json:"reviews"`
	Total     int64           `json:"total"`
	AvgRating float64         `json:"avg_rating"`
}

// ListByProduct 按商品分页查询评论并附平均评分
func (s *ReviewService) ListByProduct(productID uint, page, pageSize int) (*ProductReviews, error) {
	reviews, total, err := s.reviewRepo.ListByProduct(repository.ReviewListFilter{
		Page:      page,
		PageSize:  pageSize,
		ProductID: productID,
	})
	if err != nil {
		return nil, err
	}
	avg, _, err := s.reviewRepo.AverageRating(productID)
	if err != nil {
		return nil, err
	}
	return &ProductReviews{Reviews: reviews, Total: total, AvgRating: avg}, nil
}
