package service

import (
	"strings"

	"github.com/meeplemarket/internal/constants"
	"github.com/meeplemarket/internal/models"
	"github.com/meeplemarket/internal/repository"
)

// CatalogService 商品目录服务
type CatalogService struct {
	productRepo   repository.ProductRepository
	genreRepo     repository.GenreRepository
	reviewRepo    repository.ReviewRepository
	settingsRepo  repository.SettingsRepository
	referenceRepo repository.ReferenceRepository

	defaultPageSize int
	maxPageSize     int
}

// NewCatalogService 创建目录服务
func NewCatalogService(productRepo repository.ProductRepository, genreRepo repository.GenreRepository, reviewRepo repository.ReviewRepository, settingsRepo repository.SettingsRepository, referenceRepo repository.ReferenceRepository, defaultPageSize, maxPageSize int) *CatalogService {
	if defaultPageSize <= 0 {
		defaultPageSize = constants.SettingsPageSizeDefault
	}
	if maxPageSize <= 0 {
		maxPageSize = constants.SettingsPageSizeMax
	}
	return &CatalogService{
		productRepo:     productRepo,
		genreRepo:       genreRepo,
		reviewRepo:      reviewRepo,
		settingsRepo:    settingsRepo,
		referenceRepo:   referenceRepo,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

var catalogSorts = map[string]bool{
	constants.CatalogSortPriceAsc:   true,
	constants.CatalogSortPriceDesc:  true,
	constants.CatalogSortRatingAsc:  true,
	constants.CatalogSortRatingDesc: true,
	constants.CatalogSortPopular:    true,
	constants.CatalogSortNew:        true,
}

// resolvePageSize 未显式传分页大小时取用户偏好，最终受全局上限约束
func (s *CatalogService) resolvePageSize(requested int, userID uint) int {
	pageSize := requested
	if pageSize <= 0 && userID > 0 {
		if settings, err := s.settingsRepo.GetByUser(userID); err == nil && settings != nil && settings.PageSize > 0 {
			pageSize = settings.PageSize
		}
	}
	if pageSize <= 0 {
		pageSize = s.defaultPageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}
	return pageSize
}

// ListProducts 分页查询上架商品，支持筛选与排序。
// 归一化后的分页参数会写回 filter，方便调用方回显。
func (s *CatalogService) ListProducts(filter *repository.CatalogListFilter, userID uint) ([]models.Product, int64, error) {
	filter.PageSize = s.resolvePageSize(filter.PageSize, userID)
	if filter.Page <= 0 {
		filter.Page = 1
	}
	sort := strings.TrimSpace(filter.Sort)
	if sort == "" || !catalogSorts[sort] {
		sort = constants.CatalogSortNew
	}
	filter.Sort = sort
	filter.OnlyActive = true
	return s.productRepo.List(*filter)
}

// ProductDetail 商品详情视图
type ProductDetail struct {
	Product     *models.Product `json:"product"`
	Reviews     []models.Review `json:"reviews"`
	AvgRating   float64         `json:"avg_rating"`
	ReviewCount int64           `json:"review_count"`
}

// GetProduct 按 slug 获取商品详情与评价
func (s *CatalogService) GetProduct(slug string) (*ProductDetail, error) {
	product, err := s.productRepo.GetBySlug(strings.TrimSpace(slug), true)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}

	reviews, _, err := s.reviewRepo.ListByProduct(repository.ReviewListFilter{
		Page:      1,
		PageSize:  s.maxPageSize,
		ProductID: product.ID,
	})
	if err != nil {
		return nil, err
	}
	avg, total, err := s.reviewRepo.AverageRating(product.ID)
	if err != nil {
		return nil, err
	}
	product.AvgRating = avg
	product.ReviewCount = total
	return &ProductDetail{
		Product:     product,
		Reviews:     reviews,
		AvgRating:   avg,
		ReviewCount: total,
	}, nil
}

// ListGenres 列出全部题材
func (s *CatalogService) ListGenres() ([]models.Genre, error) {
	return s.genreRepo.List()
}

// ListPlayerRanges 列出人数区间选项
func (s *CatalogService) ListPlayerRanges() ([]models.PlayerRange, error) {
	return s.referenceRepo.ListPlayerRanges()
}

// ListPaymentMethods 列出可用支付方式
func (s *CatalogService) ListPaymentMethods() ([]models.PaymentMethod, error) {
	return s.referenceRepo.ListPaymentMethods(true)
}

// ListDeliveryMethods 列出可用配送方式
func (s *CatalogService) ListDeliveryMethods() ([]models.DeliveryMethod, error) {
	return s.referenceRepo.ListDeliveryMethods(true)
}
