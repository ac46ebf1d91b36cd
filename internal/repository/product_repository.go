package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/meeplemarket/internal/constants"
	"github.com/meeplemarket/internal/models"

	"gorm.io/gorm"
)

// 目录聚合子查询：平均评分 / 评论数 / 已售数量（仅统计在途与完成订单）
const (
	avgRatingSQL   = "COALESCE((SELECT AVG(reviews.rating) FROM reviews WHERE reviews.product_id = products.id AND reviews.deleted_at IS NULL), 0)"
	reviewCountSQL = "COALESCE((SELECT COUNT(*) FROM reviews WHERE reviews.product_id = products.id AND reviews.deleted_at IS NULL), 0)"
	soldCountSQL   = "COALESCE((SELECT SUM(order_items.quantity) FROM order_items JOIN orders ON orders.id = order_items.order_id" +
		" WHERE order_items.product_id = products.id AND orders.status IN ('paid', 'awaiting_shipment', 'shipped', 'completed')), 0)"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(filter CatalogListFilter) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	GetBySlug(slug string, onlyActive bool) (*models.Product, error)
	ListByIDs(ids []uint) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	CountBySlug(slug string, excludeID *uint) (int64, error)
	CountOrderItems(productID uint) (int64, error)
	ReserveStock(productID uint, quantity int) (int64, error)
	RestoreStock(productID uint, quantity int) (int64, error)
	ReplacePlayerRanges(product *models.Product, ranges []models.PlayerRange) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction 执行事务
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

func catalogSelect() string {
	return fmt.Sprintf("products.*, %s AS avg_rating, %s AS review_count, %s AS sold_count",
		avgRatingSQL, reviewCountSQL, soldCountSQL)
}

func catalogOrderExpr(sort string) string {
	switch sort {
	case constants.CatalogSortPriceAsc:
		return "products.price_amount ASC, products.id ASC"
	case constants.CatalogSortPriceDesc:
		return "products.price_amount DESC, products.id ASC"
	case constants.CatalogSortRatingAsc:
		return "avg_rating ASC, products.id ASC"
	case constants.CatalogSortRatingDesc:
		return "avg_rating DESC, products.id ASC"
	case constants.CatalogSortPopular:
		return "sold_count DESC, products.id ASC"
	default:
		// 默认按上架排序权重 + 最新创建
		return "products.sort_order DESC, products.created_at DESC, products.id DESC"
	}
}

// List 目录商品列表（带评分与销量聚合）
func (r *GormProductRepository) List(filter CatalogListFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})

	if filter.OnlyActive {
		query = query.Where("products.is_active = ?", true)
	}
	if filter.GenreID != 0 {
		query = query.Where("products.genre_id = ?", filter.GenreID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		condition, argCount := buildSearchLikeCondition(r.db, []string{"products.title", "products.description"})
		query = query.Where(condition, repeatLikeArgs(like, argCount)...)
	}
	if filter.Players > 0 {
		query = query.Where(
			"EXISTS (SELECT 1 FROM product_player_ranges ppr JOIN player_ranges pr ON pr.id = ppr.player_range_id"+
				" WHERE ppr.product_id = products.id AND pr.min_players <= ? AND pr.max_players >= ?)",
			filter.Players, filter.Players,
		)
	}
	if filter.PriceMin != nil {
		query = query.Where("products.price_amount >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		query = query.Where("products.price_amount <= ?", *filter.PriceMax)
	}
	if filter.InStock {
		query = query.Where("products.stock > 0")
	}
	if filter.MinRating != nil {
		// WHERE 中不能引用 SELECT 别名，重复子查询表达式
		query = query.Where(avgRatingSQL+" >= ?", *filter.MinRating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Select(catalogSelect()).
		Order(catalogOrderExpr(filter.Sort)).
		Preload("Genre").
		Preload("PlayerRanges")
	query = applyPagination(query, filter.Page, filter.PageSize)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetByID 根据 ID 获取商品（含评分聚合）
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.Model(&models.Product{}).
		Select(catalogSelect()).
		Preload("Genre").
		Preload("PlayerRanges").
		Where("products.id = ?", id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetBySlug 根据 slug 获取商品
func (r *GormProductRepository) GetBySlug(slug string, onlyActive bool) (*models.Product, error) {
	query := r.db.Model(&models.Product{}).
		Select(catalogSelect()).
		Preload("Genre").
		Preload("PlayerRanges").
		Where("products.slug = ?", slug)
	if onlyActive {
		query = query.Where("products.is_active = ?", true)
	}

	var product models.Product
	if err := query.First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListByIDs 批量获取商品
func (r *GormProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update 更新商品
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete 删除商品
func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// CountBySlug 统计 slug 数量。含软删除行，下架归档的商品仍占用
// 唯一索引，这里必须一并算进去，冲突才能走 409 而不是落库报错
func (r *GormProductRepository) CountBySlug(slug string, excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Unscoped().Model(&models.Product{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountOrderItems 统计商品被订单项引用的次数（删除保护）
func (r *GormProductRepository) CountOrderItems(productID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.OrderItem{}).Where("product_id = ?", productID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ReplacePlayerRanges 全量替换商品关联的人数区间
func (r *GormProductRepository) ReplacePlayerRanges(product *models.Product, ranges []models.PlayerRange) error {
	if product == nil || product.ID == 0 {
		return errors.New("invalid product for player range replace")
	}
	return r.db.Model(product).Association("PlayerRanges").Replace(&ranges)
}

// ReserveStock 条件扣减库存，库存不足时影响行数为 0
func (r *GormProductRepository) ReserveStock(productID uint, quantity int) (int64, error) {
	if productID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock reserve params")
	}
	result := r.db.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// RestoreStock 回补库存（订单取消路径专用）
func (r *GormProductRepository) RestoreStock(productID uint, quantity int) (int64, error) {
	if productID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock restore params")
	}
	result := r.db.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
