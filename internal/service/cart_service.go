package service

import (
	"github.com/meeplemarket/internal/models"
	"github.com/meeplemarket/internal/repository"

	"github.com/shopspring/decimal"
)

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

// CartLine 购物车行视图
type CartLine struct {
	ProductID uint         `json:"product_id"`
	Slug      string       `json:"slug"`
	Title     string       `json:"title"`
	UnitPrice models.Money `json:"unit_price"`
	Quantity  int          `json:"quantity"`
	LineTotal models.Money `json:"line_total"`
	Stock     int          `json:"stock"`
	IsActive  bool         `json:"is_active"`
}

// CartView 购物车汇总视图
type CartView struct {
	Lines       []CartLine   `json:"lines"`
	TotalAmount models.Money `json:"total_amount"`
	TotalItems  int          `json:"total_items"`
}

// List 按加入顺序返回购物车内容及合计
func (s *CartService) List(userID uint) (*CartView, error) {
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	view := &CartView{Lines: make([]CartLine, 0, len(items))}
	total := decimal.Zero
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		lineTotal := item.Product.PriceAmount.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Lines = append(view.Lines, CartLine{
			ProductID: item.ProductID,
			Slug:      item.Product.Slug,
			Title:     item.Product.Title,
			UnitPrice: item.Product.PriceAmount,
			Quantity:  item.Quantity,
			LineTotal: models.NewMoneyFromDecimal(lineTotal),
			Stock:     item.Product.Stock,
			IsActive:  item.Product.IsActive,
		})
		total = total.Add(lineTotal)
		view.TotalItems += item.Quantity
	}
	view.TotalAmount = models.NewMoneyFromDecimal(total)
	return view, nil
}

// AddItem 加购：数量累加，以加入时点库存为上限
func (s *CartService) AddItem(userID, productID uint, quantity int) (*CartView, error) {
	if quantity <= 0 {
		return nil, ErrCartItemInvalid
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotAvailable
	}

	existing, err := s.cartRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return nil, err
	}
	current := 0
	if existing != nil {
		current = existing.Quantity
	}
	// 加购时点校验，下单时仍以原子扣减为准
	if current+quantity > product.Stock {
		return nil, ErrCartQuantityExceed
	}

	if err := s.cartRepo.Upsert(&models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  current + quantity,
	}); err != nil {
		return nil, err
	}
	return s.List(userID)
}

// RemoveOne 数量减一，减到零移除整行
func (s *CartService) RemoveOne(userID, productID uint) (*CartView, error) {
	existing, err := s.cartRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrCartItemInvalid
	}
	if existing.Quantity <= 1 {
		if err := s.cartRepo.DeleteByUserAndProduct(userID, productID); err != nil {
			return nil, err
		}
	} else {
		if err := s.cartRepo.UpdateQuantity(existing.ID, existing.Quantity-1); err != nil {
			return nil, err
		}
	}
	return s.List(userID)
}

// RemoveItem 整行移除
func (s *CartService) RemoveItem(userID, productID uint) (*CartView, error) {
	existing, err := s.cartRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrCartItemInvalid
	}
	if err := s.cartRepo.DeleteByUserAndProduct(userID, productID); err != nil {
		return nil, err
	}
	return s.List(userID)
}

// Clear 清空购物车
func (s *CartService) Clear(userID uint) error {
	return s.cartRepo.ClearByUser(userID)
}
