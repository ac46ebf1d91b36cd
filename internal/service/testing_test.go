package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/meeplemarket/internal/constants"
	"github.com/meeplemarket/internal/models"
	"github.com/meeplemarket/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// newTestDB 打开独立的内存库并挂到全局句柄，事务型服务依赖它
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	models.DB = db
	if err := models.AutoMigrate(); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

// storeFixtures 下单链路的基础数据
type storeFixtures struct {
	db *gorm.DB

	User     models.User
	Staff    models.User
	Genre    models.Genre
	Catan    models.Product
	Pandemic models.Product

	CODMethod      models.PaymentMethod
	CardMethod     models.PaymentMethod
	StandardMethod models.DeliveryMethod
}

func seedStore(t *testing.T, db *gorm.DB) *storeFixtures {
	t.Helper()
	f := &storeFixtures{db: db}

	f.User = models.User{Username: "meeplefan", PasswordHash: "x", Role: constants.UserRoleClient, Status: constants.UserStatusActive}
	f.Staff = models.User{Username: "storekeeper", PasswordHash: "x", Role: constants.UserRoleManager, Status: constants.UserStatusActive}
	if err := db.Create(&f.User).Error; err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	if err := db.Create(&f.Staff).Error; err != nil {
		t.Fatalf("seed staff failed: %v", err)
	}

	f.Genre = models.Genre{Slug: "strategy", Name: "策略"}
	if err := db.Create(&f.Genre).Error; err != nil {
		t.Fatalf("seed genre failed: %v", err)
	}

	f.Catan = models.Product{
		GenreID:     f.Genre.ID,
		Slug:        "catan",
		Title:       "卡坦岛",
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(3200.00)),
		Stock:       5,
		IsActive:    true,
	}
	f.Pandemic = models.Product{
		GenreID:     f.Genre.ID,
		Slug:        "pandemic",
		Title:       "瘟疫危机",
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(2800.00)),
		Stock:       1,
		IsActive:    true,
	}
	if err := db.Create(&f.Catan).Error; err != nil {
		t.Fatalf("seed catan failed: %v", err)
	}
	if err := db.Create(&f.Pandemic).Error; err != nil {
		t.Fatalf("seed pandemic failed: %v", err)
	}

	f.CODMethod = models.PaymentMethod{Code: constants.PaymentMethodCOD, Name: "Cash on delivery", IsActive: true, IsCashOnDelivery: true}
	f.CardMethod = models.PaymentMethod{Code: constants.PaymentMethodCard, Name: "Credit card", IsActive: true}
	if err := db.Create(&f.CODMethod).Error; err != nil {
		t.Fatalf("seed cod method failed: %v", err)
	}
	if err := db.Create(&f.CardMethod).Error; err != nil {
		t.Fatalf("seed card method failed: %v", err)
	}

	f.StandardMethod = models.DeliveryMethod{Code: constants.DeliveryMethodStandard, Name: "Standard shipping", IsActive: true}
	if err := db.Create(&f.StandardMethod).Error; err != nil {
		t.Fatalf("seed delivery method failed: %v", err)
	}
	return f
}

func (f *storeFixtures) addToCart(t *testing.T, productID uint, quantity int) {
	t.Helper()
	item := models.CartItem{UserID: f.User.ID, ProductID: productID, Quantity: quantity}
	if err := f.db.Create(&item).Error; err != nil {
		t.Fatalf("seed cart item failed: %v", err)
	}
}

func (f *storeFixtures) stockOf(t *testing.T, productID uint) int {
	t.Helper()
	var product models.Product
	if err := f.db.First(&product, productID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	return product.Stock
}

func (f *storeFixtures) cartCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	if err := f.db.Model(&models.CartItem{}).Where("user_id = ?", f.User.ID).Count(&count).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	return count
}

func newCheckoutService(db *gorm.DB) *CheckoutService {
	return NewCheckoutService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewCartRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewDeliveryRepository(db),
		repository.NewReferenceRepository(db),
		nil,
		"JPY",
	)
}

func newPaymentService(db *gorm.DB) *PaymentService {
	return NewPaymentService(
		repository.NewPaymentRepository(db),
		repository.NewOrderRepository(db),
		repository.NewCartRepository(db),
		nil,
	)
}

func newOrderService(db *gorm.DB) *OrderService {
	return NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewDeliveryRepository(db),
		nil,
	)
}
