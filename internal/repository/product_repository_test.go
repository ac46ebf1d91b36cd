package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/meeplemarket/internal/constants"
	"github.com/meeplemarket/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

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

type catalogFixtures struct {
	Strategy models.Genre
	Party    models.Genre
	Duo      models.PlayerRange
	Big      models.PlayerRange
	Catan    models.Product
	Codename models.Product
	Hive     models.Product
	Shelved  models.Product
}

// seedCatalog 三款在售一款下架，覆盖价格/人数/评分/库存维度
func seedCatalog(t *testing.T, db *gorm.DB) *catalogFixtures {
	t.Helper()
	f := &catalogFixtures{}

	f.Strategy = models.Genre{Slug: "strategy", Name: "策略"}
	f.Party = models.Genre{Slug: "party", Name: "聚会"}
	for _, genre := range []*models.Genre{&f.Strategy, &f.Party} {
		if err := db.Create(genre).Error; err != nil {
			t.Fatalf("seed genre failed: %v", err)
		}
	}

	f.Duo = models.PlayerRange{MinPlayers: 2, MaxPlayers: 2}
	f.Big = models.PlayerRange{MinPlayers: 4, MaxPlayers: 8}
	for _, pr := range []*models.PlayerRange{&f.Duo, &f.Big} {
		if err := db.Create(pr).Error; err != nil {
			t.Fatalf("seed player range failed: %v", err)
		}
	}

	f.Catan = models.Product{
		GenreID:      f.Strategy.ID,
		Slug:         "catan",
		Title:        "卡坦岛",
		Description:  "资源交易与建设",
		PriceAmount:  models.NewMoneyFromDecimal(decimal.NewFromFloat(3200)),
		Stock:        5,
		IsActive:     true,
		PlayerRanges: []models.PlayerRange{f.Big},
	}
	f.Codename = models.Product{
		GenreID:      f.Party.ID,
		Slug:         "codenames",
		Title:        "行动代号",
		Description:  "词语联想聚会游戏",
		PriceAmount:  models.NewMoneyFromDecimal(decimal.NewFromFloat(1800)),
		Stock:        0,
		IsActive:     true,
		PlayerRanges: []models.PlayerRange{f.Big},
	}
	f.Hive = models.Product{
		GenreID:      f.Strategy.ID,
		Slug:         "hive",
		Title:        "蜂巢",
		Description:  "双人抽象棋",
		PriceAmount:  models.NewMoneyFromDecimal(decimal.NewFromFloat(2400)),
		Stock:        3,
		IsActive:     true,
		PlayerRanges: []models.PlayerRange{f.Duo},
	}
	f.Shelved = models.Product{
		GenreID:     f.Strategy.ID,
		Slug:        "shelved",
		Title:       "已下架样品",
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(999)),
		Stock:       1,
		IsActive:    false,
	}
	for _, product := range []*models.Product{&f.Catan, &f.Codename, &f.Hive, &f.Shelved} {
		if err := db.Create(product).Error; err != nil {
			t.Fatalf("seed product failed: %v", err)
		}
	}

	user := models.User{Username: "reviewer", PasswordHash: "x", Role: constants.UserRoleClient, Status: constants.UserStatusActive}
	other := models.User{Username: "reviewer2", PasswordHash: "x", Role: constants.UserRoleClient, Status: constants.UserStatusActive}
	for _, u := range []*models.User{&user, &other} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("seed user failed: %v", err)
		}
	}
	reviews := []models.Review{
		{ProductID: f.Catan.ID, UserID: user.ID, Rating: 5},
		{ProductID: f.Catan.ID, UserID: other.ID, Rating: 4},
		{ProductID: f.Hive.ID, UserID: user.ID, Rating: 2},
	}
	for i := range reviews {
		if err := db.Create(&reviews[i]).Error; err != nil {
			t.Fatalf("seed review failed: %v", err)
		}
	}
	return f
}

func slugsOf(products []models.Product) []string {
	slugs := make([]string, 0, len(products))
	for _, p := range products {
		slugs = append(slugs, p.Slug)
	}
	return slugs
}

func TestCatalogListFilters(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db)
	repo := NewProductRepository(db)

	t.Run("only_active_hides_shelved", func(t *testing.T) {
		products, total, err := repo.List(CatalogListFilter{OnlyActive: true})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if total != 3 {
			t.Fatalf("total want 3 got %d", total)
		}
		for _, p := range products {
			if p.Slug == "shelved" {
				t.Fatalf("inactive product leaked into catalog")
			}
		}
	})

	t.Run("genre_filter", func(t *testing.T) {
		_, total, err := repo.List(CatalogListFilter{OnlyActive: true, GenreID: f.Party.ID})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if total != 1 {
			t.Fatalf("party genre want 1 got %d", total)
		}
	})

	t.Run("search_matches_title_and_description", func(t *testing.T) {
		_, total, err := repo.List(CatalogListFilter{OnlyActive: true, Search: "聚会"})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if total != 1 {
			t.Fatalf("search want 1 got %d", total)
		}
	})

	t.Run("players_filter_uses_ranges", func(t *testing.T) {
		products, total, err := repo.List(CatalogListFilter{OnlyActive: true, Players: 2})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if total != 1 || products[0].Slug != "hive" {
			t.Fatalf("2 players should match hive only, got %v", slugsOf(products))
		}
		_, total, err = repo.List(CatalogListFilter{OnlyActive: true, Players: 6})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if total != 2 {
			t.Fatalf("6 players want 2 got %d", total)
		}
	})

	t.Run("price_window", func(t *testing.T) {
		min, max := 2000.0, 3000.0
		products, total, err := repo.List(CatalogListFilter{OnlyActive: true, PriceMin: &min, PriceMax: &max})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if total != 1 || products[0].Slug != "hive" {
			t.Fatalf("price window should match hive only, got %v", slugsOf(products))
		}
	})

	t.Run("in_stock_excludes_sold_out", func(t *testing.T) {
		products, _, err := repo.List(CatalogListFilter{OnlyActive: true, InStock: true})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		for _, p := range products {
			if p.Slug == "codenames" {
				t.Fatalf("sold out product should be excluded")
			}
		}
	})

	t.Run("min_rating", func(t *testing.T) {
		minRating := 4.0
		products, total, err := repo.List(CatalogListFilter{OnlyActive: true, MinRating: &minRating})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if total != 1 || products[0].Slug != "catan" {
			t.Fatalf("min rating 4 should match catan only, got %v", slugsOf(products))
		}
		if products[0].AvgRating != 4.5 {
			t.Fatalf("avg rating want 4.5 got %v", products[0].AvgRating)
		}
		if products[0].ReviewCount != 2 {
			t.Fatalf("review count want 2 got %d", products[0].ReviewCount)
		}
	})
}

func TestCatalogListSorting(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)
	repo := NewProductRepository(db)

	products, _, err := repo.List(CatalogListFilter{OnlyActive: true, Sort: constants.CatalogSortPriceAsc})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if got := slugsOf(products); got[0] != "codenames" || got[2] != "catan" {
		t.Fatalf("price asc order wrong: %v", got)
	}

	products, _, err = repo.List(CatalogListFilter{OnlyActive: true, Sort: constants.CatalogSortRatingDesc})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if products[0].Slug != "catan" {
		t.Fatalf("rating desc should lead with catan, got %v", slugsOf(products))
	}
}

func TestCatalogPagination(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)
	repo := NewProductRepository(db)

	products, total, err := repo.List(CatalogListFilter{OnlyActive: true, Page: 2, PageSize: 2, Sort: constants.CatalogSortPriceAsc})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("total want 3 got %d", total)
	}
	if len(products) != 1 || products[0].Slug != "catan" {
		t.Fatalf("page 2 should hold the last item, got %v", slugsOf(products))
	}
}

func TestReserveStockIsConditional(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db)
	repo := NewProductRepository(db)

	affected, err := repo.ReserveStock(f.Catan.ID, 3)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("reserve within stock want 1 affected got %d", affected)
	}

	// 剩余 2 件，超量扣减不落地
	affected, err = repo.ReserveStock(f.Catan.ID, 3)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("over-reserve want 0 affected got %d", affected)
	}

	product, err := repo.GetByID(f.Catan.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if product.Stock != 2 {
		t.Fatalf("stock want 2 got %d", product.Stock)
	}

	if _, err := repo.RestoreStock(f.Catan.ID, 3); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	product, _ = repo.GetByID(f.Catan.ID)
	if product.Stock != 5 {
		t.Fatalf("stock after restore want 5 got %d", product.Stock)
	}

	if _, err := repo.ReserveStock(f.Catan.ID, 0); err == nil {
		t.Fatalf("zero quantity reserve should fail")
	}
}

func TestCountBySlugExcludesSelf(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db)
	repo := NewProductRepository(db)

	count, err := repo.CountBySlug("catan", nil)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("count want 1 got %d", count)
	}
	count, err = repo.CountBySlug("catan", &f.Catan.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("count excluding self want 0 got %d", count)
	}
}

func TestCountBySlugSeesSoftDeletedProducts(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db)
	repo := NewProductRepository(db)

	if err := repo.Delete(f.Hive.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	// 归档商品仍占用 slug 唯一索引，查重必须把它算进去
	count, err := repo.CountBySlug("hive", nil)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("retired slug should still count, want 1 got %d", count)
	}
}
