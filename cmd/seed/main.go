package main

import (
	"github.com/meeplemarket/internal/config"
	"github.com/meeplemarket/internal/constants"
	"github.com/meeplemarket/internal/logger"
	"github.com/meeplemarket/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 内置支付与配送方式
	if err := models.InitReferenceMethods(); err != nil {
		stdLog.Fatalf("Failed to seed reference methods: %v", err)
	}

	// 桌游类型
	genres := []models.Genre{
		{Slug: "strategy", Name: "策略", SortOrder: 50},
		{Slug: "family", Name: "家庭", SortOrder: 40},
		{Slug: "coop", Name: "合作", SortOrder: 30},
		{Slug: "party", Name: "聚会", SortOrder: 20},
		{Slug: "card-game", Name: "卡牌", SortOrder: 10},
	}
	for _, genre := range genres {
		var existing models.Genre
		if err := models.DB.Where("slug = ?", genre.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&genre).Error; err != nil {
				stdLog.Printf("Failed to create genre %s: %v", genre.Slug, err)
			} else {
				stdLog.Printf("Created genre: %s", genre.Slug)
			}
		} else {
			stdLog.Printf("Genre already exists: %s", genre.Slug)
		}
	}

	genreIDs := map[string]uint{}
	var genreList []models.Genre
	if err := models.DB.Find(&genreList).Error; err != nil {
		stdLog.Printf("Failed to load genres: %v", err)
	}
	for _, genre := range genreList {
		genreIDs[genre.Slug] = genre.ID
	}

	// 玩家人数区间
	playerRanges := []models.PlayerRange{
		{MinPlayers: 1, MaxPlayers: 1},
		{MinPlayers: 2, MaxPlayers: 2},
		{MinPlayers: 2, MaxPlayers: 4},
		{MinPlayers: 3, MaxPlayers: 6},
		{MinPlayers: 4, MaxPlayers: 8},
	}
	for _, pr := range playerRanges {
		var existing models.PlayerRange
		err := models.DB.Where("min_players = ? AND max_players = ?", pr.MinPlayers, pr.MaxPlayers).First(&existing).Error
		if err != nil {
			if err := models.DB.Create(&pr).Error; err != nil {
				stdLog.Printf("Failed to create player range %s: %v", pr.Label(), err)
			} else {
				stdLog.Printf("Created player range: %s", pr.Label())
			}
		}
	}

	rangeByLabel := map[string]models.PlayerRange{}
	var rangeList []models.PlayerRange
	if err := models.DB.Find(&rangeList).Error; err != nil {
		stdLog.Printf("Failed to load player ranges: %v", err)
	}
	for _, pr := range rangeList {
		rangeByLabel[pr.Label()] = pr
	}
	pick := func(labels ...string) []models.PlayerRange {
		var out []models.PlayerRange
		for _, label := range labels {
			if pr, ok := rangeByLabel[label]; ok {
				out = append(out, pr)
			}
		}
		return out
	}

	// 商品
	products := []models.Product{
		{
			Slug:        "catan",
			Title:       "卡坦岛",
			Description: "经典资源交易与建设游戏，适合入门玩家。",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(3200.00)),
			Stock:       5,
			GenreID:     genreIDs["strategy"],
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1606503153255-59d8b8b82176?w=800",
			}),
			IsActive:     true,
			SortOrder:    50,
			PlayerRanges: pick("3-6"),
		},
		{
			Slug:        "pandemic",
			Title:       "瘟疫危机",
			Description: "全员合作对抗疾病蔓延，输赢与共。",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(2800.00)),
			Stock:       1,
			GenreID:     genreIDs["coop"],
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1610890716171-6b1bb98ffd09?w=800",
			}),
			IsActive:     true,
			SortOrder:    40,
			PlayerRanges: pick("2-4"),
		},
		{
			Slug:        "ticket-to-ride",
			Title:       "车票之旅",
			Description: "收集车厢卡，连通城市铁路线路。",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(2600.00)),
			Stock:       12,
			GenreID:     genreIDs["family"],
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1611371805429-8b5c1b2c34ba?w=800",
			}),
			IsActive:     true,
			SortOrder:    30,
			PlayerRanges: pick("2-4"),
		},
		{
			Slug:        "codenames",
			Title:       "行动代号",
			Description: "两队比拼词语联想的聚会神作。",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(1200.00)),
			Stock:       20,
			GenreID:     genreIDs["party"],
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1632501641765-e568d28b0015?w=800",
			}),
			IsActive:     true,
			SortOrder:    20,
			PlayerRanges: pick("4-8"),
		},
		{
			Slug:        "seven-wonders-duel",
			Title:       "七大奇迹：对决",
			Description: "专为双人设计的文明建设卡牌游戏。",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(1800.00)),
			Stock:       8,
			GenreID:     genreIDs["card-game"],
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1594736797933-d0401ba2fe65?w=800",
			}),
			IsActive:     true,
			SortOrder:    10,
			PlayerRanges: pick("2"),
		},
		{
			Slug:        "gloomhaven",
			Title:       "幽港迷城",
			Description: "史诗级战役合作游戏，暂未到货。",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(9800.00)),
			Stock:       0,
			GenreID:     genreIDs["coop"],
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1585504198199-20277593b94f?w=800",
			}),
			IsActive:     false,
			SortOrder:    5,
			PlayerRanges: pick("1", "2-4"),
		},
	}
	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", product.Slug)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Slug)
		}
	}

	// 演示账号（密码均为 password123）
	users := []struct {
		Username string
		FullName string
		Role     string
	}{
		{Username: "demo", FullName: "Demo Client", Role: constants.UserRoleClient},
		{Username: "manager", FullName: "Store Manager", Role: constants.UserRoleManager},
		{Username: "admin", FullName: "Administrator", Role: constants.UserRoleAdmin},
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("Failed to hash demo password: %v", err)
	}
	for _, u := range users {
		var existing models.User
		if err := models.DB.Where("username = ?", u.Username).First(&existing).Error; err != nil {
			user := models.User{
				Username:     u.Username,
				Email:        u.Username + "@meeplemarket.local",
				FullName:     u.FullName,
				PasswordHash: string(hash),
				Role:         u.Role,
				Status:       constants.UserStatusActive,
			}
			if err := models.DB.Create(&user).Error; err != nil {
				stdLog.Printf("Failed to create user %s: %v", u.Username, err)
			} else {
				stdLog.Printf("Created user: %s (%s)", u.Username, u.Role)
			}
		} else {
			stdLog.Printf("User already exists: %s", u.Username)
		}
	}

	stdLog.Printf("Seed completed")
}
