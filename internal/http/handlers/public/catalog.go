package public

import (
	"strconv"

	handlershared "github.com/meeplemarket/internal/http/handlers/shared"
	"github.com/meeplemarket/internal/http/response"
	"github.com/meeplemarket/internal/repository"

	"github.com/gin-gonic/gin"
)

// parseFloatQuery 解析可选的浮点查询参数，非法值按缺省处理
func parseFloatQuery(c *gin.Context, key string) *float64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseUintQuery(c *gin.Context, key string) uint {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}

func parseIntQuery(c *gin.Context, key string) int {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}

// parsePagination 从查询参数读取分页并做归一化
func parsePagination(c *gin.Context) (int, int) {
	return handlershared.NormalizePagination(
		parseIntQuery(c, "page"),
		parseIntQuery(c, "page_size"),
	)
}

// ListProducts 商品目录列表，支持过滤与排序
func (h *Handler) ListProducts(c *gin.Context) {
	// 分页大小留给目录服务按用户偏好与全局上限兜底
	filter := repository.CatalogListFilter{
		Page:      parseIntQuery(c, "page"),
		PageSize:  parseIntQuery(c, "page_size"),
		Search:    c.Query("search"),
		GenreID:   parseUintQuery(c, "genre_id"),
		Players:   parseIntQuery(c, "players"),
		PriceMin:  parseFloatQuery(c, "price_min"),
		PriceMax:  parseFloatQuery(c, "price_max"),
		MinRating: parseFloatQuery(c, "min_rating"),
		InStock:   c.Query("in_stock") == "true",
		Sort:      c.Query("sort"),
	}

	// 公共目录未登录也可访问，此处不强制鉴权
	var uid uint
	if value, exists := c.Get("user_id"); exists {
		if v, ok := value.(uint); ok {
			uid = v
		}
	}

	products, total, err := h.CatalogService.ListProducts(&filter, uid)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "商品列表查询失败", err)
		return
	}
	response.SuccessWithPage(c, products, response.Pagination{
		Page:      filter.Page,
		PageSize:  filter.PageSize,
		Total:     total,
		TotalPage: handlershared.TotalPages(total, filter.PageSize),
	})
}

// GetProductBySlug 商品详情
func (h *Handler) GetProductBySlug(c *gin.Context) {
	slug := c.Param("slug")
	detail, err := h.CatalogService.GetProduct(slug)
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "商品详情查询失败")
		return
	}
	response.Success(c, detail)
}

// ListProductReviews 商品评论列表
func (h *Handler) ListProductReviews(c *gin.Context) {
	slug := c.Param("slug")
	detail, err := h.CatalogService.GetProduct(slug)
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "商品详情查询失败")
		return
	}

	page, pageSize := parsePagination(c)
	reviews, err := h.ReviewService.ListByProduct(detail.Product.ID, page, pageSize)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "评论列表查询失败", err)
		return
	}
	response.SuccessWithPage(c, gin.H{
		"reviews":    reviews.Reviews,
		"avg_rating": reviews.AvgRating,
	}, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     reviews.Total,
		TotalPage: handlershared.TotalPages(reviews.Total, pageSize),
	})
}

// ListGenres 游戏类型列表
func (h *Handler) ListGenres(c *gin.Context) {
	genres, err := h.CatalogService.ListGenres()
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "类型列表查询失败", err)
		return
	}
	response.Success(c, genres)
}

// ListPlayerRanges 玩家人数档位列表
func (h *Handler) ListPlayerRanges(c *gin.Context) {
	ranges, err := h.CatalogService.ListPlayerRanges()
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "人数档位查询失败", err)
		return
	}
	response.Success(c, ranges)
}

// ListPaymentMethods 可用支付方式列表
func (h *Handler) ListPaymentMethods(c *gin.Context) {
	methods, err := h.CatalogService.ListPaymentMethods()
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "支付方式查询失败", err)
		return
	}
	response.Success(c, methods)
}

// ListDeliveryMethods 可用配送方式列表
func (h *Handler) ListDeliveryMethods(c *gin.Context) {
	methods, err := h.CatalogService.ListDeliveryMethods()
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "配送方式查询失败", err)
		return
	}
	response.Success(c, methods)
}
