package admin

import (
	"strings"

	handlershared "github.com/meeplemarket/internal/http/handlers/shared"
	"github.com/meeplemarket/internal/http/response"
	"github.com/meeplemarket/internal/models"
	"github.com/meeplemarket/internal/repository"

	"github.com/gin-gonic/gin"
)

// ProductRequest 商品创建/更新请求
type ProductRequest struct {
	GenreID        uint     `json:"genre_id" binding:"required"`
	Slug           string   `json:"slug" binding:"required"`
	Title          string   `json:"title" binding:"required"`
	Description    string   `json:"description"`
	Price          string   `json:"price" binding:"required"`
	Stock          int      `json:"stock"`
	Images         []string `json:"images"`
	IsActive       *bool    `json:"is_active"`
	SortOrder      int      `json:"sort_order"`
	PlayerRangeIDs []uint   `json:"player_range_ids"`
}

// resolvePlayerRanges 校验人数区间 ID 均真实存在
func (h *Handler) resolvePlayerRanges(ids []uint) ([]models.PlayerRange, bool) {
	if len(ids) == 0 {
		return nil, true
	}
	all, err := h.ReferenceRepo.ListPlayerRanges()
	if err != nil {
		return nil, false
	}
	known := make(map[uint]models.PlayerRange, len(all))
	for _, pr := range all {
		known[pr.ID] = pr
	}
	ranges := make([]models.PlayerRange, 0, len(ids))
	for _, id := range ids {
		pr, ok := known[id]
		if !ok {
			return nil, false
		}
		ranges = append(ranges, pr)
	}
	return ranges, true
}

// ListProducts 管理端商品列表，含下架商品
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := parsePagination(c)
	filter := repository.CatalogListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     c.Query("search"),
		GenreID:    parseUintQuery(c, "genre_id"),
		Sort:       c.Query("sort"),
		OnlyActive: false,
	}

	products, total, err := h.ProductRepo.List(filter)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "商品列表查询失败", err)
		return
	}
	response.SuccessWithPage(c, products, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: handlershared.TotalPages(total, pageSize),
	})
}

// GetProduct 管理端商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.ProductRepo.GetByID(productID)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "商品查询失败", err)
		return
	}
	if product == nil {
		handlershared.RespondError(c, response.CodeNotFound, "商品不存在", nil)
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	price, ok := parsePositivePrice(req.Price)
	if !ok {
		handlershared.RespondError(c, response.CodeBadRequest, "价格必须是大于零的金额", nil)
		return
	}
	if req.Stock < 0 {
		handlershared.RespondError(c, response.CodeBadRequest, "库存不能为负", nil)
		return
	}

	genre, err := h.GenreRepo.GetByID(req.GenreID)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "类型查询失败", err)
		return
	}
	if genre == nil {
		handlershared.RespondError(c, response.CodeBadRequest, "商品类型不存在", nil)
		return
	}

	slug := strings.TrimSpace(strings.ToLower(req.Slug))
	count, err := h.ProductRepo.CountBySlug(slug, nil)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "商品查询失败", err)
		return
	}
	if count > 0 {
		handlershared.RespondError(c, response.CodeConflict, "slug 已被占用", nil)
		return
	}

	ranges, ok := h.resolvePlayerRanges(req.PlayerRangeIDs)
	if !ok {
		handlershared.RespondError(c, response.CodeBadRequest, "人数区间不存在", nil)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	product := &models.Product{
		GenreID:      req.GenreID,
		Slug:         slug,
		Title:        req.Title,
		Description:  req.Description,
		PriceAmount:  price,
		Stock:        req.Stock,
		Images:       models.StringArray(req.Images),
		IsActive:     isActive,
		SortOrder:    req.SortOrder,
		PlayerRanges: ranges,
	}
	if err := h.ProductRepo.Create(product); err != nil {
		handlershared.RespondError(c, response.CodeInternal, "商品创建失败", err)
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	product, err := h.ProductRepo.GetByID(productID)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "商品查询失败", err)
		return
	}
	if product == nil {
		handlershared.RespondError(c, response.CodeNotFound, "商品不存在", nil)
		return
	}

	price, ok := parsePositivePrice(req.Price)
	if !ok {
		handlershared.RespondError(c, response.CodeBadRequest, "价格必须是大于零的金额", nil)
		return
	}
	if req.Stock < 0 {
		handlershared.RespondError(c, response.CodeBadRequest, "库存不能为负", nil)
		return
	}

	genre, err := h.GenreRepo.GetByID(req.GenreID)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "类型查询失败", err)
		return
	}
	if genre == nil {
		handlershared.RespondError(c, response.CodeBadRequest, "商品类型不存在", nil)
		return
	}

	slug := strings.TrimSpace(strings.ToLower(req.Slug))
	count, err := h.ProductRepo.CountBySlug(slug, &productID)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "商品查询失败", err)
		return
	}
	if count > 0 {
		handlershared.RespondError(c, response.CodeConflict, "slug 已被占用", nil)
		return
	}

	ranges, ok := h.resolvePlayerRanges(req.PlayerRangeIDs)
	if !ok {
		handlershared.RespondError(c, response.CodeBadRequest, "人数区间不存在", nil)
		return
	}

	product.GenreID = req.GenreID
	product.Slug = slug
	product.Title = req.Title
	product.Description = req.Description
	product.PriceAmount = price
	product.Stock = req.Stock
	product.Images = models.StringArray(req.Images)
	product.SortOrder = req.SortOrder
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	// 关联替换单独处理，避免 Save 级联写入
	product.PlayerRanges = nil
	if err := h.ProductRepo.Update(product); err != nil {
		handlershared.RespondError(c, response.CodeInternal, "商品更新失败", err)
		return
	}
	if req.PlayerRangeIDs != nil {
		if err := h.ProductRepo.ReplacePlayerRanges(product, ranges); err != nil {
			handlershared.RespondError(c, response.CodeInternal, "人数区间更新失败", err)
			return
		}
		product.PlayerRanges = ranges
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品，被订单引用过的只允许下架
func (h *Handler) DeleteProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.ProductRepo.GetByID(productID)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "商品查询失败", err)
		return
	}
	if product == nil {
		handlershared.RespondError(c, response.CodeNotFound, "商品不存在", nil)
		return
	}

	referenced, err := h.ProductRepo.CountOrderItems(productID)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "商品查询失败", err)
		return
	}
	if referenced > 0 {
		handlershared.RespondError(c, response.CodeConflict, "商品已被订单引用，请改为下架", nil)
		return
	}

	if err := h.ProductRepo.Delete(productID); err != nil {
		handlershared.RespondError(c, response.CodeInternal, "商品删除失败", err)
		return
	}
	response.SuccessWithMsg(c, "商品已删除", nil)
}

// parsePositivePrice 解析并校验商品价格，必须是大于零的合法金额
func parsePositivePrice(raw string) (models.Money, bool) {
	price, err := models.NewMoneyFromString(raw)
	if err != nil || !price.IsPositive() {
		return models.Money{}, false
	}
	return price, true
}
