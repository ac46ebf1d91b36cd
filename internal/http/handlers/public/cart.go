package public

import (
	"strconv"

	handlershared "github.com/meeplemarket/internal/http/handlers/shared"
	"github.com/meeplemarket/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 加购请求
type CartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

func parseProductIDParam(c *gin.Context) (uint, bool) {
	raw := c.Param("product_id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		handlershared.RespondError(c, response.CodeBadRequest, "商品 ID 无效", err)
		return 0, false
	}
	return uint(id), true
}

// GetCart 查看购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	view, err := h.CartService.List(uid)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "购物车查询失败", err)
		return
	}
	response.Success(c, view)
}

// AddCartItem 添加商品到购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	view, err := h.CartService.AddItem(uid, req.ProductID, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "加入购物车失败")
		return
	}
	response.Success(c, view)
}

// DecreaseCartItem 购物车内商品数量减一，减到零即移除
func (h *Handler) DecreaseCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseProductIDParam(c)
	if !ok {
		return
	}

	view, err := h.CartService.RemoveOne(uid, productID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "购物车更新失败")
		return
	}
	response.Success(c, view)
}

// RemoveCartItem 从购物车移除商品
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseProductIDParam(c)
	if !ok {
		return
	}

	view, err := h.CartService.RemoveItem(uid, productID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "购物车更新失败")
		return
	}
	response.Success(c, view)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	if err := h.CartService.Clear(uid); err != nil {
		handlershared.RespondError(c, response.CodeInternal, "清空购物车失败", err)
		return
	}
	response.SuccessWithMsg(c, "购物车已清空", nil)
}
