package public

import (
	handlershared "github.com/meeplemarket/internal/http/handlers/shared"
	"github.com/meeplemarket/internal/http/response"
	"github.com/meeplemarket/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 下单请求
type CheckoutRequest struct {
	Address        string `json:"address" binding:"required"`
	PaymentMethod  string `json:"payment_method" binding:"required"`
	DeliveryMethod string `json:"delivery_method"` // 省略时默认标准配送
}

// Checkout 从购物车原子下单
func (h *Handler) Checkout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	placed, err := h.CheckoutService.PlaceOrder(service.PlaceOrderInput{
		UserID:             uid,
		Address:            req.Address,
		PaymentMethodCode:  req.PaymentMethod,
		DeliveryMethodCode: req.DeliveryMethod,
	})
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "下单失败")
		return
	}
	response.Success(c, placed)
}
