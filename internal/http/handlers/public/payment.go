package public

import (
	handlershared "github.com/meeplemarket/internal/http/handlers/shared"
	"github.com/meeplemarket/internal/http/response"
	"github.com/meeplemarket/internal/service"

	"github.com/gin-gonic/gin"
)

// SettleRequest 模拟支付结算请求
type SettleRequest struct {
	Outcome     string `json:"outcome" binding:"required"`
	ProviderRef string `json:"provider_ref"`
}

// SettlePayment 对指定支付单执行模拟结算
func (h *Handler) SettlePayment(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	order, err := h.PaymentService.Settle(service.SettleInput{
		PaymentID:   paymentID,
		Outcome:     req.Outcome,
		ActorUserID: uid,
		ActorRole:   getUserRole(c),
		ProviderRef: req.ProviderRef,
	})
	if err != nil {
		respondWithMappedError(c, err, settleErrorRules, response.CodeInternal, "支付结算失败")
		return
	}
	response.Success(c, order)
}
