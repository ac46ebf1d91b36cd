package admin

import (
	"errors"
	"time"

	handlershared "github.com/meeplemarket/internal/http/handlers/shared"
	"github.com/meeplemarket/internal/http/response"
	"github.com/meeplemarket/internal/repository"
	"github.com/meeplemarket/internal/service"

	"github.com/gin-gonic/gin"
)

func parseTimeQuery(c *gin.Context, key string) *time.Time {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// ListOrders 全量订单列表，支持按用户、状态、单号、时间过滤
func (h *Handler) ListOrders(c *gin.Context) {
	page, pageSize := parsePagination(c)
	filter := repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      parseUintQuery(c, "user_id"),
		Status:      c.Query("status"),
		OrderNo:     c.Query("order_no"),
		CreatedFrom: parseTimeQuery(c, "created_from"),
		CreatedTo:   parseTimeQuery(c, "created_to"),
	}

	orders, total, err := h.OrderService.ListOrdersForAdmin(filter)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "订单列表查询失败", err)
		return
	}
	response.SuccessWithPage(c, orders, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: handlershared.TotalPages(total, pageSize),
	})
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrderForAdmin(orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			handlershared.RespondError(c, response.CodeNotFound, err.Error(), nil)
			return
		}
		handlershared.RespondError(c, response.CodeInternal, "订单查询失败", err)
		return
	}
	response.Success(c, order)
}

func respondOrderActionError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, service.ErrDeliveryNotFound):
		handlershared.RespondError(c, response.CodeNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrOrderAlreadyCanceled), errors.Is(err, service.ErrOrderStatusInvalid):
		handlershared.RespondError(c, response.CodeConflict, err.Error(), nil)
	default:
		handlershared.RespondError(c, response.CodeInternal, fallbackMsg, err)
	}
}

// CancelOrder 取消订单并回补库存
func (h *Handler) CancelOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.Cancel(orderID)
	if err != nil {
		respondOrderActionError(c, err, "订单取消失败")
		return
	}
	response.Success(c, order)
}

// ShipOrderRequest 发货请求
type ShipOrderRequest struct {
	TrackingNo string `json:"tracking_no"`
}

// ShipOrder 订单发货
func (h *Handler) ShipOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ShipOrderRequest
	// 发货单号可省略，body 为空也允许
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		handlershared.RespondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	order, err := h.OrderService.Ship(orderID, req.TrackingNo)
	if err != nil {
		respondOrderActionError(c, err, "订单发货失败")
		return
	}
	response.Success(c, order)
}

// CompleteOrder 订单完成（确认送达）
func (h *Handler) CompleteOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.Complete(orderID)
	if err != nil {
		respondOrderActionError(c, err, "订单完成失败")
		return
	}
	response.Success(c, order)
}
