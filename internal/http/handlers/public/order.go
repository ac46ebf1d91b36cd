package public

import (
	"errors"
	"strconv"

	handlershared "github.com/meeplemarket/internal/http/handlers/shared"
	"github.com/meeplemarket/internal/http/response"
	"github.com/meeplemarket/internal/service"

	"github.com/gin-gonic/gin"
)

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		handlershared.RespondError(c, response.CodeBadRequest, "ID 参数无效", err)
		return 0, false
	}
	return uint(id), true
}

// ListOrders 当前用户订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, pageSize := parsePagination(c)
	orders, total, err := h.OrderService.ListOrdersByUser(uid, page, pageSize, c.Query("status"))
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

// GetOrder 订单详情，仅限本人
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrderByUser(orderID, uid)
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
