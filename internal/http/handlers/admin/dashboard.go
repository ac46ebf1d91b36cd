package admin

import (
	"errors"
	"time"

	handlershared "github.com/meeplemarket/internal/http/handlers/shared"
	"github.com/meeplemarket/internal/http/response"
	"github.com/meeplemarket/internal/service"

	"github.com/gin-gonic/gin"
)

// 自定义区间支持日期或完整时间戳两种写法
var dashboardTimeLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDashboardTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range dashboardTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

func parseDashboardQuery(c *gin.Context) service.DashboardQueryInput {
	return service.DashboardQueryInput{
		Range:        c.Query("range"),
		From:         parseDashboardTime(c.Query("from")),
		To:           parseDashboardTime(c.Query("to")),
		Timezone:     c.Query("timezone"),
		ForceRefresh: c.Query("force") == "true",
	}
}

func respondDashboardError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrDashboardRangeInvalid) {
		handlershared.RespondError(c, response.CodeBadRequest, err.Error(), nil)
		return
	}
	handlershared.RespondError(c, response.CodeInternal, "统计查询失败", err)
}

// GetDashboardOverview 仪表盘总览
func (h *Handler) GetDashboardOverview(c *gin.Context) {
	overview, err := h.DashboardService.GetOverview(c.Request.Context(), parseDashboardQuery(c))
	if err != nil {
		respondDashboardError(c, err)
		return
	}
	response.Success(c, overview)
}

// GetDashboardSales 按日销售趋势
func (h *Handler) GetDashboardSales(c *gin.Context) {
	sales, err := h.DashboardService.GetSalesByDay(c.Request.Context(), parseDashboardQuery(c))
	if err != nil {
		respondDashboardError(c, err)
		return
	}
	response.Success(c, sales)
}

// GetDashboardRankings 商品与客户排行
func (h *Handler) GetDashboardRankings(c *gin.Context) {
	rankings, err := h.DashboardService.GetRankings(c.Request.Context(), parseDashboardQuery(c))
	if err != nil {
		respondDashboardError(c, err)
		return
	}
	response.Success(c, rankings)
}
