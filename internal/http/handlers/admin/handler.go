package admin

import (
	"strconv"

	handlershared "github.com/meeplemarket/internal/http/handlers/shared"
	"github.com/meeplemarket/internal/http/response"
	"github.com/meeplemarket/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 管理端接口处理器
type Handler struct {
	*provider.Container
}

// New 创建管理端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		handlershared.RespondError(c, response.CodeBadRequest, "ID 参数无效", err)
		return 0, false
	}
	return uint(id), true
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

func parsePagination(c *gin.Context) (int, int) {
	return handlershared.NormalizePagination(
		parseIntQuery(c, "page"),
		parseIntQuery(c, "page_size"),
	)
}
