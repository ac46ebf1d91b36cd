package admin

import (
	"strings"

	handlershared "github.com/meeplemarket/internal/http/handlers/shared"
	"github.com/meeplemarket/internal/http/response"
	"github.com/meeplemarket/internal/models"

	"github.com/gin-gonic/gin"
)

// GenreRequest 类型创建/更新请求
type GenreRequest struct {
	Slug      string `json:"slug" binding:"required"`
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

// ListGenres 类型列表
func (h *Handler) ListGenres(c *gin.Context) {
	genres, err := h.GenreRepo.List()
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "类型列表查询失败", err)
		return
	}
	response.Success(c, genres)
}

// CreateGenre 创建类型
func (h *Handler) CreateGenre(c *gin.Context) {
	var req GenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	slug := strings.TrimSpace(strings.ToLower(req.Slug))
	existing, err := h.GenreRepo.GetBySlug(slug)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "类型查询失败", err)
		return
	}
	if existing != nil {
		handlershared.RespondError(c, response.CodeConflict, "slug 已被占用", nil)
		return
	}

	genre := &models.Genre{
		Slug:      slug,
		Name:      req.Name,
		SortOrder: req.SortOrder,
	}
	if err := h.GenreRepo.Create(genre); err != nil {
		handlershared.RespondError(c, response.CodeInternal, "类型创建失败", err)
		return
	}
	response.Success(c, genre)
}

// UpdateGenre 更新类型
func (h *Handler) UpdateGenre(c *gin.Context) {
	genreID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req GenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	genre, err := h.GenreRepo.GetByID(genreID)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "类型查询失败", err)
		return
	}
	if genre == nil {
		handlershared.RespondError(c, response.CodeNotFound, "类型不存在", nil)
		return
	}

	slug := strings.TrimSpace(strings.ToLower(req.Slug))
	if slug != genre.Slug {
		existing, err := h.GenreRepo.GetBySlug(slug)
		if err != nil {
			handlershared.RespondError(c, response.CodeInternal, "类型查询失败", err)
			return
		}
		if existing != nil {
			handlershared.RespondError(c, response.CodeConflict, "slug 已被占用", nil)
			return
		}
	}

	genre.Slug = slug
	genre.Name = req.Name
	genre.SortOrder = req.SortOrder
	if err := h.GenreRepo.Update(genre); err != nil {
		handlershared.RespondError(c, response.CodeInternal, "类型更新失败", err)
		return
	}
	response.Success(c, genre)
}

// DeleteGenre 删除类型，名下还有商品时拒绝
func (h *Handler) DeleteGenre(c *gin.Context) {
	genreID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	genre, err := h.GenreRepo.GetByID(genreID)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "类型查询失败", err)
		return
	}
	if genre == nil {
		handlershared.RespondError(c, response.CodeNotFound, "类型不存在", nil)
		return
	}

	count, err := h.GenreRepo.CountProducts(genreID)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "类型查询失败", err)
		return
	}
	if count > 0 {
		handlershared.RespondError(c, response.CodeConflict, "类型下仍有商品，无法删除", nil)
		return
	}

	if err := h.GenreRepo.Delete(genreID); err != nil {
		handlershared.RespondError(c, response.CodeInternal, "类型删除失败", err)
		return
	}
	response.SuccessWithMsg(c, "类型已删除", nil)
}
