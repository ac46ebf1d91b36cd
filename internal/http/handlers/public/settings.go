package public

import (
	handlershared "github.com/meeplemarket/internal/http/handlers/shared"
	"github.com/meeplemarket/internal/http/response"
	"github.com/meeplemarket/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateSettingsRequest 偏好更新请求，仅更新传入的字段
type UpdateSettingsRequest struct {
	Theme        *string `json:"theme"`
	DateFormat   *string `json:"date_format"`
	NumberFormat *string `json:"number_format"`
	PageSize     *int    `json:"page_size"`
}

// SaveFilterRequest 保存筛选器请求
type SaveFilterRequest struct {
	Name    string            `json:"name" binding:"required"`
	Filters map[string]string `json:"filters" binding:"required"`
}

// GetSettings 获取当前用户偏好，不存在时按默认值创建
func (h *Handler) GetSettings(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	settings, err := h.SettingsService.GetOrCreate(uid)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "偏好设置查询失败", err)
		return
	}
	response.Success(c, settings)
}

// UpdateSettings 更新用户偏好
func (h *Handler) UpdateSettings(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	settings, err := h.SettingsService.Update(uid, service.UpdateSettingsInput{
		Theme:        req.Theme,
		DateFormat:   req.DateFormat,
		NumberFormat: req.NumberFormat,
		PageSize:     req.PageSize,
	})
	if err != nil {
		respondWithMappedError(c, err, settingsErrorRules, response.CodeInternal, "偏好设置更新失败")
		return
	}
	response.Success(c, settings)
}

// ToggleTheme 明暗主题互切
func (h *Handler) ToggleTheme(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	settings, err := h.SettingsService.ToggleTheme(uid)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "主题切换失败", err)
		return
	}
	response.Success(c, gin.H{"theme": settings.Theme})
}

// ListSavedFilters 已保存的目录筛选器列表
func (h *Handler) ListSavedFilters(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	filters, err := h.SettingsService.ListFilters(uid)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "筛选器查询失败", err)
		return
	}
	response.Success(c, filters)
}

// SaveFilter 保存命名筛选器，同名覆盖
func (h *Handler) SaveFilter(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req SaveFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	settings, err := h.SettingsService.SaveFilter(uid, service.SavedFilter{
		Name:    req.Name,
		Filters: req.Filters,
	})
	if err != nil {
		respondWithMappedError(c, err, settingsErrorRules, response.CodeInternal, "筛选器保存失败")
		return
	}
	response.Success(c, settings)
}

// DeleteSavedFilter 删除命名筛选器
func (h *Handler) DeleteSavedFilter(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	name := c.Param("name")

	if _, err := h.SettingsService.DeleteFilter(uid, name); err != nil {
		respondWithMappedError(c, err, settingsErrorRules, response.CodeInternal, "筛选器删除失败")
		return
	}
	response.SuccessWithMsg(c, "筛选器已删除", nil)
}
