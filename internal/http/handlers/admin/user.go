package admin

import (
	"time"

	"github.com/meeplemarket/internal/constants"
	handlershared "github.com/meeplemarket/internal/http/handlers/shared"
	"github.com/meeplemarket/internal/http/response"
	"github.com/meeplemarket/internal/models"
	"github.com/meeplemarket/internal/repository"

	"github.com/gin-gonic/gin"
)

// AdminUserView 管理端用户视图，不含口令散列
type AdminUserView struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Phone       string     `json:"phone"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toAdminUserView(user *models.User) AdminUserView {
	return AdminUserView{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FullName:    user.FullName,
		Phone:       user.Phone,
		Role:        user.Role,
		Status:      user.Status,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// ListUsers 用户列表
func (h *Handler) ListUsers(c *gin.Context) {
	page, pageSize := parsePagination(c)
	filter := repository.UserListFilter{
		Page:        page,
		PageSize:    pageSize,
		Keyword:     c.Query("keyword"),
		Role:        c.Query("role"),
		Status:      c.Query("status"),
		CreatedFrom: parseTimeQuery(c, "created_from"),
		CreatedTo:   parseTimeQuery(c, "created_to"),
	}

	users, total, err := h.UserRepo.List(filter)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "用户列表查询失败", err)
		return
	}
	views := make([]AdminUserView, 0, len(users))
	for i := range users {
		views = append(views, toAdminUserView(&users[i]))
	}
	response.SuccessWithPage(c, views, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: handlershared.TotalPages(total, pageSize),
	})
}

// GetUser 用户详情
func (h *Handler) GetUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.UserRepo.GetByID(userID)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "用户查询失败", err)
		return
	}
	if user == nil {
		handlershared.RespondError(c, response.CodeNotFound, "用户不存在", nil)
		return
	}
	response.Success(c, toAdminUserView(user))
}

// UpdateUserStatusRequest 用户状态更新请求
type UpdateUserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateUserStatus 启用/禁用用户
func (h *Handler) UpdateUserStatus(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}
	if req.Status != constants.UserStatusActive && req.Status != constants.UserStatusDisabled {
		handlershared.RespondError(c, response.CodeBadRequest, "状态仅支持 active/disabled", nil)
		return
	}

	user, err := h.UserRepo.GetByID(userID)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "用户查询失败", err)
		return
	}
	if user == nil {
		handlershared.RespondError(c, response.CodeNotFound, "用户不存在", nil)
		return
	}

	user.Status = req.Status
	if err := h.UserRepo.Update(user); err != nil {
		handlershared.RespondError(c, response.CodeInternal, "用户状态更新失败", err)
		return
	}
	response.Success(c, toAdminUserView(user))
}
