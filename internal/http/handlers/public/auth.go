package public

import (
	"time"

	handlershared "github.com/meeplemarket/internal/http/handlers/shared"
	"github.com/meeplemarket/internal/http/response"
	"github.com/meeplemarket/internal/models"
	"github.com/meeplemarket/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserView 用户信息响应
type UserView struct {
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

func toUserView(user *models.User) UserView {
	return UserView{
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

// Register 用户注册
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	user, token, expiresAt, err := h.AuthService.Register(service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "注册失败")
		return
	}

	response.Success(c, gin.H{
		"user":       toUserView(user),
		"token":      token,
		"expires_at": expiresAt,
	})
}

// Login 用户登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	user, token, expiresAt, err := h.AuthService.Login(req.Username, req.Password)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "登录失败")
		return
	}

	response.Success(c, gin.H{
		"user":       toUserView(user),
		"token":      token,
		"expires_at": expiresAt,
	})
}

// GetCurrentUser 获取当前登录用户
func (h *Handler) GetCurrentUser(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.AuthService.GetUserByID(uid)
	if err != nil || user == nil {
		handlershared.RespondError(c, response.CodeNotFound, "用户不存在", err)
		return
	}
	response.Success(c, toUserView(user))
}

// UpdateProfileRequest 资料更新请求
type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
}

// UpdateProfile 更新用户资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	user, err := h.AuthService.UpdateProfile(uid, req.FullName, req.Phone, req.Email)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "资料更新失败", err)
		return
	}
	response.Success(c, toUserView(user))
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword 登录态修改密码
func (h *Handler) ChangePassword(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	if err := h.AuthService.ChangePassword(uid, req.OldPassword, req.NewPassword); err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "密码修改失败")
		return
	}
	response.Success(c, gin.H{"updated": true})
}
