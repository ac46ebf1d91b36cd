package service

import (
	"errors"
	"strings"
	"time"

	"github.com/meeplemarket/internal/config"
	"github.com/meeplemarket/internal/constants"
	"github.com/meeplemarket/internal/models"
	"github.com/meeplemarket/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService 用户认证服务
type AuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
}

// NewAuthService 创建认证服务
func NewAuthService(cfg *config.Config, userRepo repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateUserJWT 生成用户 JWT Token
func (s *AuthService) GenerateUserJWT(user *models.User) (string, time.Time, error) {
	expireHours := s.cfg.JWT.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	expiresAt := time.Now().Add(time.Duration(expireHours) * time.Hour)
	claims := UserJWTClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *AuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("无效的 token")
}

// RegisterInput 注册输入
type RegisterInput struct {
	Username string
	Password string
	Email    string
	FullName string
	Phone    string
}

// Register 用户注册，默认授予普通客户角色
func (s *AuthService) Register(input RegisterInput) (*models.User, string, time.Time, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if username == "" || len(username) < 3 {
		return nil, "", time.Time{}, ErrUsernameInvalid
	}
	if len(strings.TrimSpace(input.Password)) < 6 {
		return nil, "", time.Time{}, ErrPasswordTooWeak
	}

	exist, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if exist != nil {
		return nil, "", time.Time{}, ErrUsernameExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user := &models.User{
		Username:     username,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		FullName:     strings.TrimSpace(input.FullName),
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: string(hashedPassword),
		Role:         constants.UserRoleClient,
		Status:       constants.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if err := s.userRepo.TouchLastLogin(user.ID, now); err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, expiresAt, nil
}

// Login 用户登录
func (s *AuthService) Login(username, password string) (*models.User, string, time.Time, error) {
	user, err := s.userRepo.GetByUsername(strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, "", time.Time{}, ErrUserDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	if err := s.userRepo.TouchLastLogin(user.ID, now); err != nil {
		return nil, "", time.Time{}, err
	}
	user.LastLoginAt = &now
	return user, token, expiresAt, nil
}

// GetUserByID 获取用户信息
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	return s.userRepo.GetByID(id)
}

// UpdateProfile 更新用户资料
func (s *AuthService) UpdateProfile(userID uint, fullName, phone, email *string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if fullName != nil {
		user.FullName = strings.TrimSpace(*fullName)
	}
	if phone != nil {
		user.Phone = strings.TrimSpace(*phone)
	}
	if email != nil && strings.TrimSpace(*email) != "" {
		user.Email = strings.ToLower(strings.TrimSpace(*email))
	}
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword 登录态修改密码
func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if len(strings.TrimSpace(newPassword)) < 6 {
		return ErrPasswordTooWeak
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashedPassword)
	user.UpdatedAt = time.Now()
	return s.userRepo.Update(user)
}
