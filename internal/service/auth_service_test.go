package service

import (
	"errors"
	"testing"

	"github.com/meeplemarket/internal/config"
	"github.com/meeplemarket/internal/constants"
	"github.com/meeplemarket/internal/models"
	"github.com/meeplemarket/internal/repository"

	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.SecretKey = "unit-test-secret"
	cfg.JWT.ExpireHours = 2
	return NewAuthService(cfg, repository.NewUserRepository(db))
}

func TestRegisterThenLoginRoundtrip(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user, token, expiresAt, err := svc.Register(RegisterInput{
		Username: " DiceGoblin ",
		Password: "roll-the-dice",
		Email:    "Goblin@Example.com",
		FullName: "骰子哥布林",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Username != "dicegoblin" {
		t.Fatalf("username should be normalized, got %q", user.Username)
	}
	if user.Email != "goblin@example.com" {
		t.Fatalf("email should be lowercased, got %q", user.Email)
	}
	if user.Role != constants.UserRoleClient {
		t.Fatalf("new user role want client got %s", user.Role)
	}
	if token == "" || expiresAt.IsZero() {
		t.Fatalf("register should issue a token")
	}

	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Username != "dicegoblin" || claims.Role != constants.UserRoleClient {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	logged, _, _, err := svc.Login("dicegoblin", "roll-the-dice")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.LastLoginAt == nil {
		t.Fatalf("last_login_at should be touched on login")
	}
}

func TestRegisterValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	if _, _, _, err := svc.Register(RegisterInput{Username: "ab", Password: "roll-the-dice"}); !errors.Is(err, ErrUsernameInvalid) {
		t.Fatalf("short username want ErrUsernameInvalid got %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{Username: "dicegoblin", Password: "123"}); !errors.Is(err, ErrPasswordTooWeak) {
		t.Fatalf("short password want ErrPasswordTooWeak got %v", err)
	}

	if _, _, _, err := svc.Register(RegisterInput{Username: "dicegoblin", Password: "roll-the-dice"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{Username: "DICEGOBLIN", Password: "roll-the-dice"}); !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("duplicate username want ErrUsernameExists got %v", err)
	}
}

func TestLoginRejectsBadCredentialsAndDisabledUser(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	if _, _, _, err := svc.Register(RegisterInput{Username: "dicegoblin", Password: "roll-the-dice"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, _, err := svc.Login("dicegoblin", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password want ErrInvalidCredentials got %v", err)
	}
	if _, _, _, err := svc.Login("nobody", "roll-the-dice"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user want ErrInvalidCredentials got %v", err)
	}

	if err := db.Model(&models.User{}).Where("username = ?", "dicegoblin").Update("status", constants.UserStatusDisabled).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if _, _, _, err := svc.Login("dicegoblin", "roll-the-dice"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("disabled user want ErrUserDisabled got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user, _, _, err := svc.Register(RegisterInput{Username: "dicegoblin", Password: "roll-the-dice"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.ChangePassword(user.ID, "wrong-old", "brand-new-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong old password want ErrInvalidCredentials got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "roll-the-dice", "123"); !errors.Is(err, ErrPasswordTooWeak) {
		t.Fatalf("weak new password want ErrPasswordTooWeak got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "roll-the-dice", "brand-new-pass"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if _, _, _, err := svc.Login("dicegoblin", "brand-new-pass"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}
