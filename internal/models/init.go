package models

import (
	"errors"

	"github.com/meeplemarket/internal/constants"
	"github.com/meeplemarket/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// InitDefaultAdmin 初始化默认管理员账号（仅当不存在 admin 角色用户时创建）
func InitDefaultAdmin(username, password string) error {
	var count int64
	if err := DB.Model(&User{}).Where("role = ?", constants.UserRoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if username == "" {
		username = "admin"
	}
	if password == "" {
		password = "admin123"
		logger.Warnw("default_admin_password_in_use",
			"username", username,
			"hint", "set MM_DEFAULT_ADMIN_PASSWORD before production",
		)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := User{
		Username:     username,
		Email:        username + "@meeplemarket.local",
		FullName:     "Administrator",
		PasswordHash: string(hash),
		Role:         constants.UserRoleAdmin,
		Status:       constants.UserStatusActive,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	logger.Warnw("default_admin_created",
		"username", username,
		"note", "change the password after first login",
	)
	return nil
}

// InitReferenceMethods 初始化支付方式与配送方式基础数据（get-or-create，不覆盖已有行）
func InitReferenceMethods() error {
	paymentMethods := []PaymentMethod{
		{Code: constants.PaymentMethodCOD, Name: "Cash on delivery", IsCashOnDelivery: true, SortOrder: 30},
		{Code: constants.PaymentMethodCard, Name: "Credit card", SortOrder: 20},
		{Code: constants.PaymentMethodBank, Name: "Bank transfer", SortOrder: 10},
	}
	for _, method := range paymentMethods {
		var existing PaymentMethod
		err := DB.Where("code = ?", method.Code).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := DB.Create(&method).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}

	deliveryMethods := []DeliveryMethod{
		{Code: constants.DeliveryMethodStandard, Name: "Standard shipping", SortOrder: 20},
		{Code: constants.DeliveryMethodExpress, Name: "Express shipping", SortOrder: 10},
	}
	for _, method := range deliveryMethods {
		var existing DeliveryMethod
		err := DB.Where("code = ?", method.Code).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := DB.Create(&method).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}

	return nil
}
