package public

import (
	"errors"

	handlershared "github.com/meeplemarket/internal/http/handlers/shared"
	"github.com/meeplemarket/internal/http/response"
	"github.com/meeplemarket/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
}

// respondWithMappedError 命中映射时以业务错误自身的文案返回，未命中走兜底。
func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			handlershared.RespondError(c, rule.code, err.Error(), nil)
			return
		}
	}
	handlershared.RespondError(c, fallbackCode, fallbackMsg, err)
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest},
	{target: service.ErrCartItemInvalid, code: response.CodeBadRequest},
	{target: service.ErrAddressRequired, code: response.CodeBadRequest},
	{target: service.ErrPaymentMethodInvalid, code: response.CodeBadRequest},
	{target: service.ErrDeliveryMethodInvalid, code: response.CodeBadRequest},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest},
	{target: service.ErrOutOfStock, code: response.CodeBadRequest},
}

var settleErrorRules = []mappedHandlerError{
	{target: service.ErrSettleOutcomeInvalid, code: response.CodeBadRequest},
	{target: service.ErrPaymentNotFound, code: response.CodeNotFound},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound},
	{target: service.ErrUnauthorized, code: response.CodeForbidden},
	{target: service.ErrPaymentAmountMismatch, code: response.CodeConflict},
	{target: service.ErrPaymentStatusInvalid, code: response.CodeConflict},
	{target: service.ErrOrderStatusInvalid, code: response.CodeConflict},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrCartItemInvalid, code: response.CodeBadRequest},
	{target: service.ErrCartQuantityExceed, code: response.CodeBadRequest},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest},
}

var reviewErrorRules = []mappedHandlerError{
	{target: service.ErrReviewRatingInvalid, code: response.CodeBadRequest},
	{target: service.ErrProductNotFound, code: response.CodeNotFound},
	{target: service.ErrReviewExists, code: response.CodeConflict},
}

var authErrorRules = []mappedHandlerError{
	{target: service.ErrUsernameInvalid, code: response.CodeBadRequest},
	{target: service.ErrPasswordTooWeak, code: response.CodeBadRequest},
	{target: service.ErrUsernameExists, code: response.CodeConflict},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized},
	{target: service.ErrUserDisabled, code: response.CodeForbidden},
}

var settingsErrorRules = []mappedHandlerError{
	{target: service.ErrSettingsThemeInvalid, code: response.CodeBadRequest},
	{target: service.ErrSavedFilterNotFound, code: response.CodeNotFound},
}
