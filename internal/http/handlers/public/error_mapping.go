package public

import (
	"errors"

	handlershared "github.com/mesa-next/internal/http/handlers/shared"
	"github.com/mesa-next/internal/http/response"
	"github.com/mesa-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

// respondRestaurantError 餐厅解析失败，未找到时消息带上标识
func respondRestaurantError(c *gin.Context, identifier string, err error, fallbackKey string) {
	if errors.Is(err, service.ErrRestaurantNotFound) {
		handlershared.RespondErrorf(c, response.CodeNotFound, "error.restaurant_not_found", nil, identifier)
		return
	}
	respondWithMappedError(c, err, restaurantErrorRules, response.CodeInternal, fallbackKey)
}

func isRestaurantError(err error) bool {
	if errors.Is(err, service.ErrRestaurantNotFound) {
		return true
	}
	for _, rule := range restaurantErrorRules {
		if errors.Is(err, rule.target) {
			return true
		}
	}
	return false
}

var restaurantErrorRules = []mappedHandlerError{
	{target: service.ErrRestaurantIdentifierMissing, code: response.CodeBadRequest, key: "error.restaurant_identifier_missing"},
	{target: service.ErrSubscriptionInactive, code: response.CodeUnavailable, key: "error.subscription_inactive"},
	{target: service.ErrMenuLoadFailed, code: response.CodeInternal, key: "error.menu_load_failed"},
}

var productErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, key: "error.product_not_available"},
	{target: service.ErrVariationNotFound, code: response.CodeBadRequest, key: "error.variation_not_found"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, key: "error.quantity_invalid"},
	{target: service.ErrQuantityTooLarge, code: response.CodeBadRequest, key: "error.quantity_too_large"},
}

var cartErrorRules = concatMappedHandlerErrors(productErrorRules, []mappedHandlerError{
	{target: service.ErrCartLineNotFound, code: response.CodeNotFound, key: "error.cart_line_not_found"},
	{target: service.ErrSessionInvalid, code: response.CodeBadRequest, key: "error.session_invalid"},
})

var captchaErrorRules = []mappedHandlerError{
	{target: service.ErrCaptchaRequired, code: response.CodeBadRequest, key: "error.captcha_required"},
	{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest, key: "error.captcha_invalid"},
	{target: service.ErrCaptchaConfigInvalid, code: response.CodeInternal, key: "error.captcha_unavailable"},
}

var registerErrorRules = concatMappedHandlerErrors(captchaErrorRules, []mappedHandlerError{
	{target: service.ErrRegisterFieldsRequired, code: response.CodeBadRequest, key: "error.register_fields_required"},
	{target: service.ErrEmailInvalid, code: response.CodeBadRequest, key: "error.email_invalid"},
	{target: service.ErrPasswordMismatch, code: response.CodeBadRequest, key: "error.password_mismatch"},
	{target: service.ErrTermsRequired, code: response.CodeBadRequest, key: "error.terms_required"},
	{target: service.ErrEmailExists, code: response.CodeConflict, key: "error.email_exists"},
	{target: service.ErrSlugExists, code: response.CodeConflict, key: "error.slug_exists"},
})

var loginErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, key: "error.login_invalid"},
	{target: service.ErrRestaurantPending, code: response.CodeForbidden, key: "error.restaurant_pending"},
}
