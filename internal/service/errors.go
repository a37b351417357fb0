package service

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")

	// 菜单
	ErrRestaurantIdentifierMissing = errors.New("restaurant identifier missing")
	ErrRestaurantNotFound          = errors.New("restaurant not found")
	ErrSubscriptionInactive        = errors.New("subscription inactive")
	ErrMenuLoadFailed              = errors.New("menu load failed")

	// 购物车与结账
	ErrProductNotFound     = errors.New("product not found")
	ErrProductNotAvailable = errors.New("product not available")
	ErrVariationNotFound   = errors.New("variation not found")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrQuantityTooLarge    = errors.New("quantity too large")
	ErrCartLineNotFound    = errors.New("cart line not found")
	ErrSessionInvalid      = errors.New("session invalid")

	// 订单
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderStatusInvalid   = errors.New("order status transition invalid")
	ErrOrderIDExhausted     = errors.New("order id allocation exhausted")
	ErrOrderRestaurantEmpty = errors.New("order restaurant missing")

	// 商品目录
	ErrCategoryNotFound         = errors.New("category not found")
	ErrCategoryNameRequired     = errors.New("category name required")
	ErrCategoryInUse            = errors.New("category in use")
	ErrProductNameRequired      = errors.New("product name required")
	ErrProductCategoryRequired  = errors.New("product category required")
	ErrProductVariationRequired = errors.New("product variation required")
	ErrIngredientIDInvalid      = errors.New("ingredient id invalid")
	ErrProductStatusInvalid     = errors.New("product status invalid")

	// 账号
	ErrRegisterFieldsRequired = errors.New("register fields required")
	ErrEmailInvalid           = errors.New("email invalid")
	ErrWeakPassword           = errors.New("password too weak")
	ErrPasswordMismatch       = errors.New("password mismatch")
	ErrTermsRequired          = errors.New("terms not accepted")
	ErrEmailExists            = errors.New("email exists")
	ErrSlugExists             = errors.New("slug exists")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrRestaurantPending      = errors.New("restaurant pending approval")

	// 验证码
	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")

	// 超级管理员
	ErrPlanInvalid               = errors.New("plan invalid")
	ErrSubscriptionStatusInvalid = errors.New("subscription status invalid")
)
