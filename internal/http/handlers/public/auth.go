package public

import (
	"errors"

	handlershared "github.com/mesa-next/internal/http/handlers/shared"
	"github.com/mesa-next/internal/http/response"
	"github.com/mesa-next/internal/i18n"
	"github.com/mesa-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// RegisterRequest 餐厅注册请求
type RegisterRequest struct {
	RestaurantName  string                              `json:"restaurant_name"`
	Email           string                              `json:"email" binding:"omitempty,email"`
	Password        string                              `json:"password"`
	ConfirmPassword string                              `json:"confirm_password"`
	Phone           string                              `json:"phone"`
	Address         string                              `json:"address"`
	OwnerName       string                              `json:"owner_name"`
	AcceptTerms     bool                                `json:"accept_terms"`
	CaptchaPayload  handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// Register 注册餐厅，审核通过前无法登录
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, bindErrorKey(err), nil)
		return
	}
	result, err := h.AuthService.Register(c.Request.Context(), service.RegisterInput{
		RestaurantName:  req.RestaurantName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Phone:           req.Phone,
		Address:         req.Address,
		OwnerName:       req.OwnerName,
		AcceptTerms:     req.AcceptTerms,
		Captcha:         req.CaptchaPayload.ToServicePayload(),
	})
	if err != nil {
		if respondWeakPassword(c, err) {
			return
		}
		respondWithMappedError(c, err, registerErrorRules, response.CodeInternal, "error.register_failed")
		return
	}
	handlershared.SuccessMessage(c, "message.register_pending", gin.H{
		"account":    handlershared.NewAccountResponse(result.Account),
		"restaurant": result.Restaurant,
	})
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 邮箱密码登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	account, token, expiresAt, err := h.AuthService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithMappedError(c, err, loginErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{
		"account":    handlershared.NewAccountResponse(account),
		"token":      token,
		"expires_at": expiresAt,
	})
}

// ForgotPasswordRequest 找回密码请求
type ForgotPasswordRequest struct {
	Email          string                              `json:"email" binding:"required,email"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// ForgotPassword 申请重置密码；无论邮箱是否注册都返回相同提示
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, bindErrorKey(err), nil)
		return
	}
	locale := i18n.ResolveLocale(c)
	if err := h.AuthService.ForgotPassword(c.Request.Context(), req.Email, locale, req.CaptchaPayload.ToServicePayload()); err != nil {
		rules := concatMappedHandlerErrors(captchaErrorRules, []mappedHandlerError{
			{target: service.ErrEmailInvalid, code: response.CodeBadRequest, key: "error.email_invalid"},
		})
		respondWithMappedError(c, err, rules, response.CodeInternal, "error.password_reset_failed")
		return
	}
	handlershared.SuccessMessage(c, "message.password_reset_requested", gin.H{"requested": true})
}

// bindErrorKey 绑定失败时按字段给出提示，邮箱格式错误单独提示
func bindErrorKey(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return "error.bad_request"
	}
	for _, fe := range fieldErrs {
		if fe.Field() == "Email" && fe.Tag() == "email" {
			return "error.email_invalid"
		}
	}
	return "error.bad_request"
}

// respondWeakPassword 密码强度错误需要带参数的提示
func respondWeakPassword(c *gin.Context, err error) bool {
	if !errors.Is(err, service.ErrWeakPassword) {
		return false
	}
	var policyErr interface {
		Key() string
		Args() []interface{}
	}
	if errors.As(err, &policyErr) {
		handlershared.RespondErrorf(c, response.CodeBadRequest, policyErr.Key(), nil, policyErr.Args()...)
		return true
	}
	respondError(c, response.CodeBadRequest, "error.bad_request", nil)
	return true
}
