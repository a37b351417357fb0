package public

import (
	"errors"
	"strings"

	"github.com/mesa-next/internal/checkout"
	handlershared "github.com/mesa-next/internal/http/handlers/shared"
	"github.com/mesa-next/internal/http/response"
	"github.com/mesa-next/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionHeader 顾客会话标识请求头，缺省时由服务端签发
const SessionHeader = "X-Session-ID"

var checkoutErrorRules = concatMappedHandlerErrors(cartErrorRules, []mappedHandlerError{
	{target: checkout.ErrInvalidTransition, code: response.CodeBadRequest, key: "error.checkout_step_invalid"},
	{target: checkout.ErrInvalidMode, code: response.CodeBadRequest, key: "error.delivery_mode_invalid"},
	{target: checkout.ErrEmptyCart, code: response.CodeBadRequest, key: "error.cart_empty"},
})

func sessionID(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(SessionHeader))
}

func sessionIdentifier(c *gin.Context) string {
	return strings.TrimSpace(c.Param("identifier"))
}

// respondSessionError 统一处理会话接口错误
func respondSessionError(c *gin.Context, err error, fallbackKey string) {
	var validationErr *checkout.ValidationError
	if errors.As(err, &validationErr) {
		handlershared.RespondErrorWithData(c, response.CodeBadRequest, validationErr.MessageKey, gin.H{
			"fields": validationErr.Fields,
		})
		return
	}
	if isRestaurantError(err) {
		respondRestaurantError(c, sessionIdentifier(c), err, fallbackKey)
		return
	}
	respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, fallbackKey)
}

func respondCart(c *gin.Context, view *service.CartView) {
	c.Header(SessionHeader, view.SessionID)
	response.Success(c, view)
}

func respondCheckout(c *gin.Context, view *service.CheckoutView) {
	c.Header(SessionHeader, view.SessionID)
	response.Success(c, view)
}

// GetCart 查看购物车
func (h *Handler) GetCart(c *gin.Context) {
	view, err := h.SessionService.Cart(c.Request.Context(), sessionID(c), sessionIdentifier(c))
	if err != nil {
		respondSessionError(c, err, "error.internal")
		return
	}
	respondCart(c, view)
}

// AddCartItemRequest 加购请求
type AddCartItemRequest struct {
	ProductID           string   `json:"product_id" binding:"required"`
	VariationID         string   `json:"variation_id" binding:"required"`
	Quantity            int      `json:"quantity"`
	SpecialNotes        string   `json:"special_notes"`
	SelectedIngredients []string `json:"selected_ingredients"`
}

// AddCartItem 加入购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	view, err := h.SessionService.AddItem(c.Request.Context(), sessionID(c), sessionIdentifier(c), service.AddCartItemInput{
		ProductID:           req.ProductID,
		VariationID:         req.VariationID,
		Quantity:            req.Quantity,
		SpecialNotes:        req.SpecialNotes,
		SelectedIngredients: req.SelectedIngredients,
	})
	if err != nil {
		respondSessionError(c, err, "error.internal")
		return
	}
	respondCart(c, view)
}

// UpdateCartItemRequest 修改数量请求
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// UpdateCartItem 修改行数量，数量不大于 0 时移除
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	view, err := h.SessionService.UpdateItem(c.Request.Context(), sessionID(c), sessionIdentifier(c), c.Param("key"), *req.Quantity)
	if err != nil {
		respondSessionError(c, err, "error.internal")
		return
	}
	respondCart(c, view)
}

// RemoveCartItem 移除购物车行
func (h *Handler) RemoveCartItem(c *gin.Context) {
	view, err := h.SessionService.RemoveItem(c.Request.Context(), sessionID(c), sessionIdentifier(c), c.Param("key"))
	if err != nil {
		respondSessionError(c, err, "error.internal")
		return
	}
	respondCart(c, view)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	view, err := h.SessionService.ClearCart(c.Request.Context(), sessionID(c), sessionIdentifier(c))
	if err != nil {
		respondSessionError(c, err, "error.internal")
		return
	}
	respondCart(c, view)
}

// GetCheckout 查看结账流程
func (h *Handler) GetCheckout(c *gin.Context) {
	view, err := h.SessionService.Checkout(c.Request.Context(), sessionID(c), sessionIdentifier(c))
	if err != nil {
		respondSessionError(c, err, "error.internal")
		return
	}
	respondCheckout(c, view)
}

// SelectModeRequest 选择配送方式请求
type SelectModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// SelectCheckoutMode 选择配送方式
func (h *Handler) SelectCheckoutMode(c *gin.Context) {
	var req SelectModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	view, err := h.SessionService.SelectMode(c.Request.Context(), sessionID(c), sessionIdentifier(c), strings.TrimSpace(req.Mode))
	if err != nil {
		respondSessionError(c, err, "error.internal")
		return
	}
	respondCheckout(c, view)
}

// CheckoutBack 返回配送方式选择
func (h *Handler) CheckoutBack(c *gin.Context) {
	view, err := h.SessionService.Back(c.Request.Context(), sessionID(c), sessionIdentifier(c))
	if err != nil {
		respondSessionError(c, err, "error.internal")
		return
	}
	respondCheckout(c, view)
}

// SetCheckoutInfo 填写顾客信息，校验在 continue 时进行
func (h *Handler) SetCheckoutInfo(c *gin.Context) {
	var req checkout.CustomerInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	view, err := h.SessionService.SetCustomerInfo(c.Request.Context(), sessionID(c), sessionIdentifier(c), req)
	if err != nil {
		respondSessionError(c, err, "error.internal")
		return
	}
	respondCheckout(c, view)
}

// CheckoutContinue 校验顾客信息并进入确认页
func (h *Handler) CheckoutContinue(c *gin.Context) {
	view, err := h.SessionService.Continue(c.Request.Context(), sessionID(c), sessionIdentifier(c))
	if err != nil {
		respondSessionError(c, err, "error.internal")
		return
	}
	respondCheckout(c, view)
}

// CheckoutEdit 返回修改顾客信息
func (h *Handler) CheckoutEdit(c *gin.Context) {
	view, err := h.SessionService.EditInfo(c.Request.Context(), sessionID(c), sessionIdentifier(c))
	if err != nil {
		respondSessionError(c, err, "error.internal")
		return
	}
	respondCheckout(c, view)
}

// CheckoutConfirm 提交订单；失败时购物车与流程保持不变
func (h *Handler) CheckoutConfirm(c *gin.Context) {
	view, err := h.SessionService.Confirm(c.Request.Context(), sessionID(c), sessionIdentifier(c))
	if err != nil {
		respondSessionError(c, err, "error.order_create_failed")
		return
	}
	c.Header(SessionHeader, view.SessionID)
	response.Success(c, view)
}

// CheckoutClose 关闭结账流程
func (h *Handler) CheckoutClose(c *gin.Context) {
	view, err := h.SessionService.Close(c.Request.Context(), sessionID(c), sessionIdentifier(c))
	if err != nil {
		respondSessionError(c, err, "error.internal")
		return
	}
	respondCheckout(c, view)
}
