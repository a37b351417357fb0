package public

import (
	"errors"
	"strings"

	"github.com/mesa-next/internal/http/response"
	"github.com/mesa-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetMenu 餐厅菜单
func (h *Handler) GetMenu(c *gin.Context) {
	identifier := strings.TrimSpace(c.Param("identifier"))
	menu, err := h.MenuService.GetMenu(c.Request.Context(), identifier)
	if err != nil {
		respondRestaurantError(c, identifier, err, "error.menu_load_failed")
		return
	}
	response.Success(c, menu)
}

// ListMenuProducts 按关键字与分类筛选菜单商品
func (h *Handler) ListMenuProducts(c *gin.Context) {
	identifier := strings.TrimSpace(c.Param("identifier"))
	products, err := h.MenuService.ListProducts(
		c.Request.Context(),
		identifier,
		c.Query("search"),
		c.Query("category"),
	)
	if err != nil {
		respondRestaurantError(c, identifier, err, "error.menu_load_failed")
		return
	}
	response.Success(c, products)
}

// GetMenuProduct 商品详情
func (h *Handler) GetMenuProduct(c *gin.Context) {
	identifier := strings.TrimSpace(c.Param("identifier"))
	detail, err := h.MenuService.GetProductDetail(c.Request.Context(), identifier, c.Param("product_id"))
	if err != nil {
		if isProductError(err) {
			respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.menu_load_failed")
			return
		}
		respondRestaurantError(c, identifier, err, "error.menu_load_failed")
		return
	}
	response.Success(c, detail)
}

// QuoteRequest 价格预览请求
type QuoteRequest struct {
	ProductID           string   `json:"product_id" binding:"required"`
	VariationID         string   `json:"variation_id" binding:"required"`
	SelectedIngredients []string `json:"selected_ingredients"`
	Quantity            int      `json:"quantity"`
}

// QuoteProduct 商品详情页价格预览
func (h *Handler) QuoteProduct(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	identifier := strings.TrimSpace(c.Param("identifier"))
	quote, err := h.MenuService.Quote(c.Request.Context(), identifier, service.QuoteInput{
		ProductID:   req.ProductID,
		VariationID: req.VariationID,
		Selected:    req.SelectedIngredients,
		Quantity:    req.Quantity,
	})
	if err != nil {
		if isProductError(err) {
			respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.menu_load_failed")
			return
		}
		respondRestaurantError(c, identifier, err, "error.menu_load_failed")
		return
	}
	response.Success(c, quote)
}

func isProductError(err error) bool {
	for _, rule := range productErrorRules {
		if errors.Is(err, rule.target) {
			return true
		}
	}
	return false
}
