package owner

import (
	"strings"

	"github.com/mesa-next/internal/http/response"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/repository"
	"github.com/mesa-next/internal/service"

	"github.com/gin-gonic/gin"
)

var categoryErrorRules = []mappedHandlerError{
	{target: service.ErrCategoryNotFound, code: response.CodeNotFound, key: "error.category_not_found"},
	{target: service.ErrCategoryNameRequired, code: response.CodeBadRequest, key: "error.category_name_required"},
	{target: service.ErrCategoryInUse, code: response.CodeConflict, key: "error.category_in_use"},
}

var productErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrProductNameRequired, code: response.CodeBadRequest, key: "error.product_name_required"},
	{target: service.ErrProductCategoryRequired, code: response.CodeBadRequest, key: "error.product_category_required"},
	{target: service.ErrCategoryNotFound, code: response.CodeBadRequest, key: "error.category_not_found"},
	{target: service.ErrProductVariationRequired, code: response.CodeBadRequest, key: "error.product_variation_required"},
	{target: service.ErrIngredientIDInvalid, code: response.CodeBadRequest, key: "error.ingredient_id_invalid"},
	{target: service.ErrProductStatusInvalid, code: response.CodeBadRequest, key: "error.product_status_invalid"},
}

// CategoryRequest 分类请求
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index"`
	Active      *bool  `json:"active"`
}

func (r CategoryRequest) toInput() service.CategoryInput {
	return service.CategoryInput{
		Name:        r.Name,
		Description: r.Description,
		OrderIndex:  r.OrderIndex,
		Active:      r.Active,
	}
}

// ListCategories 分类列表
func (h *Handler) ListCategories(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	categories, err := h.CatalogService.ListCategories(c.Request.Context(), rid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, categories)
}

// CreateCategory 新建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	category, err := h.CatalogService.CreateCategory(c.Request.Context(), rid, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, categoryErrorRules, response.CodeInternal, "error.category_save_failed")
		return
	}
	response.Success(c, category)
}

// UpdateCategory 修改分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	category, err := h.CatalogService.UpdateCategory(c.Request.Context(), rid, c.Param("id"), req.toInput())
	if err != nil {
		respondWithMappedError(c, err, categoryErrorRules, response.CodeInternal, "error.category_save_failed")
		return
	}
	response.Success(c, category)
}

// DeleteCategory 删除分类，仍有商品时拒绝
func (h *Handler) DeleteCategory(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	if err := h.CatalogService.DeleteCategory(c.Request.Context(), rid, c.Param("id")); err != nil {
		respondWithMappedError(c, err, categoryErrorRules, response.CodeInternal, "error.category_save_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ProductRequest 商品请求
type ProductRequest struct {
	CategoryID      string              `json:"category_id"`
	Name            string              `json:"name"`
	Description     string              `json:"description"`
	Status          string              `json:"status"`
	Images          []string            `json:"images"`
	Variations      []models.Variation  `json:"variations"`
	Ingredients     []models.Ingredient `json:"ingredients"`
	PreparationTime *int                `json:"preparation_time"`
	IsFeatured      bool                `json:"is_featured"`
	OrderIndex      int                 `json:"order_index"`
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		CategoryID:      r.CategoryID,
		Name:            r.Name,
		Description:     r.Description,
		Status:          r.Status,
		Images:          r.Images,
		Variations:      r.Variations,
		Ingredients:     r.Ingredients,
		PreparationTime: r.PreparationTime,
		IsFeatured:      r.IsFeatured,
		OrderIndex:      r.OrderIndex,
	}
}

// ListProducts 商品列表，可按分类与状态筛选
func (h *Handler) ListProducts(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	products, err := h.CatalogService.ListProducts(c.Request.Context(), repository.ProductListFilter{
		RestaurantID: rid,
		CategoryID:   strings.TrimSpace(c.Query("category_id")),
		Status:       strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, products)
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	product, err := h.CatalogService.GetProduct(c.Request.Context(), rid, c.Param("id"))
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, product)
}

// CreateProduct 新建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	product, err := h.CatalogService.CreateProduct(c.Request.Context(), rid, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.product_save_failed")
		return
	}
	response.Success(c, product)
}

// UpdateProduct 修改商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	product, err := h.CatalogService.UpdateProduct(c.Request.Context(), rid, c.Param("id"), req.toInput())
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.product_save_failed")
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	if err := h.CatalogService.DeleteProduct(c.Request.Context(), rid, c.Param("id")); err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.product_save_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
