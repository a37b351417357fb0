package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/repository"

	"github.com/google/uuid"
)

// CatalogService 餐厅老板维护分类与商品
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	menuService  *MenuService
}

// NewCatalogService 创建商品目录服务
func NewCatalogService(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository, menuService *MenuService) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		menuService:  menuService,
	}
}

// CategoryInput 创建/更新分类输入
type CategoryInput struct {
	Name        string
	Description string
	OrderIndex  int
	Active      *bool
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	CategoryID      string
	Name            string
	Description     string
	Status          string
	Images          []string
	Variations      []models.Variation
	Ingredients     []models.Ingredient
	PreparationTime *int
	IsFeatured      bool
	OrderIndex      int
}

// ListCategories 餐厅全部分类
func (s *CatalogService) ListCategories(ctx context.Context, restaurantID string) ([]models.Category, error) {
	return s.categoryRepo.ListByRestaurant(ctx, restaurantID, false)
}

// CreateCategory 创建分类
func (s *CatalogService) CreateCategory(ctx context.Context, restaurantID string, input CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}
	now := time.Now()
	category := &models.Category{
		ID:           uuid.NewString(),
		RestaurantID: restaurantID,
		Name:         name,
		Description:  strings.TrimSpace(input.Description),
		OrderIndex:   input.OrderIndex,
		Active:       input.Active == nil || *input.Active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	s.invalidate(ctx, restaurantID)
	return category, nil
}

// UpdateCategory 更新分类
func (s *CatalogService) UpdateCategory(ctx context.Context, restaurantID, id string, input CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}
	category, err := s.categoryRepo.Update(ctx, restaurantID, id, func(category *models.Category) error {
		category.Name = name
		category.Description = strings.TrimSpace(input.Description)
		category.OrderIndex = input.OrderIndex
		if input.Active != nil {
			category.Active = *input.Active
		}
		category.UpdatedAt = time.Now()
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, restaurantID)
	return category, nil
}

// DeleteCategory 删除分类，分类下仍有商品时拒绝
func (s *CatalogService) DeleteCategory(ctx context.Context, restaurantID, id string) error {
	count, err := s.productRepo.CountByCategory(ctx, restaurantID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	removed, err := s.categoryRepo.Delete(ctx, restaurantID, id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrCategoryNotFound
	}
	s.invalidate(ctx, restaurantID)
	return nil
}

// ListProducts 餐厅商品（可按分类、状态过滤）
func (s *CatalogService) ListProducts(ctx context.Context, filter repository.ProductListFilter) ([]ProductView, error) {
	products, err := s.productRepo.ListByRestaurant(ctx, filter)
	if err != nil {
		return nil, err
	}
	views := make([]ProductView, 0, len(products))
	for _, product := range products {
		views = append(views, newProductView(product))
	}
	return views, nil
}

// GetProduct 获取商品
func (s *CatalogService) GetProduct(ctx context.Context, restaurantID, id string) (*ProductView, error) {
	product, err := s.productRepo.GetByID(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	view := newProductView(*product)
	return &view, nil
}

// CreateProduct 创建商品
func (s *CatalogService) CreateProduct(ctx context.Context, restaurantID string, input ProductInput) (*models.Product, error) {
	normalized, err := s.normalizeProduct(ctx, restaurantID, input)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	normalized.ID = uuid.NewString()
	normalized.RestaurantID = restaurantID
	normalized.CreatedAt = now
	normalized.UpdatedAt = now
	if err := s.productRepo.Create(ctx, normalized); err != nil {
		return nil, err
	}
	s.invalidate(ctx, restaurantID)
	return normalized, nil
}

// UpdateProduct 更新商品
func (s *CatalogService) UpdateProduct(ctx context.Context, restaurantID, id string, input ProductInput) (*models.Product, error) {
	normalized, err := s.normalizeProduct(ctx, restaurantID, input)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.Update(ctx, restaurantID, id, func(product *models.Product) error {
		normalized.ID = product.ID
		normalized.RestaurantID = product.RestaurantID
		normalized.CreatedAt = product.CreatedAt
		normalized.UpdatedAt = time.Now()
		*product = *normalized
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, restaurantID)
	return product, nil
}

// DeleteProduct 删除商品
func (s *CatalogService) DeleteProduct(ctx context.Context, restaurantID, id string) error {
	removed, err := s.productRepo.Delete(ctx, restaurantID, id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrProductNotFound
	}
	s.invalidate(ctx, restaurantID)
	return nil
}

func (s *CatalogService) normalizeProduct(ctx context.Context, restaurantID string, input ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProductNameRequired
	}
	categoryID := strings.TrimSpace(input.CategoryID)
	if categoryID == "" {
		return nil, ErrProductCategoryRequired
	}
	category, err := s.categoryRepo.GetByID(ctx, restaurantID, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = constants.ProductStatusActive
	}
	if !isValidProductStatus(status) {
		return nil, ErrProductStatusInvalid
	}
	variations, err := NormalizeVariations(input.Variations)
	if err != nil {
		return nil, err
	}
	ingredients, err := NormalizeIngredients(input.Ingredients)
	if err != nil {
		return nil, err
	}
	images := make([]string, 0, len(input.Images))
	for _, image := range input.Images {
		if trimmed := strings.TrimSpace(image); trimmed != "" {
			images = append(images, trimmed)
		}
	}
	return &models.Product{
		CategoryID:      categoryID,
		Name:            name,
		Description:     strings.TrimSpace(input.Description),
		Status:          status,
		Images:          images,
		Variations:      variations,
		Ingredients:     ingredients,
		PreparationTime: input.PreparationTime,
		IsFeatured:      input.IsFeatured,
		OrderIndex:      input.OrderIndex,
	}, nil
}

// NormalizeVariations 未提供规格时生成价格为 0 的 Default；
// 丢弃无名称或负价格的规格，全部被丢弃时报错
func NormalizeVariations(input []models.Variation) ([]models.Variation, error) {
	if len(input) == 0 {
		return []models.Variation{{ID: uuid.NewString(), Name: "Default"}}, nil
	}
	result := make([]models.Variation, 0, len(input))
	for _, variation := range input {
		variation.Name = strings.TrimSpace(variation.Name)
		if variation.Name == "" || variation.Price.IsNegative() {
			continue
		}
		variation.ID = strings.TrimSpace(variation.ID)
		if variation.ID == "" {
			variation.ID = uuid.NewString()
		}
		variation.SKU = strings.TrimSpace(variation.SKU)
		variation.Price = roundMoney(variation.Price)
		if variation.CompareAtPrice != nil {
			compare := roundMoney(*variation.CompareAtPrice)
			variation.CompareAtPrice = &compare
		}
		result = append(result, variation)
	}
	if len(result) == 0 {
		return nil, ErrProductVariationRequired
	}
	return result, nil
}

// NormalizeIngredients 丢弃无名称配料；非可选配料不保留加价
// ID 重复或含控制字符时拒绝
func NormalizeIngredients(input []models.Ingredient) ([]models.Ingredient, error) {
	result := make([]models.Ingredient, 0, len(input))
	seen := make(map[string]struct{}, len(input))
	for _, ingredient := range input {
		ingredient.Name = strings.TrimSpace(ingredient.Name)
		if ingredient.Name == "" {
			continue
		}
		ingredient.ID = strings.TrimSpace(ingredient.ID)
		if ingredient.ID == "" {
			ingredient.ID = uuid.NewString()
		}
		if strings.IndexFunc(ingredient.ID, unicode.IsControl) >= 0 {
			return nil, ErrIngredientIDInvalid
		}
		if _, dup := seen[ingredient.ID]; dup {
			return nil, ErrIngredientIDInvalid
		}
		seen[ingredient.ID] = struct{}{}
		switch {
		case !ingredient.Optional:
			ingredient.ExtraCost = nil
		case ingredient.ExtraCost != nil:
			extra := roundMoney(*ingredient.ExtraCost)
			ingredient.ExtraCost = &extra
		}
		result = append(result, ingredient)
	}
	return result, nil
}

// roundMoney 金额按 2 位小数入库
func roundMoney(m models.Money) models.Money {
	return models.NewMoneyFromDecimal(m.Round(2))
}

func isValidProductStatus(status string) bool {
	switch status {
	case constants.ProductStatusActive, constants.ProductStatusOutOfStock, constants.ProductStatusArchived:
		return true
	}
	return false
}

func (s *CatalogService) invalidate(ctx context.Context, restaurantID string) {
	if s.menuService != nil {
		s.menuService.InvalidateRestaurant(ctx, restaurantID)
	}
}
