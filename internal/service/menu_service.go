package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mesa-next/internal/cache"
	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/logger"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/pricing"
	"github.com/mesa-next/internal/repository"
)

// 主题默认色
const (
	DefaultThemeBackground     = "#ffffff"
	DefaultThemeText           = "#1f2937"
	DefaultThemePrimary        = "#2563eb"
	DefaultThemeCardBackground = "#f9fafb"
	DefaultThemePrimaryText    = "#111827"
	DefaultThemeSecondaryText  = "#6b7280"
	DefaultThemeButtonStyle    = "rounded"
)

// MenuService 公开菜单服务
type MenuService struct {
	restaurantRepo   repository.RestaurantRepository
	subscriptionRepo repository.SubscriptionRepository
	categoryRepo     repository.CategoryRepository
	productRepo      repository.ProductRepository
	cacheTTL         time.Duration
	now              func() time.Time
}

// NewMenuService 创建菜单服务
func NewMenuService(
	restaurantRepo repository.RestaurantRepository,
	subscriptionRepo repository.SubscriptionRepository,
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	cacheTTL time.Duration,
) *MenuService {
	return &MenuService{
		restaurantRepo:   restaurantRepo,
		subscriptionRepo: subscriptionRepo,
		categoryRepo:     categoryRepo,
		productRepo:      productRepo,
		cacheTTL:         cacheTTL,
		now:              time.Now,
	}
}

// ThemeView 应用默认值后的主题
type ThemeView struct {
	Background     string             `json:"background"`
	Text           string             `json:"text"`
	Primary        string             `json:"primary"`
	Accent         string             `json:"accent"`
	CardBackground string             `json:"card_background"`
	PrimaryText    string             `json:"primary_text"`
	SecondaryText  string             `json:"secondary_text"`
	PrimaryFont    string             `json:"primary_font"`
	SecondaryFont  string             `json:"secondary_font"`
	FontSizes      models.FontSizes   `json:"font_sizes"`
	FontWeights    models.FontWeights `json:"font_weights"`
	ButtonStyle    string             `json:"button_style"`
	LayoutType     string             `json:"layout_type"`
}

// ProductView 菜单商品及价格区间
type ProductView struct {
	models.Product
	MinPrice models.Money `json:"min_price"`
	MaxPrice models.Money `json:"max_price"`
}

// MenuView 公开菜单
type MenuView struct {
	Restaurant models.Restaurant     `json:"restaurant"`
	Theme      ThemeView             `json:"theme"`
	Categories []models.Category     `json:"categories"`
	Products   []ProductView         `json:"products"`
	IsOpen     bool                  `json:"is_open"`
	TodayHours *models.BusinessHours `json:"today_hours"`
}

// ProductDetailView 商品详情及默认勾选配料
type ProductDetailView struct {
	Product          ProductView `json:"product"`
	DefaultSelection []string    `json:"default_selection"`
}

// QuoteInput 价格预览输入
type QuoteInput struct {
	ProductID   string
	VariationID string
	Selected    []string
	Quantity    int
}

// QuoteView 价格预览
type QuoteView struct {
	ProductID           string                      `json:"product_id"`
	VariationID         string                      `json:"variation_id"`
	Quantity            int                         `json:"quantity"`
	UnitPrice           models.Money                `json:"unit_price"`
	LineTotal           models.Money                `json:"line_total"`
	SelectedIngredients []models.SelectedIngredient `json:"selected_ingredients"`
}

// ResolveTheme 应用主题默认值
func ResolveTheme(settings models.RestaurantSettings) ThemeView {
	theme := settings.Theme
	return ThemeView{
		Background:     firstNonEmpty(theme.SecondaryColor, DefaultThemeBackground),
		Text:           firstNonEmpty(theme.TertiaryColor, DefaultThemeText),
		Primary:        firstNonEmpty(theme.PrimaryColor, DefaultThemePrimary),
		Accent:         firstNonEmpty(theme.AccentColor, theme.PrimaryColor, DefaultThemePrimary),
		CardBackground: firstNonEmpty(theme.CardBackgroundColor, DefaultThemeCardBackground),
		PrimaryText:    firstNonEmpty(theme.PrimaryTextColor, DefaultThemePrimaryText),
		SecondaryText:  firstNonEmpty(theme.SecondaryTextColor, DefaultThemeSecondaryText),
		PrimaryFont:    theme.PrimaryFont,
		SecondaryFont:  theme.SecondaryFont,
		FontSizes:      theme.FontSizes,
		FontWeights:    theme.FontWeights,
		ButtonStyle:    firstNonEmpty(theme.ButtonStyle, DefaultThemeButtonStyle),
		LayoutType:     settings.UISettings.LayoutType,
	}
}

// TodayHours 当天营业时间，未配置时返回 nil
func TodayHours(restaurant *models.Restaurant, now time.Time) *models.BusinessHours {
	if restaurant == nil || restaurant.Settings.BusinessHours == nil {
		return nil
	}
	day := strings.ToLower(now.Weekday().String())
	hours, ok := restaurant.Settings.BusinessHours[day]
	if !ok {
		return nil
	}
	return &hours
}

// IsOpen 当天是否营业
func IsOpen(restaurant *models.Restaurant, now time.Time) bool {
	hours := TodayHours(restaurant, now)
	return hours != nil && hours.IsOpen
}

// FilterProducts 按关键字（名称或描述，不区分大小写）与分类过滤，按 order_index 排序
func FilterProducts(products []ProductView, search, categoryID string) []ProductView {
	term := strings.ToLower(strings.TrimSpace(search))
	categoryID = strings.TrimSpace(categoryID)
	result := make([]ProductView, 0, len(products))
	for _, product := range products {
		if term != "" &&
			!strings.Contains(strings.ToLower(product.Name), term) &&
			!strings.Contains(strings.ToLower(product.Description), term) {
			continue
		}
		if categoryID != "" && categoryID != constants.MenuCategoryAll && product.CategoryID != categoryID {
			continue
		}
		result = append(result, product)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].OrderIndex < result[j].OrderIndex
	})
	return result
}

// PriceRange 规格价格区间，只统计价格大于 0 的规格；没有时返回 0, 0
func PriceRange(product *models.Product) (models.Money, models.Money) {
	var minPrice, maxPrice models.Money
	if product == nil {
		return minPrice, maxPrice
	}
	found := false
	for _, variation := range product.Variations {
		if !variation.Price.IsPositive() {
			continue
		}
		if !found || variation.Price.LessThan(minPrice.Decimal) {
			minPrice = variation.Price
		}
		if !found || variation.Price.GreaterThan(maxPrice.Decimal) {
			maxPrice = variation.Price
		}
		found = true
	}
	return minPrice, maxPrice
}

func newProductView(product models.Product) ProductView {
	minPrice, maxPrice := PriceRange(&product)
	return ProductView{Product: product, MinPrice: minPrice, MaxPrice: maxPrice}
}

// GetMenu 按 slug、ID 或域名获取公开菜单
func (s *MenuService) GetMenu(ctx context.Context, identifier string) (*MenuView, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrRestaurantIdentifierMissing
	}

	var view MenuView
	hit, err := cache.GetMenu(ctx, identifier, &view)
	if err != nil {
		logger.Warnw("menu_cache_get_failed", "identifier", identifier, "error", err)
	}
	if !hit {
		built, err := s.buildMenu(ctx, identifier)
		if err != nil {
			return nil, err
		}
		view = *built
		if err := cache.SetMenu(ctx, identifier, view, s.cacheTTL); err != nil {
			logger.Warnw("menu_cache_set_failed", "identifier", identifier, "error", err)
		}
	}

	now := s.now()
	view.TodayHours = TodayHours(&view.Restaurant, now)
	view.IsOpen = view.TodayHours != nil && view.TodayHours.IsOpen
	return &view, nil
}

// ListProducts 菜单商品检索
func (s *MenuService) ListProducts(ctx context.Context, identifier, search, categoryID string) ([]ProductView, error) {
	menu, err := s.GetMenu(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return FilterProducts(menu.Products, search, categoryID), nil
}

// GetProductDetail 商品详情
func (s *MenuService) GetProductDetail(ctx context.Context, identifier, productID string) (*ProductDetailView, error) {
	restaurant, err := s.ResolveOrderable(ctx, identifier)
	if err != nil {
		return nil, err
	}
	product, err := s.GetOrderableProduct(ctx, restaurant.ID, productID)
	if err != nil {
		return nil, err
	}
	return &ProductDetailView{
		Product:          newProductView(*product),
		DefaultSelection: product.DefaultIngredientIDs(),
	}, nil
}

// Quote 商品详情页的价格预览，与购物车计价一致
func (s *MenuService) Quote(ctx context.Context, identifier string, input QuoteInput) (*QuoteView, error) {
	if input.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	restaurant, err := s.ResolveOrderable(ctx, identifier)
	if err != nil {
		return nil, err
	}
	product, err := s.GetOrderableProduct(ctx, restaurant.ID, input.ProductID)
	if err != nil {
		return nil, err
	}
	variation, ok := product.FindVariation(input.VariationID)
	if !ok {
		return nil, ErrVariationNotFound
	}
	chosen := pricing.SelectedOptional(product.Ingredients, input.Selected)
	selected := make([]models.SelectedIngredient, 0, len(chosen))
	for _, ing := range chosen {
		extra := models.Money{}
		if ing.ExtraCost != nil {
			extra = *ing.ExtraCost
		}
		selected = append(selected, models.SelectedIngredient{ID: ing.ID, Name: ing.Name, ExtraCost: extra})
	}
	return &QuoteView{
		ProductID:           product.ID,
		VariationID:         variation.ID,
		Quantity:            input.Quantity,
		UnitPrice:           models.NewMoneyFromDecimal(pricing.UnitPrice(*variation, product.Ingredients, input.Selected)),
		LineTotal:           models.NewMoneyFromDecimal(pricing.LinePrice(*variation, product.Ingredients, input.Selected, input.Quantity)),
		SelectedIngredients: selected,
	}, nil
}

// ResolveOrderable 解析餐厅并校验订阅有效
func (s *MenuService) ResolveOrderable(ctx context.Context, identifier string) (*models.Restaurant, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrRestaurantIdentifierMissing
	}
	restaurant, err := s.restaurantRepo.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMenuLoadFailed, err)
	}
	if restaurant == nil {
		return nil, fmt.Errorf("%w: %s", ErrRestaurantNotFound, identifier)
	}
	subscription, err := s.subscriptionRepo.GetByRestaurant(ctx, restaurant.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMenuLoadFailed, err)
	}
	if subscription == nil || subscription.Status != constants.SubscriptionStatusActive {
		return nil, ErrSubscriptionInactive
	}
	return restaurant, nil
}

// GetOrderableProduct 获取可下单商品
func (s *MenuService) GetOrderableProduct(ctx context.Context, restaurantID, productID string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, restaurantID, strings.TrimSpace(productID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMenuLoadFailed, err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.IsOrderable() {
		return nil, ErrProductNotAvailable
	}
	return product, nil
}

// InvalidateRestaurant 失效餐厅菜单缓存
func (s *MenuService) InvalidateRestaurant(ctx context.Context, restaurantID string) {
	restaurant, err := s.restaurantRepo.GetByID(ctx, restaurantID)
	if err != nil || restaurant == nil {
		return
	}
	if err := cache.DelMenu(ctx, restaurant.ID, restaurant.Slug, restaurant.Domain); err != nil {
		logger.Warnw("menu_cache_invalidate_failed", "restaurant_id", restaurantID, "error", err)
	}
}

func (s *MenuService) buildMenu(ctx context.Context, identifier string) (*MenuView, error) {
	restaurant, err := s.ResolveOrderable(ctx, identifier)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.ListByRestaurant(ctx, restaurant.ID, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMenuLoadFailed, err)
	}
	products, err := s.productRepo.ListByRestaurant(ctx, repository.ProductListFilter{
		RestaurantID: restaurant.ID,
		Status:       constants.ProductStatusActive,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMenuLoadFailed, err)
	}
	views := make([]ProductView, 0, len(products))
	for _, product := range products {
		views = append(views, newProductView(product))
	}
	return &MenuView{
		Restaurant: *restaurant,
		Theme:      ResolveTheme(restaurant.Settings),
		Categories: categories,
		Products:   views,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
