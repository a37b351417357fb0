package service

import (
	"context"
	"time"

	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/logger"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/repository"
)

// DemoOwnerPassword 演示账号密码
const DemoOwnerPassword = "demo1234"

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// SeedService 演示数据
type SeedService struct {
	restaurantRepo   repository.RestaurantRepository
	subscriptionRepo repository.SubscriptionRepository
	categoryRepo     repository.CategoryRepository
	productRepo      repository.ProductRepository
	orderRepo        repository.OrderRepository
	accountRepo      repository.AccountRepository
	authService      *AuthService
}

// NewSeedService 创建演示数据服务
func NewSeedService(
	restaurantRepo repository.RestaurantRepository,
	subscriptionRepo repository.SubscriptionRepository,
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	accountRepo repository.AccountRepository,
	authService *AuthService,
) *SeedService {
	return &SeedService{
		restaurantRepo:   restaurantRepo,
		subscriptionRepo: subscriptionRepo,
		categoryRepo:     categoryRepo,
		productRepo:      productRepo,
		orderRepo:        orderRepo,
		accountRepo:      accountRepo,
		authService:      authService,
	}
}

// SeedIfEmpty 没有任何餐厅时写入演示数据
func (s *SeedService) SeedIfEmpty(ctx context.Context) (bool, error) {
	restaurants, err := s.restaurantRepo.List(ctx)
	if err != nil {
		return false, err
	}
	if len(restaurants) > 0 {
		return false, nil
	}
	return true, s.Seed(ctx)
}

// Seed 覆盖全部集合为演示数据，之后补建超级管理员
func (s *SeedService) Seed(ctx context.Context) error {
	data, err := buildDemoData(time.Now(), s.hash)
	if err != nil {
		return err
	}
	if err := s.restaurantRepo.ReplaceAll(ctx, data.restaurants); err != nil {
		return err
	}
	if err := s.subscriptionRepo.ReplaceAll(ctx, data.subscriptions); err != nil {
		return err
	}
	if err := s.categoryRepo.ReplaceAll(ctx, data.categories); err != nil {
		return err
	}
	if err := s.productRepo.ReplaceAll(ctx, data.products); err != nil {
		return err
	}
	if err := s.orderRepo.ReplaceAll(ctx, nil); err != nil {
		return err
	}
	if err := s.accountRepo.ReplaceAll(ctx, data.accounts); err != nil {
		return err
	}
	if s.authService != nil {
		if err := s.authService.EnsureSuperAdmin(ctx); err != nil {
			return err
		}
	}
	logger.Infow("demo_data_seeded",
		"restaurants", len(data.restaurants),
		"products", len(data.products),
		"accounts", len(data.accounts),
	)
	return nil
}

func (s *SeedService) hash(password string) (string, error) {
	if s.authService != nil {
		return s.authService.HashPassword(password)
	}
	return (&AuthService{}).HashPassword(password)
}

// DefaultRestaurantSettings 新餐厅的默认展示设置
func DefaultRestaurantSettings() models.RestaurantSettings {
	hours := make(map[string]models.BusinessHours, len(weekdays))
	for _, day := range weekdays {
		hours[day] = models.BusinessHours{IsOpen: day != "sunday", Open: "09:00", Close: "21:00"}
	}
	return models.RestaurantSettings{
		Theme: models.Theme{
			PrimaryColor:        DefaultThemePrimary,
			SecondaryColor:      DefaultThemeBackground,
			TertiaryColor:       DefaultThemeText,
			CardBackgroundColor: DefaultThemeCardBackground,
			PrimaryTextColor:    DefaultThemePrimaryText,
			SecondaryTextColor:  DefaultThemeSecondaryText,
			ButtonStyle:         DefaultThemeButtonStyle,
		},
		UISettings:    models.UISettings{LayoutType: "grid"},
		BusinessHours: hours,
	}
}

type demoData struct {
	restaurants   []models.Restaurant
	subscriptions []models.Subscription
	categories    []models.Category
	products      []models.Product
	accounts      []models.Account
}

func buildDemoData(now time.Time, hash func(string) (string, error)) (*demoData, error) {
	ownerHash, err := hash(DemoOwnerPassword)
	if err != nil {
		return nil, err
	}
	money := func(v string) *models.Money {
		m := models.MustMoney(v)
		return &m
	}
	prep := func(minutes int) *int { return &minutes }

	arepa := models.Restaurant{
		ID:          "rest-arepa",
		Slug:        "la-arepa-dorada",
		Name:        "La Arepa Dorada",
		Description: "Comida colombiana hecha en casa",
		Phone:       "+57 300 123 4567",
		Email:       "hola@arepadorada.co",
		Address:     "Calle 10 # 43-12, Medellín",
		OwnerID:     "acct-arepa",
		SocialMedia: models.SocialMedia{Instagram: "arepadorada"},
		Settings:    DefaultRestaurantSettings(),
		Status:      constants.RestaurantStatusActive,
		CreatedAt:   now.Add(-72 * time.Hour),
		UpdatedAt:   now.Add(-72 * time.Hour),
	}
	arepa.Settings.Promo = models.Promo{Enabled: true, PromoText: "2x1 en jugos los martes", CTAText: "Ver menú"}

	cafe := models.Restaurant{
		ID:        "rest-cafe",
		Slug:      "cafe-montana",
		Name:      "Café Montaña",
		Phone:     "+57 310 555 0101",
		Email:     "cafe@montana.co",
		Address:   "Carrera 7 # 12-30, Bogotá",
		OwnerID:   "acct-cafe",
		Settings:  DefaultRestaurantSettings(),
		Status:    constants.RestaurantStatusPending,
		CreatedAt: now.Add(-2 * time.Hour),
		UpdatedAt: now.Add(-2 * time.Hour),
	}

	categories := []models.Category{
		{ID: "cat-main", RestaurantID: arepa.ID, Name: "Platos fuertes", OrderIndex: 1, Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: "cat-drinks", RestaurantID: arepa.ID, Name: "Bebidas", OrderIndex: 2, Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: "cat-desserts", RestaurantID: arepa.ID, Name: "Postres", OrderIndex: 3, Active: false, CreatedAt: now, UpdatedAt: now},
	}

	products := []models.Product{
		{
			ID:           "prod-burger",
			RestaurantID: arepa.ID,
			CategoryID:   "cat-main",
			Name:         "Hamburguesa de la casa",
			Description:  "Carne angus, queso y salsa de la casa",
			Status:       constants.ProductStatusActive,
			Variations: []models.Variation{
				{ID: "var-burger-single", Name: "Sencilla", Price: models.MustMoney("10.00")},
				{ID: "var-burger-double", Name: "Doble", Price: models.MustMoney("14.00")},
			},
			Ingredients: []models.Ingredient{
				{ID: "ing-bread", Name: "Pan brioche"},
				{ID: "ing-cheese", Name: "Queso"},
				{ID: "ing-bacon", Name: "Tocineta", Optional: true, ExtraCost: money("1.50")},
				{ID: "ing-egg", Name: "Huevo", Optional: true, ExtraCost: money("1.00")},
			},
			PreparationTime: prep(15),
			IsFeatured:      true,
			OrderIndex:      1,
		},
		{
			ID:           "prod-arepa",
			RestaurantID: arepa.ID,
			CategoryID:   "cat-main",
			Name:         "Arepa rellena",
			Description:  "Arepa de maíz con carne desmechada",
			Status:       constants.ProductStatusActive,
			Variations: []models.Variation{
				{ID: "var-arepa-regular", Name: "Regular", Price: models.MustMoney("8.00")},
			},
			Ingredients: []models.Ingredient{
				{ID: "ing-meat", Name: "Carne desmechada"},
				{ID: "ing-avocado", Name: "Aguacate", Optional: true, ExtraCost: money("2.00")},
			},
			PreparationTime: prep(10),
			OrderIndex:      2,
		},
		{
			ID:           "prod-bandeja",
			RestaurantID: arepa.ID,
			CategoryID:   "cat-main",
			Name:         "Bandeja paisa",
			Status:       constants.ProductStatusOutOfStock,
			Variations: []models.Variation{
				{ID: "var-bandeja", Name: "Completa", Price: models.MustMoney("22.00")},
			},
			OrderIndex: 3,
		},
		{
			ID:           "prod-soda",
			RestaurantID: arepa.ID,
			CategoryID:   "cat-drinks",
			Name:         "Gaseosa",
			Status:       constants.ProductStatusActive,
			Variations: []models.Variation{
				{ID: "var-soda-can", Name: "Lata", Price: models.MustMoney("5.00")},
			},
			OrderIndex: 1,
		},
		{
			ID:           "prod-juice",
			RestaurantID: arepa.ID,
			CategoryID:   "cat-drinks",
			Name:         "Jugo natural",
			Description:  "Mango, mora o lulo",
			Status:       constants.ProductStatusActive,
			Variations: []models.Variation{
				{ID: "var-juice-water", Name: "En agua", Price: models.MustMoney("4.50")},
				{ID: "var-juice-milk", Name: "En leche", Price: models.MustMoney("5.50"), CompareAtPrice: money("6.00")},
			},
			OrderIndex: 2,
		},
	}
	for i := range products {
		products[i].CreatedAt = now
		products[i].UpdatedAt = now
	}

	return &demoData{
		restaurants: []models.Restaurant{arepa, cafe},
		subscriptions: []models.Subscription{
			{ID: "sub-arepa", RestaurantID: arepa.ID, PlanType: constants.PlanPro, Status: constants.SubscriptionStatusActive, StartDate: arepa.CreatedAt},
			{ID: "sub-cafe", RestaurantID: cafe.ID, PlanType: constants.PlanGratis, Status: constants.SubscriptionStatusExpired, StartDate: cafe.CreatedAt},
		},
		categories: categories,
		products:   products,
		accounts: []models.Account{
			{ID: "acct-arepa", Email: "owner@arepadorada.co", PasswordHash: ownerHash, Role: constants.RoleRestaurantOwner, RestaurantID: arepa.ID, OwnerName: "Camila Restrepo", TokenVersion: 1, CreatedAt: arepa.CreatedAt, UpdatedAt: arepa.CreatedAt},
			{ID: "acct-cafe", Email: "owner@montana.co", PasswordHash: ownerHash, Role: constants.RoleRestaurantOwner, RestaurantID: cafe.ID, OwnerName: "Andrés Gómez", TokenVersion: 1, CreatedAt: cafe.CreatedAt, UpdatedAt: cafe.CreatedAt},
		},
	}, nil
}
