package service

import (
	"context"
	"errors"
	"time"

	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/logger"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/repository"

	"github.com/google/uuid"
)

const recentRestaurantLimit = 5

// DashboardStats 超级管理员概览
type DashboardStats struct {
	TotalRestaurants     int                 `json:"total_restaurants"`
	ActiveRestaurants    int                 `json:"active_restaurants"`
	InactiveRestaurants  int                 `json:"inactive_restaurants"`
	PendingRestaurants   int                 `json:"pending_restaurants"`
	PlanCounts           map[string]int      `json:"plan_counts"`
	ActiveSubscriptions  int                 `json:"active_subscriptions"`
	ExpiredSubscriptions int                 `json:"expired_subscriptions"`
	RecentRestaurants    []models.Restaurant `json:"recent_restaurants"`
}

// RestaurantSummary 餐厅与订阅
type RestaurantSummary struct {
	models.Restaurant
	Subscription *models.Subscription `json:"subscription"`
}

// AdminService 超级管理员
type AdminService struct {
	restaurantRepo   repository.RestaurantRepository
	subscriptionRepo repository.SubscriptionRepository
	menuService      *MenuService
	seedService      *SeedService
}

// NewAdminService 创建超级管理员服务
func NewAdminService(
	restaurantRepo repository.RestaurantRepository,
	subscriptionRepo repository.SubscriptionRepository,
	menuService *MenuService,
	seedService *SeedService,
) *AdminService {
	return &AdminService{
		restaurantRepo:   restaurantRepo,
		subscriptionRepo: subscriptionRepo,
		menuService:      menuService,
		seedService:      seedService,
	}
}

// Dashboard 统计餐厅与订阅；有效订阅的餐厅计为活跃
func (s *AdminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	restaurants, err := s.restaurantRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	subscriptions, err := s.subscriptionRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.restaurantRepo.ListRecent(ctx, recentRestaurantLimit)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalRestaurants: len(restaurants),
		PlanCounts: map[string]int{
			constants.PlanGratis:   0,
			constants.PlanBasic:    0,
			constants.PlanPro:      0,
			constants.PlanBusiness: 0,
		},
		RecentRestaurants: recent,
	}
	activeByRestaurant := make(map[string]bool, len(subscriptions))
	for _, subscription := range subscriptions {
		if _, ok := stats.PlanCounts[subscription.PlanType]; ok {
			stats.PlanCounts[subscription.PlanType]++
		}
		switch subscription.Status {
		case constants.SubscriptionStatusActive:
			stats.ActiveSubscriptions++
			activeByRestaurant[subscription.RestaurantID] = true
		case constants.SubscriptionStatusExpired:
			stats.ExpiredSubscriptions++
		}
	}
	for _, restaurant := range restaurants {
		if activeByRestaurant[restaurant.ID] {
			stats.ActiveRestaurants++
		}
		if restaurant.Status == constants.RestaurantStatusPending {
			stats.PendingRestaurants++
		}
	}
	stats.InactiveRestaurants = stats.TotalRestaurants - stats.ActiveRestaurants
	return stats, nil
}

// ListRestaurants 全部餐厅及其订阅，新注册在前
func (s *AdminService) ListRestaurants(ctx context.Context) ([]RestaurantSummary, error) {
	restaurants, err := s.restaurantRepo.ListRecent(ctx, 0)
	if err != nil {
		return nil, err
	}
	subscriptions, err := s.subscriptionRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	byRestaurant := make(map[string]models.Subscription, len(subscriptions))
	for _, subscription := range subscriptions {
		byRestaurant[subscription.RestaurantID] = subscription
	}
	result := make([]RestaurantSummary, 0, len(restaurants))
	for _, restaurant := range restaurants {
		summary := RestaurantSummary{Restaurant: restaurant}
		if subscription, ok := byRestaurant[restaurant.ID]; ok {
			copied := subscription
			summary.Subscription = &copied
		}
		result = append(result, summary)
	}
	return result, nil
}

// Approve 审核通过：餐厅激活，订阅置为有效
func (s *AdminService) Approve(ctx context.Context, restaurantID string) (*RestaurantSummary, error) {
	return s.setActivation(ctx, restaurantID, constants.RestaurantStatusActive, constants.SubscriptionStatusActive)
}

// Deactivate 停用：餐厅停用，订阅置为过期
func (s *AdminService) Deactivate(ctx context.Context, restaurantID string) (*RestaurantSummary, error) {
	return s.setActivation(ctx, restaurantID, constants.RestaurantStatusInactive, constants.SubscriptionStatusExpired)
}

// UpdateSubscription 修改订阅套餐与状态，空值表示不修改
func (s *AdminService) UpdateSubscription(ctx context.Context, restaurantID, plan, status string) (*models.Subscription, error) {
	if plan != "" && !isValidPlan(plan) {
		return nil, ErrPlanInvalid
	}
	if status != "" && status != constants.SubscriptionStatusActive && status != constants.SubscriptionStatusExpired {
		return nil, ErrSubscriptionStatusInvalid
	}
	restaurant, err := s.restaurantRepo.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if restaurant == nil {
		return nil, ErrRestaurantNotFound
	}
	subscription, err := s.upsertSubscription(ctx, restaurantID, func(item *models.Subscription) {
		if plan != "" {
			item.PlanType = plan
		}
		if status != "" {
			item.Status = status
		}
	})
	if err != nil {
		return nil, err
	}
	s.menuService.InvalidateRestaurant(ctx, restaurantID)
	return subscription, nil
}

// Reset 重置为演示数据
func (s *AdminService) Reset(ctx context.Context) error {
	if err := s.seedService.Seed(ctx); err != nil {
		return err
	}
	restaurants, err := s.restaurantRepo.List(ctx)
	if err != nil {
		logger.Warnw("reset_cache_invalidate_failed", "error", err)
		return nil
	}
	for _, restaurant := range restaurants {
		s.menuService.InvalidateRestaurant(ctx, restaurant.ID)
	}
	return nil
}

func (s *AdminService) setActivation(ctx context.Context, restaurantID, restaurantStatus, subscriptionStatus string) (*RestaurantSummary, error) {
	restaurant, err := s.restaurantRepo.Update(ctx, restaurantID, func(item *models.Restaurant) error {
		item.Status = restaurantStatus
		item.UpdatedAt = time.Now()
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, err
	}
	subscription, err := s.upsertSubscription(ctx, restaurantID, func(item *models.Subscription) {
		item.Status = subscriptionStatus
		if subscriptionStatus == constants.SubscriptionStatusActive {
			item.StartDate = time.Now()
			item.EndDate = nil
		} else {
			now := time.Now()
			item.EndDate = &now
		}
	})
	if err != nil {
		return nil, err
	}
	s.menuService.InvalidateRestaurant(ctx, restaurantID)
	return &RestaurantSummary{Restaurant: *restaurant, Subscription: subscription}, nil
}

// upsertSubscription 修改餐厅订阅，不存在时按 gratis 新建
func (s *AdminService) upsertSubscription(ctx context.Context, restaurantID string, fn func(*models.Subscription)) (*models.Subscription, error) {
	subscription, err := s.subscriptionRepo.UpdateByRestaurant(ctx, restaurantID, func(item *models.Subscription) error {
		fn(item)
		return nil
	})
	if err == nil {
		return subscription, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	created := &models.Subscription{
		ID:           uuid.NewString(),
		RestaurantID: restaurantID,
		PlanType:     constants.PlanGratis,
		Status:       constants.SubscriptionStatusExpired,
		StartDate:    time.Now(),
	}
	fn(created)
	if err := s.subscriptionRepo.Create(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

func isValidPlan(plan string) bool {
	switch plan {
	case constants.PlanGratis, constants.PlanBasic, constants.PlanPro, constants.PlanBusiness:
		return true
	}
	return false
}
