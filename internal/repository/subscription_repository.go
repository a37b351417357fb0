package repository

import (
	"context"

	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/storage"
)

// SubscriptionRepository 订阅数据访问接口
type SubscriptionRepository interface {
	List(ctx context.Context) ([]models.Subscription, error)
	GetByRestaurant(ctx context.Context, restaurantID string) (*models.Subscription, error)
	Create(ctx context.Context, subscription *models.Subscription) error
	UpdateByRestaurant(ctx context.Context, restaurantID string, fn func(*models.Subscription) error) (*models.Subscription, error)
	ReplaceAll(ctx context.Context, subscriptions []models.Subscription) error
}

// StoreSubscriptionRepository 基于集合存储的订阅仓库
type StoreSubscriptionRepository struct {
	items collection[models.Subscription]
}

// NewSubscriptionRepository 创建订阅仓库
func NewSubscriptionRepository(store storage.Store) *StoreSubscriptionRepository {
	return &StoreSubscriptionRepository{items: newCollection[models.Subscription](store, constants.CollectionSubscriptions)}
}

// List 全部订阅
func (r *StoreSubscriptionRepository) List(ctx context.Context) ([]models.Subscription, error) {
	return r.items.all(ctx)
}

// GetByRestaurant 餐厅订阅
func (r *StoreSubscriptionRepository) GetByRestaurant(ctx context.Context, restaurantID string) (*models.Subscription, error) {
	return r.items.find(ctx, func(item *models.Subscription) bool { return item.RestaurantID == restaurantID })
}

// Create 创建订阅，每个餐厅仅一条
func (r *StoreSubscriptionRepository) Create(ctx context.Context, subscription *models.Subscription) error {
	return r.items.mutate(ctx, func(items *[]models.Subscription) error {
		for _, existing := range *items {
			if existing.RestaurantID == subscription.RestaurantID {
				return ErrDuplicate
			}
		}
		*items = append(*items, *subscription)
		return nil
	})
}

// UpdateByRestaurant 修改餐厅订阅
func (r *StoreSubscriptionRepository) UpdateByRestaurant(ctx context.Context, restaurantID string, fn func(*models.Subscription) error) (*models.Subscription, error) {
	return r.items.update(ctx, func(item *models.Subscription) bool { return item.RestaurantID == restaurantID }, fn)
}

// ReplaceAll 整体替换
func (r *StoreSubscriptionRepository) ReplaceAll(ctx context.Context, subscriptions []models.Subscription) error {
	return r.items.replace(ctx, subscriptions)
}
