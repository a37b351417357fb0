package repository

import (
	"context"
	"sort"

	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/storage"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, restaurantID, id string) (*models.Order, error)
	ListByRestaurant(ctx context.Context, filter OrderListFilter) ([]models.Order, int, error)
	Update(ctx context.Context, restaurantID, id string, fn func(*models.Order) error) (*models.Order, error)
	ReplaceAll(ctx context.Context, orders []models.Order) error
}

// StoreOrderRepository 基于集合存储的订单仓库
type StoreOrderRepository struct {
	items collection[models.Order]
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(store storage.Store) *StoreOrderRepository {
	return &StoreOrderRepository{items: newCollection[models.Order](store, constants.CollectionOrders)}
}

// Create 追加订单，ID 已存在时返回 ErrDuplicate
func (r *StoreOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.items.mutate(ctx, func(items *[]models.Order) error {
		for _, existing := range *items {
			if existing.ID == order.ID {
				return ErrDuplicate
			}
		}
		*items = append(*items, *order)
		return nil
	})
}

// GetByID 获取餐厅订单
func (r *StoreOrderRepository) GetByID(ctx context.Context, restaurantID, id string) (*models.Order, error) {
	return r.items.find(ctx, func(item *models.Order) bool {
		return item.ID == id && item.RestaurantID == restaurantID
	})
}

// ListByRestaurant 餐厅订单，按创建时间倒序，返回分页结果与总数
func (r *StoreOrderRepository) ListByRestaurant(ctx context.Context, filter OrderListFilter) ([]models.Order, int, error) {
	orders, err := r.items.filter(ctx, func(item *models.Order) bool {
		if item.RestaurantID != filter.RestaurantID {
			return false
		}
		if filter.Status != "" && item.Status != filter.Status {
			return false
		}
		if filter.CreatedFrom != nil && item.CreatedAt.Before(*filter.CreatedFrom) {
			return false
		}
		if filter.CreatedTo != nil && item.CreatedAt.After(*filter.CreatedTo) {
			return false
		}
		return true
	})
	if err != nil {
		return nil, 0, err
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return paginate(orders, filter.Page, filter.PageSize), len(orders), nil
}

// Update 修改订单
func (r *StoreOrderRepository) Update(ctx context.Context, restaurantID, id string, fn func(*models.Order) error) (*models.Order, error) {
	return r.items.update(ctx, func(item *models.Order) bool {
		return item.ID == id && item.RestaurantID == restaurantID
	}, fn)
}

// ReplaceAll 整体替换
func (r *StoreOrderRepository) ReplaceAll(ctx context.Context, orders []models.Order) error {
	return r.items.replace(ctx, orders)
}
