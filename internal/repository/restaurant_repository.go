package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/storage"
)

// RestaurantRepository 餐厅数据访问接口
type RestaurantRepository interface {
	List(ctx context.Context) ([]models.Restaurant, error)
	ListRecent(ctx context.Context, limit int) ([]models.Restaurant, error)
	GetByID(ctx context.Context, id string) (*models.Restaurant, error)
	FindByIdentifier(ctx context.Context, identifier string) (*models.Restaurant, error)
	Create(ctx context.Context, restaurant *models.Restaurant) error
	Update(ctx context.Context, id string, fn func(*models.Restaurant) error) (*models.Restaurant, error)
	ReplaceAll(ctx context.Context, restaurants []models.Restaurant) error
}

// StoreRestaurantRepository 基于集合存储的实现
type StoreRestaurantRepository struct {
	items collection[models.Restaurant]
}

// NewRestaurantRepository 创建餐厅仓库
func NewRestaurantRepository(store storage.Store) *StoreRestaurantRepository {
	return &StoreRestaurantRepository{items: newCollection[models.Restaurant](store, constants.CollectionRestaurants)}
}

// List 全部餐厅
func (r *StoreRestaurantRepository) List(ctx context.Context) ([]models.Restaurant, error) {
	return r.items.all(ctx)
}

// ListRecent 按创建时间倒序取前 limit 条
func (r *StoreRestaurantRepository) ListRecent(ctx context.Context, limit int) ([]models.Restaurant, error) {
	restaurants, err := r.items.all(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(restaurants, func(i, j int) bool {
		return restaurants[i].CreatedAt.After(restaurants[j].CreatedAt)
	})
	return paginate(restaurants, 1, limit), nil
}

// GetByID 根据 ID 获取餐厅
func (r *StoreRestaurantRepository) GetByID(ctx context.Context, id string) (*models.Restaurant, error) {
	return r.items.find(ctx, func(item *models.Restaurant) bool { return item.ID == id })
}

// FindByIdentifier 按 slug、ID 或域名查找
func (r *StoreRestaurantRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.Restaurant, error) {
	return r.items.find(ctx, func(item *models.Restaurant) bool { return item.MatchesIdentifier(identifier) })
}

// Create 创建餐厅，slug 唯一
func (r *StoreRestaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	return r.items.mutate(ctx, func(items *[]models.Restaurant) error {
		for _, existing := range *items {
			if strings.EqualFold(existing.Slug, restaurant.Slug) || existing.ID == restaurant.ID {
				return ErrDuplicate
			}
		}
		*items = append(*items, *restaurant)
		return nil
	})
}

// Update 修改餐厅
func (r *StoreRestaurantRepository) Update(ctx context.Context, id string, fn func(*models.Restaurant) error) (*models.Restaurant, error) {
	return r.items.update(ctx, func(item *models.Restaurant) bool { return item.ID == id }, fn)
}

// ReplaceAll 整体替换
func (r *StoreRestaurantRepository) ReplaceAll(ctx context.Context, restaurants []models.Restaurant) error {
	return r.items.replace(ctx, restaurants)
}
