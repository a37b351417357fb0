package repository

import (
	"context"
	"sort"

	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/storage"
)

// CategoryRepository 分类数据访问接口
type CategoryRepository interface {
	ListByRestaurant(ctx context.Context, restaurantID string, onlyActive bool) ([]models.Category, error)
	GetByID(ctx context.Context, restaurantID, id string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, restaurantID, id string, fn func(*models.Category) error) (*models.Category, error)
	Delete(ctx context.Context, restaurantID, id string) (bool, error)
	ReplaceAll(ctx context.Context, categories []models.Category) error
}

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	ListByRestaurant(ctx context.Context, filter ProductListFilter) ([]models.Product, error)
	GetByID(ctx context.Context, restaurantID, id string) (*models.Product, error)
	CountByCategory(ctx context.Context, restaurantID, categoryID string) (int, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, restaurantID, id string, fn func(*models.Product) error) (*models.Product, error)
	Delete(ctx context.Context, restaurantID, id string) (bool, error)
	ReplaceAll(ctx context.Context, products []models.Product) error
}

// StoreCategoryRepository 基于集合存储的分类仓库
type StoreCategoryRepository struct {
	items collection[models.Category]
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(store storage.Store) *StoreCategoryRepository {
	return &StoreCategoryRepository{items: newCollection[models.Category](store, constants.CollectionCategories)}
}

// ListByRestaurant 餐厅分类，按 order_index 排序
func (r *StoreCategoryRepository) ListByRestaurant(ctx context.Context, restaurantID string, onlyActive bool) ([]models.Category, error) {
	categories, err := r.items.filter(ctx, func(item *models.Category) bool {
		return item.RestaurantID == restaurantID && (!onlyActive || item.Active)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].OrderIndex < categories[j].OrderIndex
	})
	return categories, nil
}

// GetByID 获取餐厅内的分类
func (r *StoreCategoryRepository) GetByID(ctx context.Context, restaurantID, id string) (*models.Category, error) {
	return r.items.find(ctx, func(item *models.Category) bool {
		return item.ID == id && item.RestaurantID == restaurantID
	})
}

// Create 创建分类
func (r *StoreCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.items.mutate(ctx, func(items *[]models.Category) error {
		*items = append(*items, *category)
		return nil
	})
}

// Update 修改分类
func (r *StoreCategoryRepository) Update(ctx context.Context, restaurantID, id string, fn func(*models.Category) error) (*models.Category, error) {
	return r.items.update(ctx, func(item *models.Category) bool {
		return item.ID == id && item.RestaurantID == restaurantID
	}, fn)
}

// Delete 删除分类
func (r *StoreCategoryRepository) Delete(ctx context.Context, restaurantID, id string) (bool, error) {
	removed, err := r.items.remove(ctx, func(item *models.Category) bool {
		return item.ID == id && item.RestaurantID == restaurantID
	})
	return removed > 0, err
}

// ReplaceAll 整体替换
func (r *StoreCategoryRepository) ReplaceAll(ctx context.Context, categories []models.Category) error {
	return r.items.replace(ctx, categories)
}

// StoreProductRepository 基于集合存储的商品仓库
type StoreProductRepository struct {
	items collection[models.Product]
}

// NewProductRepository 创建商品仓库
func NewProductRepository(store storage.Store) *StoreProductRepository {
	return &StoreProductRepository{items: newCollection[models.Product](store, constants.CollectionProducts)}
}

// ListByRestaurant 餐厅商品，按 order_index 排序
func (r *StoreProductRepository) ListByRestaurant(ctx context.Context, filter ProductListFilter) ([]models.Product, error) {
	products, err := r.items.filter(ctx, func(item *models.Product) bool {
		if item.RestaurantID != filter.RestaurantID {
			return false
		}
		if filter.Status != "" && item.Status != filter.Status {
			return false
		}
		if filter.CategoryID != "" && item.CategoryID != filter.CategoryID {
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].OrderIndex < products[j].OrderIndex
	})
	return paginate(products, filter.Page, filter.PageSize), nil
}

// GetByID 获取餐厅内的商品
func (r *StoreProductRepository) GetByID(ctx context.Context, restaurantID, id string) (*models.Product, error) {
	return r.items.find(ctx, func(item *models.Product) bool {
		return item.ID == id && item.RestaurantID == restaurantID
	})
}

// CountByCategory 统计分类下商品数
func (r *StoreProductRepository) CountByCategory(ctx context.Context, restaurantID, categoryID string) (int, error) {
	products, err := r.items.filter(ctx, func(item *models.Product) bool {
		return item.RestaurantID == restaurantID && item.CategoryID == categoryID
	})
	if err != nil {
		return 0, err
	}
	return len(products), nil
}

// Create 创建商品
func (r *StoreProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.items.mutate(ctx, func(items *[]models.Product) error {
		*items = append(*items, *product)
		return nil
	})
}

// Update 修改商品
func (r *StoreProductRepository) Update(ctx context.Context, restaurantID, id string, fn func(*models.Product) error) (*models.Product, error) {
	return r.items.update(ctx, func(item *models.Product) bool {
		return item.ID == id && item.RestaurantID == restaurantID
	}, fn)
}

// Delete 删除商品
func (r *StoreProductRepository) Delete(ctx context.Context, restaurantID, id string) (bool, error) {
	removed, err := r.items.remove(ctx, func(item *models.Product) bool {
		return item.ID == id && item.RestaurantID == restaurantID
	})
	return removed > 0, err
}

// ReplaceAll 整体替换
func (r *StoreProductRepository) ReplaceAll(ctx context.Context, products []models.Product) error {
	return r.items.replace(ctx, products)
}
