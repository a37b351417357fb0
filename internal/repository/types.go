package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	RestaurantID string
	CategoryID   string
	Status       string
	Page         int
	PageSize     int
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	RestaurantID string
	Status       string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Page         int
	PageSize     int
}
