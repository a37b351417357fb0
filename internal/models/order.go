package models

import "time"

// Order 顾客订单
// 订单项为下单时的快照，与后续商品修改解耦
type Order struct {
	ID              string      `json:"id"`
	RestaurantID    string      `json:"restaurant_id"`
	CustomerName    string      `json:"customer_name"`
	CustomerPhone   string      `json:"customer_phone"`
	CustomerEmail   string      `json:"customer_email"`
	DeliveryMode    string      `json:"delivery_mode"`    // pickup / dine-in / delivery
	DeliveryAddress *string     `json:"delivery_address"` // 仅 delivery 模式
	TableNumber     string      `json:"table_number,omitempty"`
	Items           []OrderItem `json:"items"`
	Notes           string      `json:"notes"`
	Total           Money       `json:"total"`
	Status          string      `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem 订单项快照
type OrderItem struct {
	ProductID           string               `json:"product_id"`
	ProductName         string               `json:"product_name"`
	VariationID         string               `json:"variation_id"`
	VariationName       string               `json:"variation_name"`
	Quantity            int                  `json:"quantity"`
	Price               Money                `json:"price"` // 规格单价
	SpecialNotes        string               `json:"special_notes"`
	SelectedIngredients []SelectedIngredient `json:"selected_ingredients"`
	LineTotal           Money                `json:"line_total"`
}

// SelectedIngredient 已选可选配料快照
type SelectedIngredient struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ExtraCost Money  `json:"extra_cost"`
}
