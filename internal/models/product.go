package models

import (
	"time"

	"github.com/mesa-next/internal/constants"
)

// Product 菜单商品
type Product struct {
	ID              string       `json:"id"`
	RestaurantID    string       `json:"restaurant_id"`
	CategoryID      string       `json:"category_id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	Status          string       `json:"status"` // active / out_of_stock / archived
	Images          []string     `json:"images"`
	Variations      []Variation  `json:"variations"`
	Ingredients     []Ingredient `json:"ingredients"`
	PreparationTime *int         `json:"preparation_time,omitempty"` // 分钟
	IsFeatured      bool         `json:"is_featured"`
	OrderIndex      int          `json:"order_index"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// Variation 商品规格（尺寸/份量），每个规格独立定价
type Variation struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Price          Money  `json:"price"`
	CompareAtPrice *Money `json:"compare_at_price,omitempty"`
	SKU            string `json:"sku,omitempty"`
}

// Ingredient 配料；Optional 为 true 时可选加购并收取 ExtraCost
type Ingredient struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Optional  bool   `json:"optional"`
	ExtraCost *Money `json:"extra_cost,omitempty"`
}

// FindVariation 按 ID 查找规格
func (p *Product) FindVariation(id string) (*Variation, bool) {
	if p == nil {
		return nil, false
	}
	for i := range p.Variations {
		if p.Variations[i].ID == id {
			return &p.Variations[i], true
		}
	}
	return nil, false
}

// IsOrderable 是否可下单
func (p *Product) IsOrderable() bool {
	return p != nil && p.Status == constants.ProductStatusActive && len(p.Variations) > 0
}

// DefaultIngredientIDs 默认勾选的配料（所有非可选配料）
func (p *Product) DefaultIngredientIDs() []string {
	if p == nil {
		return nil
	}
	ids := make([]string, 0, len(p.Ingredients))
	for _, ing := range p.Ingredients {
		if !ing.Optional {
			ids = append(ids, ing.ID)
		}
	}
	return ids
}
