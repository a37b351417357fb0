// Package pricing 商品与购物车行的统一计价
package pricing

import (
	"github.com/mesa-next/internal/models"

	"github.com/shopspring/decimal"
)

// UnitPrice 单价 = 规格价格 + 已选可选配料加价
// 非可选配料不计价；未设置加价视为 0；结果不小于 0
func UnitPrice(variation models.Variation, ingredients []models.Ingredient, selectedIDs []string) decimal.Decimal {
	unit := variation.Price.Decimal
	if len(selectedIDs) > 0 {
		selected := make(map[string]struct{}, len(selectedIDs))
		for _, id := range selectedIDs {
			selected[id] = struct{}{}
		}
		for _, ing := range ingredients {
			if !ing.Optional || ing.ExtraCost == nil {
				continue
			}
			if _, ok := selected[ing.ID]; ok {
				unit = unit.Add(ing.ExtraCost.Decimal)
			}
		}
	}
	return clamp(unit)
}

// LinePrice 行价 = 单价 × 数量，数量不为正时为 0
func LinePrice(variation models.Variation, ingredients []models.Ingredient, selectedIDs []string, quantity int) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	return UnitPrice(variation, ingredients, selectedIDs).Mul(decimal.NewFromInt(int64(quantity)))
}

// SelectedOptional 返回商品中确实存在且为可选的已选配料，顺序与商品配料一致
func SelectedOptional(ingredients []models.Ingredient, selectedIDs []string) []models.Ingredient {
	if len(selectedIDs) == 0 {
		return nil
	}
	selected := make(map[string]struct{}, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = struct{}{}
	}
	result := make([]models.Ingredient, 0, len(selectedIDs))
	for _, ing := range ingredients {
		if !ing.Optional {
			continue
		}
		if _, ok := selected[ing.ID]; ok {
			result = append(result, ing)
		}
	}
	return result
}

// Sum 金额求和
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount)
	}
	return total
}

func clamp(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}
