// Package cart 顾客会话内的购物车
package cart

import (
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/pricing"

	"github.com/cespare/xxhash/v2"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity     = errors.New("cart: quantity must be positive")
	ErrQuantityTooLarge    = errors.New("cart: quantity exceeds line limit")
	ErrProductNotOrderable = errors.New("cart: product is not orderable")
	ErrVariationNotFound   = errors.New("cart: variation not found")
	ErrInvalidLineKey      = errors.New("cart: invalid line key")
)

// LineKey 购物车行标识：商品 + 规格 + 定制指纹
type LineKey struct {
	ProductID     string `json:"product_id"`
	VariationID   string `json:"variation_id"`
	Customization string `json:"customization,omitempty"`
}

// String 编码为可放入 URL 路径的字符串
func (k LineKey) String() string {
	raw := k.ProductID + "\x00" + k.VariationID + "\x00" + k.Customization
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// ParseLineKey 解析 String 的输出
func ParseLineKey(encoded string) (LineKey, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return LineKey{}, ErrInvalidLineKey
	}
	parts := strings.Split(string(raw), "\x00")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return LineKey{}, ErrInvalidLineKey
	}
	return LineKey{ProductID: parts[0], VariationID: parts[1], Customization: parts[2]}, nil
}

// Line 购物车行
type Line struct {
	Key                 LineKey
	Product             models.Product
	Variation           models.Variation
	Quantity            int
	SpecialNotes        string
	SelectedIngredients []string // 商品上存在的可选配料 ID，已排序
}

// UnitPrice 行单价
func (l Line) UnitPrice() decimal.Decimal {
	return pricing.UnitPrice(l.Variation, l.Product.Ingredients, l.SelectedIngredients)
}

// Total 行总价
func (l Line) Total() decimal.Decimal {
	return pricing.LinePrice(l.Variation, l.Product.Ingredients, l.SelectedIngredients, l.Quantity)
}

// OrderItem 生成订单项快照
func (l Line) OrderItem() models.OrderItem {
	chosen := pricing.SelectedOptional(l.Product.Ingredients, l.SelectedIngredients)
	selected := make([]models.SelectedIngredient, 0, len(chosen))
	for _, ing := range chosen {
		extra := models.Money{}
		if ing.ExtraCost != nil {
			extra = *ing.ExtraCost
		}
		selected = append(selected, models.SelectedIngredient{ID: ing.ID, Name: ing.Name, ExtraCost: extra})
	}
	return models.OrderItem{
		ProductID:           l.Product.ID,
		ProductName:         l.Product.Name,
		VariationID:         l.Variation.ID,
		VariationName:       l.Variation.Name,
		Quantity:            l.Quantity,
		Price:               l.Variation.Price,
		SpecialNotes:        l.SpecialNotes,
		SelectedIngredients: selected,
		LineTotal:           models.NewMoneyFromDecimal(l.Total()),
	}
}

// Cart 购物车，按加入顺序保存行
type Cart struct {
	mu           sync.RWMutex
	restaurantID string
	maxQuantity  int
	lines        []*Line
}

// Option 购物车选项
type Option func(*Cart)

// WithMaxQuantity 单行数量上限，不大于 0 时使用默认值
func WithMaxQuantity(n int) Option {
	return func(c *Cart) {
		if n > 0 {
			c.maxQuantity = n
		}
	}
}

// New 创建餐厅购物车
func New(restaurantID string, opts ...Option) *Cart {
	c := &Cart{restaurantID: restaurantID, maxQuantity: constants.DefaultMaxLineQuantity}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxQuantity 单行数量上限
func (c *Cart) MaxQuantity() int {
	return c.maxQuantity
}

// RestaurantID 所属餐厅
func (c *Cart) RestaurantID() string {
	return c.restaurantID
}

// AddItem 加入商品；同一行标识已存在时累加数量
func (c *Cart) AddItem(product *models.Product, variationID string, quantity int, notes string, selectedIngredients []string) (LineKey, error) {
	if quantity <= 0 {
		return LineKey{}, ErrInvalidQuantity
	}
	if quantity > c.maxQuantity {
		return LineKey{}, ErrQuantityTooLarge
	}
	if !product.IsOrderable() {
		return LineKey{}, ErrProductNotOrderable
	}
	variation, ok := product.FindVariation(variationID)
	if !ok {
		return LineKey{}, ErrVariationNotFound
	}
	notes = strings.TrimSpace(notes)
	selected := normalizeSelection(product, selectedIngredients)
	key := LineKey{
		ProductID:     product.ID,
		VariationID:   variation.ID,
		Customization: Fingerprint(selected, notes),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if line := c.find(key); line != nil {
		if line.Quantity > c.maxQuantity-quantity {
			return LineKey{}, ErrQuantityTooLarge
		}
		line.Quantity += quantity
		return key, nil
	}
	c.lines = append(c.lines, &Line{
		Key:                 key,
		Product:             *product,
		Variation:           *variation,
		Quantity:            quantity,
		SpecialNotes:        notes,
		SelectedIngredients: selected,
	})
	return key, nil
}

// UpdateQuantity 设置行数量，不大于 0 时移除该行；行不存在时返回 false
func (c *Cart) UpdateQuantity(key LineKey, quantity int) (bool, error) {
	if quantity > c.maxQuantity {
		return false, ErrQuantityTooLarge
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, line := range c.lines {
		if line.Key != key {
			continue
		}
		if quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			line.Quantity = quantity
		}
		return true, nil
	}
	return false, nil
}

// UpdateQuantityFor 按商品与规格设置数量，作用于该组合的所有行，返回命中行数
func (c *Cart) UpdateQuantityFor(productID, variationID string, quantity int) (int, error) {
	if quantity > c.maxQuantity {
		return 0, ErrQuantityTooLarge
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	matched := 0
	kept := c.lines[:0]
	for _, line := range c.lines {
		if line.Key.ProductID == productID && line.Key.VariationID == variationID {
			matched++
			if quantity <= 0 {
				continue
			}
			line.Quantity = quantity
		}
		kept = append(kept, line)
	}
	c.lines = kept
	return matched, nil
}

// RemoveItem 移除行，不存在时无操作
func (c *Cart) RemoveItem(key LineKey) {
	_, _ = c.UpdateQuantity(key, 0)
}

// RemoveItemFor 移除商品与规格对应的所有行
func (c *Cart) RemoveItemFor(productID, variationID string) {
	_, _ = c.UpdateQuantityFor(productID, variationID, 0)
}

// Clear 清空购物车
func (c *Cart) Clear() {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()
}

// Lines 返回行快照
func (c *Cart) Lines() []Line {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]Line, 0, len(c.lines))
	for _, line := range c.lines {
		copied := *line
		copied.SelectedIngredients = append([]string(nil), line.SelectedIngredients...)
		result = append(result, copied)
	}
	return result
}

// Total 购物车总价（完整精度）
func (c *Cart) Total() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Total())
	}
	return total
}

// ItemCount 商品件数
func (c *Cart) ItemCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// IsEmpty 是否为空
func (c *Cart) IsEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lines) == 0
}

// Snapshot 生成订单项快照与总价
func (c *Cart) Snapshot() ([]models.OrderItem, decimal.Decimal) {
	lines := c.Lines()
	items := make([]models.OrderItem, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		items = append(items, line.OrderItem())
		total = total.Add(line.Total())
	}
	return items, total
}

func (c *Cart) find(key LineKey) *Line {
	for _, line := range c.lines {
		if line.Key == key {
			return line
		}
	}
	return nil
}

// Fingerprint 定制指纹；无配料无备注时为空
// 每段写入长度前缀，任意字符的配料 ID 都不会拼出相同输入
func Fingerprint(selected []string, notes string) string {
	if len(selected) == 0 && notes == "" {
		return ""
	}
	h := xxhash.New()
	writeField := func(v string) {
		_, _ = h.WriteString(strconv.Itoa(len(v)))
		_, _ = h.WriteString(":")
		_, _ = h.WriteString(v)
	}
	_, _ = h.WriteString(strconv.Itoa(len(selected)))
	_, _ = h.WriteString("#")
	for _, id := range selected {
		writeField(id)
	}
	writeField(notes)
	return fmt.Sprintf("%016x", h.Sum64())
}

func normalizeSelection(product *models.Product, ids []string) []string {
	chosen := pricing.SelectedOptional(product.Ingredients, ids)
	if len(chosen) == 0 {
		return nil
	}
	result := make([]string, 0, len(chosen))
	for _, ing := range chosen {
		result = append(result, ing.ID)
	}
	sort.Strings(result)
	return result
}
