package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/mesa-next/internal/cart"
	"github.com/mesa-next/internal/checkout"
	"github.com/mesa-next/internal/logger"
	"github.com/mesa-next/internal/metrics"
	"github.com/mesa-next/internal/models"

	"github.com/google/uuid"
)

// Session 顾客会话：一个餐厅的购物车与结账流程
type Session struct {
	ID           string
	RestaurantID string

	mu   sync.Mutex
	cart *cart.Cart
	flow *checkout.Flow

	lastSeen time.Time // 由 SessionService.mu 保护
}

// CartLineView 购物车行展示
type CartLineView struct {
	Key                 string                      `json:"key"`
	ProductID           string                      `json:"product_id"`
	ProductName         string                      `json:"product_name"`
	VariationID         string                      `json:"variation_id"`
	VariationName       string                      `json:"variation_name"`
	Quantity            int                         `json:"quantity"`
	UnitPrice           models.Money                `json:"unit_price"`
	Total               models.Money                `json:"total"`
	SpecialNotes        string                      `json:"special_notes"`
	SelectedIngredients []models.SelectedIngredient `json:"selected_ingredients"`
}

// CartView 购物车展示
type CartView struct {
	SessionID    string         `json:"session_id"`
	RestaurantID string         `json:"restaurant_id"`
	Lines        []CartLineView `json:"lines"`
	Total        models.Money   `json:"total"`
	ItemCount    int            `json:"item_count"`
}

// CheckoutView 结账流程展示
type CheckoutView struct {
	SessionID string         `json:"session_id"`
	State     checkout.State `json:"state"`
	Cart      CartView       `json:"cart"`
}

// ConfirmView 下单结果
type ConfirmView struct {
	CheckoutView
	Order *models.Order `json:"order"`
}

// AddCartItemInput 加购输入
type AddCartItemInput struct {
	ProductID           string
	VariationID         string
	Quantity            int
	SpecialNotes        string
	SelectedIngredients []string
}

// SessionService 顾客会话注册表
type SessionService struct {
	menuService *MenuService
	placer      checkout.Placer
	phonePrefix string
	idleTTL     time.Duration
	now         func() time.Time

	maxLineQuantity int

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionService 创建会话服务
func NewSessionService(menuService *MenuService, placer checkout.Placer, phonePrefix string, idleTTL time.Duration) *SessionService {
	if idleTTL <= 0 {
		idleTTL = 2 * time.Hour
	}
	return &SessionService{
		menuService: menuService,
		placer:      placer,
		phonePrefix: phonePrefix,
		idleTTL:     idleTTL,
		now:         time.Now,
		sessions:    make(map[string]*Session),
	}
}

// WithMaxLineQuantity 设置新会话购物车的单行数量上限
func (s *SessionService) WithMaxLineQuantity(n int) *SessionService {
	s.maxLineQuantity = n
	return s
}

// Open 取得或创建会话；sessionID 为空时签发新的 ID
func (s *SessionService) Open(ctx context.Context, sessionID, identifier string) (*Session, error) {
	restaurant, err := s.menuService.ResolveOrderable(ctx, identifier)
	if err != nil {
		return nil, err
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	} else if _, err := uuid.Parse(sessionID); err != nil {
		return nil, ErrSessionInvalid
	}

	key := sessionKey(sessionID, restaurant.ID)
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[key]
	if !ok {
		c := cart.New(restaurant.ID, cart.WithMaxQuantity(s.maxLineQuantity))
		session = &Session{
			ID:           sessionID,
			RestaurantID: restaurant.ID,
			cart:         c,
			flow:         checkout.NewFlow(c, s.phonePrefix),
		}
		s.sessions[key] = session
		metrics.SetActiveSessions(len(s.sessions))
		logger.Debugw("session_opened", "session_id", sessionID, "restaurant_id", restaurant.ID)
	}
	session.lastSeen = s.now()
	return session, nil
}

// Cart 查看购物车
func (s *SessionService) Cart(ctx context.Context, sessionID, identifier string) (*CartView, error) {
	session, err := s.Open(ctx, sessionID, identifier)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	view := session.cartView()
	return &view, nil
}

// AddItem 加入购物车
func (s *SessionService) AddItem(ctx context.Context, sessionID, identifier string, input AddCartItemInput) (*CartView, error) {
	session, err := s.Open(ctx, sessionID, identifier)
	if err != nil {
		return nil, err
	}
	product, err := s.menuService.GetOrderableProduct(ctx, session.RestaurantID, input.ProductID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if _, err := session.cart.AddItem(product, input.VariationID, input.Quantity, input.SpecialNotes, input.SelectedIngredients); err != nil {
		return nil, mapCartError(err)
	}
	view := session.cartView()
	return &view, nil
}

// UpdateItem 修改行数量，数量不大于 0 时移除
func (s *SessionService) UpdateItem(ctx context.Context, sessionID, identifier, lineKey string, quantity int) (*CartView, error) {
	session, err := s.Open(ctx, sessionID, identifier)
	if err != nil {
		return nil, err
	}
	key, err := cart.ParseLineKey(lineKey)
	if err != nil {
		return nil, ErrCartLineNotFound
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	found, err := session.cart.UpdateQuantity(key, quantity)
	if err != nil {
		return nil, mapCartError(err)
	}
	if !found {
		return nil, ErrCartLineNotFound
	}
	view := session.cartView()
	return &view, nil
}

// RemoveItem 移除行，行不存在时无操作
func (s *SessionService) RemoveItem(ctx context.Context, sessionID, identifier, lineKey string) (*CartView, error) {
	session, err := s.Open(ctx, sessionID, identifier)
	if err != nil {
		return nil, err
	}
	key, err := cart.ParseLineKey(lineKey)
	if err != nil {
		return nil, ErrCartLineNotFound
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.cart.RemoveItem(key)
	view := session.cartView()
	return &view, nil
}

// ClearCart 清空购物车
func (s *SessionService) ClearCart(ctx context.Context, sessionID, identifier string) (*CartView, error) {
	session, err := s.Open(ctx, sessionID, identifier)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.cart.Clear()
	view := session.cartView()
	return &view, nil
}

// Checkout 查看结账流程
func (s *SessionService) Checkout(ctx context.Context, sessionID, identifier string) (*CheckoutView, error) {
	return s.withFlow(ctx, sessionID, identifier, func(*checkout.Flow) error { return nil })
}

// SelectMode 选择配送方式
func (s *SessionService) SelectMode(ctx context.Context, sessionID, identifier, mode string) (*CheckoutView, error) {
	return s.withFlow(ctx, sessionID, identifier, func(flow *checkout.Flow) error {
		return flow.SelectMode(mode)
	})
}

// Back 返回配送方式选择
func (s *SessionService) Back(ctx context.Context, sessionID, identifier string) (*CheckoutView, error) {
	return s.withFlow(ctx, sessionID, identifier, func(flow *checkout.Flow) error {
		return flow.Back()
	})
}

// SetCustomerInfo 填写顾客信息
func (s *SessionService) SetCustomerInfo(ctx context.Context, sessionID, identifier string, info checkout.CustomerInfo) (*CheckoutView, error) {
	return s.withFlow(ctx, sessionID, identifier, func(flow *checkout.Flow) error {
		return flow.SetCustomerInfo(info)
	})
}

// Continue 进入确认页
func (s *SessionService) Continue(ctx context.Context, sessionID, identifier string) (*CheckoutView, error) {
	return s.withFlow(ctx, sessionID, identifier, func(flow *checkout.Flow) error {
		return flow.Continue()
	})
}

// EditInfo 返回修改顾客信息
func (s *SessionService) EditInfo(ctx context.Context, sessionID, identifier string) (*CheckoutView, error) {
	return s.withFlow(ctx, sessionID, identifier, func(flow *checkout.Flow) error {
		return flow.EditInfo()
	})
}

// Close 关闭结账流程
func (s *SessionService) Close(ctx context.Context, sessionID, identifier string) (*CheckoutView, error) {
	return s.withFlow(ctx, sessionID, identifier, func(flow *checkout.Flow) error {
		flow.Close()
		return nil
	})
}

// Confirm 提交订单
func (s *SessionService) Confirm(ctx context.Context, sessionID, identifier string) (*ConfirmView, error) {
	var order *models.Order
	view, err := s.withFlow(ctx, sessionID, identifier, func(flow *checkout.Flow) error {
		placed, err := flow.Confirm(ctx, s.placer)
		if err != nil {
			return err
		}
		order = placed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ConfirmView{CheckoutView: *view, Order: order}, nil
}

// Count 当前会话数
func (s *SessionService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep 清理空闲会话，返回清理数量
func (s *SessionService) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, session := range s.sessions {
		if now.Sub(session.lastSeen) > s.idleTTL {
			delete(s.sessions, key)
			removed++
		}
	}
	metrics.SetActiveSessions(len(s.sessions))
	return removed
}

func (s *SessionService) withFlow(ctx context.Context, sessionID, identifier string, fn func(*checkout.Flow) error) (*CheckoutView, error) {
	session, err := s.Open(ctx, sessionID, identifier)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if err := fn(session.flow); err != nil {
		return nil, err
	}
	return &CheckoutView{
		SessionID: session.ID,
		State:     session.flow.State(),
		Cart:      session.cartView(),
	}, nil
}

// cartView 调用方需持有 session.mu
func (session *Session) cartView() CartView {
	lines := session.cart.Lines()
	views := make([]CartLineView, 0, len(lines))
	for _, line := range lines {
		item := line.OrderItem()
		views = append(views, CartLineView{
			Key:                 line.Key.String(),
			ProductID:           item.ProductID,
			ProductName:         item.ProductName,
			VariationID:         item.VariationID,
			VariationName:       item.VariationName,
			Quantity:            item.Quantity,
			UnitPrice:           models.NewMoneyFromDecimal(line.UnitPrice()),
			Total:               item.LineTotal,
			SpecialNotes:        item.SpecialNotes,
			SelectedIngredients: item.SelectedIngredients,
		})
	}
	return CartView{
		SessionID:    session.ID,
		RestaurantID: session.RestaurantID,
		Lines:        views,
		Total:        models.NewMoneyFromDecimal(session.cart.Total()),
		ItemCount:    session.cart.ItemCount(),
	}
}

func sessionKey(sessionID, restaurantID string) string {
	return sessionID + "|" + restaurantID
}

func mapCartError(err error) error {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		return ErrInvalidQuantity
	case errors.Is(err, cart.ErrQuantityTooLarge):
		return ErrQuantityTooLarge
	case errors.Is(err, cart.ErrVariationNotFound):
		return ErrVariationNotFound
	case errors.Is(err, cart.ErrProductNotOrderable):
		return ErrProductNotAvailable
	case errors.Is(err, cart.ErrInvalidLineKey):
		return ErrCartLineNotFound
	}
	return err
}
