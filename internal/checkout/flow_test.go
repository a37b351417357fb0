package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/mesa-next/internal/cart"
	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/models"
)

type recordingPlacer struct {
	orders []models.Order
	err    error
}

func (p *recordingPlacer) PlaceOrder(_ context.Context, order *models.Order) error {
	if p.err != nil {
		return p.err
	}
	order.ID = "ord-1"
	p.orders = append(p.orders, *order)
	return nil
}

func filledCart(t *testing.T) *cart.Cart {
	t.Helper()
	bacon := models.MustMoney("1.50")
	product := &models.Product{
		ID:     "p-1",
		Name:   "Arepa",
		Status: constants.ProductStatusActive,
		Variations: []models.Variation{
			{ID: "v-1", Name: "Grande", Price: models.MustMoney("10.00")},
		},
		Ingredients: []models.Ingredient{{ID: "i-1", Name: "Tocineta", Optional: true, ExtraCost: &bacon}},
	}
	drink := &models.Product{
		ID:         "p-2",
		Name:       "Jugo",
		Status:     constants.ProductStatusActive,
		Variations: []models.Variation{{ID: "v-2", Name: "Vaso", Price: models.MustMoney("5.00")}},
	}
	c := cart.New("rest-1")
	if _, err := c.AddItem(product, "v-1", 3, "", []string{"i-1"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := c.AddItem(drink, "v-2", 1, "", nil); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	return c
}

func TestInitialState(t *testing.T) {
	f := NewFlow(cart.New("rest-1"), "")
	state := f.State()
	if state.Step != StepDelivery || state.Mode != constants.DeliveryModePickup {
		t.Fatalf("unexpected initial state: %+v", state)
	}
	if state.Customer.Phone != constants.DefaultPhonePrefix {
		t.Fatalf("phone should start with default prefix, got %q", state.Customer.Phone)
	}
}

func TestContinueRequiresNameAndPhone(t *testing.T) {
	f := NewFlow(filledCart(t), "+57")
	if err := f.SelectMode(constants.DeliveryModePickup); err != nil {
		t.Fatalf("select mode failed: %v", err)
	}
	_ = f.SetCustomerInfo(CustomerInfo{Name: "  ", Phone: ""})
	err := f.Continue()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError got %v", err)
	}
	if verr.MessageKey != MessageKeyContact || len(verr.Fields) != 2 {
		t.Fatalf("unexpected validation error: %+v", verr)
	}
	if f.Step() != StepInfo {
		t.Fatalf("failed validation must stay in info, got %s", f.Step())
	}
}

func TestDeliveryRequiresAddressAndCity(t *testing.T) {
	f := NewFlow(filledCart(t), "+57")
	_ = f.SelectMode(constants.DeliveryModeDelivery)
	_ = f.SetCustomerInfo(CustomerInfo{Name: "Ana", Phone: "+57 300", Address: "Calle 1"})
	err := f.Continue()
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.MessageKey != MessageKeyAddress {
		t.Fatalf("want address validation error got %v", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0] != "city" {
		t.Fatalf("want missing city, got %v", verr.Fields)
	}
	_ = f.SetCustomerInfo(CustomerInfo{Name: "Ana", Phone: "+57 300", Address: "Calle 1", City: "Bogotá"})
	if err := f.Continue(); err != nil {
		t.Fatalf("continue failed: %v", err)
	}
	if f.Step() != StepConfirm {
		t.Fatalf("want confirm got %s", f.Step())
	}
}

func TestBackKeepsModeAndEditInfoReturns(t *testing.T) {
	f := NewFlow(filledCart(t), "+57")
	_ = f.SelectMode(constants.DeliveryModeDineIn)
	if err := f.Back(); err != nil {
		t.Fatalf("back failed: %v", err)
	}
	if f.Step() != StepDelivery || f.State().Mode != constants.DeliveryModeDineIn {
		t.Fatalf("back should keep mode: %+v", f.State())
	}
	_ = f.SelectMode(constants.DeliveryModeDineIn)
	_ = f.SetCustomerInfo(CustomerInfo{Name: "Ana", Phone: "300"})
	_ = f.Continue()
	if err := f.EditInfo(); err != nil || f.Step() != StepInfo {
		t.Fatalf("edit info should return to info: err=%v step=%s", err, f.Step())
	}
}

func TestInvalidTransitions(t *testing.T) {
	f := NewFlow(filledCart(t), "+57")
	if err := f.Continue(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("continue from delivery want ErrInvalidTransition got %v", err)
	}
	if _, err := f.Confirm(context.Background(), &recordingPlacer{}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("confirm from delivery want ErrInvalidTransition got %v", err)
	}
	if err := f.SelectMode("drone"); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("unknown mode want ErrInvalidMode got %v", err)
	}
}

func TestConfirmPlacesOrderAndClearsCart(t *testing.T) {
	c := filledCart(t)
	lineCount := len(c.Lines())
	total := c.Total().StringFixed(2)

	f := NewFlow(c, "+57")
	_ = f.SelectMode(constants.DeliveryModeDelivery)
	_ = f.SetCustomerInfo(CustomerInfo{Name: "Ana", Phone: "+57 300", Address: "Calle 1", City: "Bogotá"})
	_ = f.Continue()

	placer := &recordingPlacer{}
	order, err := f.Confirm(context.Background(), placer)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if f.Step() != StepSuccess || f.State().OrderNumber != "ord-1" {
		t.Fatalf("unexpected state after confirm: %+v", f.State())
	}
	if !c.IsEmpty() {
		t.Fatalf("cart must be empty after order")
	}
	if len(placer.orders) != 1 {
		t.Fatalf("exactly one order should be placed")
	}
	if len(order.Items) != lineCount || order.Total.String() != total {
		t.Fatalf("order snapshot mismatch: items=%d total=%s", len(order.Items), order.Total)
	}
	if order.Total.String() != "39.50" {
		t.Fatalf("want total 39.50 got %s", order.Total)
	}
	if order.DeliveryAddress == nil || *order.DeliveryAddress != "Calle 1, Bogotá" {
		t.Fatalf("unexpected delivery address: %v", order.DeliveryAddress)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("order should start pending")
	}

	f.Close()
	state := f.State()
	if state.Step != StepDelivery || state.Mode != constants.DeliveryModePickup || state.OrderNumber != "" || state.Customer.Name != "" {
		t.Fatalf("close should reset state: %+v", state)
	}
}

func TestConfirmFailureKeepsCartAndStep(t *testing.T) {
	c := filledCart(t)
	f := NewFlow(c, "+57")
	_ = f.SelectMode(constants.DeliveryModePickup)
	_ = f.SetCustomerInfo(CustomerInfo{Name: "Ana", Phone: "300"})
	_ = f.Continue()

	boom := errors.New("disk full")
	if _, err := f.Confirm(context.Background(), &recordingPlacer{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("want placer error got %v", err)
	}
	if f.Step() != StepConfirm {
		t.Fatalf("failed confirm must stay in confirm, got %s", f.Step())
	}
	if c.ItemCount() != 4 {
		t.Fatalf("cart must be untouched, item count %d", c.ItemCount())
	}
}

func TestConfirmRejectsEmptyCart(t *testing.T) {
	f := NewFlow(cart.New("rest-1"), "+57")
	_ = f.SelectMode(constants.DeliveryModePickup)
	_ = f.SetCustomerInfo(CustomerInfo{Name: "Ana", Phone: "300"})
	_ = f.Continue()
	if _, err := f.Confirm(context.Background(), &recordingPlacer{}); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("want ErrEmptyCart got %v", err)
	}
}

func TestPickupOrderHasNoAddress(t *testing.T) {
	f := NewFlow(filledCart(t), "+57")
	_ = f.SelectMode(constants.DeliveryModePickup)
	_ = f.SetCustomerInfo(CustomerInfo{Name: "Ana", Phone: "300", Address: "ignored", City: "ignored"})
	_ = f.Continue()
	order, err := f.Confirm(context.Background(), &recordingPlacer{})
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if order.DeliveryAddress != nil {
		t.Fatalf("pickup order must not carry an address")
	}
}
