package worker

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mesa-next/internal/checkout"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/service"
)

func TestBuildKitchenTicketNilOrder(t *testing.T) {
	if got := BuildKitchenTicket(nil); got != "" {
		t.Fatalf("expected empty ticket for nil order, got %q", got)
	}
}

func TestBuildKitchenTicketLists(t *testing.T) {
	order := &models.Order{
		ID:           "ord-1",
		CustomerName: "Ana",
		TableNumber:  "4",
		Notes:        "  sin prisa  ",
		Items: []models.OrderItem{
			{
				ProductName:   "Hamburguesa",
				VariationName: "Doble",
				Quantity:      2,
				SpecialNotes:  "bien cocida",
				SelectedIngredients: []models.SelectedIngredient{
					{ID: "ing-bacon", Name: "Tocineta"},
				},
			},
			{ProductName: "Gaseosa", VariationName: "Lata", Quantity: 1},
		},
	}

	got := BuildKitchenTicket(order)
	want := strings.Join([]string{
		"[ord-1] Ana #4",
		"2x Hamburguesa (Doble)",
		"  + Tocineta",
		"  * bien cocida",
		"1x Gaseosa (Lata)",
		"* sin prisa",
	}, "\n")
	if got != want {
		t.Fatalf("unexpected ticket, want %q, got %q", want, got)
	}
}

func TestNewServiceRequiresQueue(t *testing.T) {
	if _, err := NewService(nil, &Consumer{}); err != ErrQueueDisabled {
		t.Fatalf("expected ErrQueueDisabled, got %v", err)
	}
}

type nopPlacer struct{}

func (nopPlacer) PlaceOrder(context.Context, *models.Order) error { return nil }

var _ checkout.Placer = nopPlacer{}

func TestSessionSweeperStopsOnStop(t *testing.T) {
	sessions := service.NewSessionService(nil, nopPlacer{}, "+57", time.Hour)
	sweeper := NewSessionSweeper(sessions, 10*time.Millisecond)

	errCh := make(chan error, 1)
	go func() {
		errCh <- sweeper.Start(context.Background())
	}()
	time.Sleep(30 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := sweeper.Stop(stopCtx); err != nil {
		t.Fatalf("stop sweeper failed: %v", err)
	}
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("sweeper returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("sweeper did not exit")
	}
	if removed := sweeper.sweepOnce(); removed != 0 {
		t.Fatalf("expected nothing to sweep, got %d", removed)
	}
}
