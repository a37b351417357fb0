package cache

import (
	"context"
	"testing"
	"time"

	"github.com/mesa-next/internal/config"
	"github.com/mesa-next/internal/models"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if Enabled() || Client() != nil {
		t.Fatalf("cache should be disabled")
	}
	ctx := context.Background()
	if err := SetMenu(ctx, "la-arepa", map[string]string{"a": "b"}, time.Minute); err != nil {
		t.Fatalf("set on disabled cache should be a no-op: %v", err)
	}
	var dest map[string]string
	hit, err := GetMenu(ctx, "la-arepa", &dest)
	if err != nil || hit {
		t.Fatalf("disabled cache should miss: hit=%v err=%v", hit, err)
	}
	if err := DelMenu(ctx, "la-arepa", ""); err != nil {
		t.Fatalf("del on disabled cache failed: %v", err)
	}
}

func TestMenuKeyNormalizesIdentifier(t *testing.T) {
	if menuKey(" La-Arepa ") != menuKey("la-arepa") {
		t.Fatalf("menu key should be case and space insensitive")
	}
}

func TestBuildAccountAuthState(t *testing.T) {
	if BuildAccountAuthState(nil) != nil {
		t.Fatalf("nil account should build nil state")
	}
	state := BuildAccountAuthState(&models.Account{ID: "acc-1", Role: "restaurant_owner", RestaurantID: "rest-1", TokenVersion: 3})
	if state.AccountID != "acc-1" || state.TokenVersion != 3 || state.UpdatedAt == 0 {
		t.Fatalf("unexpected state %+v", state)
	}
}
