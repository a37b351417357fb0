package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/storage"
)

func TestRestaurantCreateRejectsDuplicateSlug(t *testing.T) {
	repo := NewRestaurantRepository(storage.NewMemoryStore())
	ctx := context.Background()
	if err := repo.Create(ctx, &models.Restaurant{ID: "r1", Slug: "la-arepa"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(ctx, &models.Restaurant{ID: "r2", Slug: "LA-AREPA"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate got %v", err)
	}
	found, err := repo.FindByIdentifier(ctx, "la-arepa")
	if err != nil || found == nil || found.ID != "r1" {
		t.Fatalf("find by slug failed: %+v %v", found, err)
	}
	missing, err := repo.GetByID(ctx, "nope")
	if err != nil || missing != nil {
		t.Fatalf("missing restaurant should return nil, nil")
	}
}

func TestRestaurantUpdateNotFound(t *testing.T) {
	repo := NewRestaurantRepository(storage.NewMemoryStore())
	_, err := repo.Update(context.Background(), "ghost", func(r *models.Restaurant) error {
		r.Status = constants.RestaurantStatusActive
		return nil
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound got %v", err)
	}
}

func TestProductListScopedAndSorted(t *testing.T) {
	repo := NewProductRepository(storage.NewMemoryStore())
	ctx := context.Background()
	seed := []models.Product{
		{ID: "p3", RestaurantID: "r1", CategoryID: "c1", Status: constants.ProductStatusActive, OrderIndex: 3},
		{ID: "p1", RestaurantID: "r1", CategoryID: "c1", Status: constants.ProductStatusActive, OrderIndex: 1},
		{ID: "p2", RestaurantID: "r1", CategoryID: "c2", Status: constants.ProductStatusArchived, OrderIndex: 2},
		{ID: "px", RestaurantID: "r2", CategoryID: "c9", Status: constants.ProductStatusActive},
	}
	if err := repo.ReplaceAll(ctx, seed); err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	active, err := repo.ListByRestaurant(ctx, ProductListFilter{RestaurantID: "r1", Status: constants.ProductStatusActive})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(active) != 2 || active[0].ID != "p1" || active[1].ID != "p3" {
		t.Fatalf("unexpected active products: %+v", active)
	}
	count, _ := repo.CountByCategory(ctx, "r1", "c1")
	if count != 2 {
		t.Fatalf("want 2 products in c1 got %d", count)
	}
	if _, err := repo.GetByID(ctx, "r2", "p1"); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if p, _ := repo.GetByID(ctx, "r2", "p1"); p != nil {
		t.Fatalf("product of another restaurant must not be visible")
	}
	removed, err := repo.Delete(ctx, "r1", "p2")
	if err != nil || !removed {
		t.Fatalf("delete failed: %v", err)
	}
}

func TestOrderListFiltersAndPaginates(t *testing.T) {
	repo := NewOrderRepository(storage.NewMemoryStore())
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, status := range []string{constants.OrderStatusPending, constants.OrderStatusReady, constants.OrderStatusPending} {
		order := &models.Order{
			ID:           []string{"ord-1", "ord-2", "ord-3"}[i],
			RestaurantID: "r1",
			Status:       status,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(ctx, order); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}
	if err := repo.Create(ctx, &models.Order{ID: "ord-1", RestaurantID: "r1"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate id want ErrDuplicate got %v", err)
	}
	pending, total, err := repo.ListByRestaurant(ctx, OrderListFilter{RestaurantID: "r1", Status: constants.OrderStatusPending})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || pending[0].ID != "ord-3" {
		t.Fatalf("pending orders should be newest first: total=%d %+v", total, pending)
	}
	page, total, _ := repo.ListByRestaurant(ctx, OrderListFilter{RestaurantID: "r1", Page: 2, PageSize: 2})
	if total != 3 || len(page) != 1 || page[0].ID != "ord-1" {
		t.Fatalf("unexpected second page: total=%d %+v", total, page)
	}
}

func TestAccountEmailUniqueCaseInsensitive(t *testing.T) {
	repo := NewAccountRepository(storage.NewMemoryStore())
	ctx := context.Background()
	if err := repo.Create(ctx, &models.Account{ID: "a1", Email: "owner@mesa.co"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(ctx, &models.Account{ID: "a2", Email: "OWNER@mesa.co"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate got %v", err)
	}
	found, err := repo.GetByEmail(ctx, " Owner@Mesa.co ")
	if err != nil || found == nil || found.ID != "a1" {
		t.Fatalf("lookup by email failed: %+v %v", found, err)
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	if got := paginate(items, 0, 2); len(got) != 2 || got[0] != 1 {
		t.Fatalf("page 0 should behave as page 1: %v", got)
	}
	if got := paginate(items, 3, 2); len(got) != 1 || got[0] != 5 {
		t.Fatalf("last page: %v", got)
	}
	if got := paginate(items, 9, 2); len(got) != 0 {
		t.Fatalf("out of range page should be empty: %v", got)
	}
	if got := paginate(items, 1, 0); len(got) != 5 {
		t.Fatalf("zero page size returns all: %v", got)
	}
}

// retryOnceStore 第一次 Mutate 尝试丢弃结果后重跑，模拟乐观事务冲突
type retryOnceStore struct {
	storage.Store
}

func (s retryOnceStore) Mutate(ctx context.Context, collection string, dest interface{}, fn func() error) error {
	if _, err := s.Store.Load(ctx, collection, dest); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	return s.Store.Mutate(ctx, collection, dest, fn)
}

func TestRemoveCountSurvivesRetry(t *testing.T) {
	ctx := context.Background()
	store := retryOnceStore{Store: storage.NewMemoryStore()}
	products := newCollection[models.Product](store, "products")
	seed := []models.Product{
		{ID: "p1", RestaurantID: "r1"},
		{ID: "p2", RestaurantID: "r1"},
	}
	if err := products.replace(ctx, seed); err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	removed, err := products.remove(ctx, func(p *models.Product) bool { return p.ID == "p1" })
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("retried remove should report 1 removal, got %d", removed)
	}
	left, err := products.all(ctx)
	if err != nil || len(left) != 1 || left[0].ID != "p2" {
		t.Fatalf("unexpected remaining products: %+v %v", left, err)
	}
}
