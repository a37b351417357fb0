package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mesa-next/internal/config"
	"github.com/mesa-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type entry struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

func setupGormStore(t *testing.T) *GormStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := models.AutoMigrateDB(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewGormStore(db)
}

func storesUnderTest(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory":   NewMemoryStore(),
		"database": setupGormStore(t),
	}
}

func TestStoreLoadMissingReturnsFalse(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		var items []entry
		found, err := store.Load(context.Background(), "orders", &items)
		if err != nil {
			t.Fatalf("%s: load failed: %v", name, err)
		}
		if found {
			t.Fatalf("%s: missing collection should not be found", name)
		}
	}
}

func TestStoreSaveThenLoad(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		ctx := context.Background()
		if err := store.Save(ctx, "orders", []entry{{ID: "a", Count: 1}}); err != nil {
			t.Fatalf("%s: save failed: %v", name, err)
		}
		if err := store.Save(ctx, "orders", []entry{{ID: "a", Count: 1}, {ID: "b", Count: 2}}); err != nil {
			t.Fatalf("%s: second save failed: %v", name, err)
		}
		var items []entry
		found, err := store.Load(ctx, "orders", &items)
		if err != nil || !found {
			t.Fatalf("%s: load failed found=%v err=%v", name, found, err)
		}
		if len(items) != 2 || items[1].ID != "b" {
			t.Fatalf("%s: unexpected items: %+v", name, items)
		}
	}
}

func TestStoreMutateAppendsAndRollsBackOnError(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		ctx := context.Background()
		var items []entry
		err := store.Mutate(ctx, "orders", &items, func() error {
			items = append(items, entry{ID: "a"})
			return nil
		})
		if err != nil {
			t.Fatalf("%s: mutate failed: %v", name, err)
		}

		boom := errors.New("boom")
		var again []entry
		err = store.Mutate(ctx, "orders", &again, func() error {
			again = append(again, entry{ID: "b"})
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("%s: want boom error got %v", name, err)
		}

		var stored []entry
		if _, err := store.Load(ctx, "orders", &stored); err != nil {
			t.Fatalf("%s: load failed: %v", name, err)
		}
		if len(stored) != 1 || stored[0].ID != "a" {
			t.Fatalf("%s: failed mutation must not persist, got %+v", name, stored)
		}
	}
}

func TestGormStoreConcurrentMutateKeepsEveryWrite(t *testing.T) {
	store := setupGormStore(t)
	ctx := context.Background()
	const writers = 10
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			var items []entry
			errs <- store.Mutate(ctx, "orders", &items, func() error {
				items = append(items, entry{ID: fmt.Sprintf("o-%d", n)})
				return nil
			})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent mutate failed: %v", err)
		}
	}
	var stored []entry
	if _, err := store.Load(ctx, "orders", &stored); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(stored) != writers {
		t.Fatalf("want %d entries got %d", writers, len(stored))
	}
}

func TestLoadOrDefaultFallsBackOnMalformed(t *testing.T) {
	store := NewMemoryStore()
	store.PutRaw("orders", []byte("{not json"))
	def := []entry{{ID: "default"}}
	items, err := LoadOrDefault(context.Background(), store, "orders", def)
	if err != nil {
		t.Fatalf("malformed payload should not error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "default" {
		t.Fatalf("want default items got %+v", items)
	}

	var dest []entry
	err = store.Mutate(context.Background(), "orders", &dest, func() error { return nil })
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("mutate over malformed payload should fail with ErrMalformed, got %v", err)
	}
}

func TestMemoryStoreHonoursCancelledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)
	if err := store.Save(ctx, "orders", []entry{}); err == nil {
		t.Fatalf("expired context should fail save")
	}
}

func TestNewSelectsDriver(t *testing.T) {
	store, err := New(config.StorageConfig{Driver: "memory"}, nil, nil)
	if err != nil {
		t.Fatalf("memory driver failed: %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Fatalf("want MemoryStore got %T", store)
	}
	if _, err := New(config.StorageConfig{Driver: "database"}, nil, nil); err == nil {
		t.Fatalf("database driver without db should fail")
	}
	if _, err := New(config.StorageConfig{Driver: "redis"}, nil, nil); err == nil {
		t.Fatalf("redis driver without client should fail")
	}
	if _, err := New(config.StorageConfig{Driver: "etcd"}, nil, nil); err == nil {
		t.Fatalf("unknown driver should fail")
	}
}
