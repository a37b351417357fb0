package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// setupRedisStore 连接 REDIS_ADDR 指向的实例，未设置时跳过
func setupRedisStore(t *testing.T) (*RedisStore, *redis.Client) {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Fatalf("redis ping failed: %v", err)
	}
	prefix := fmt.Sprintf("mesa-test:%s:%d", t.Name(), time.Now().UnixNano())
	t.Cleanup(func() {
		keys, err := client.Keys(ctx, prefix+":*").Result()
		if err == nil && len(keys) > 0 {
			_ = client.Del(ctx, keys...).Err()
		}
		_ = client.Close()
	})
	return NewRedisStore(client, prefix, 3), client
}

func TestRedisStoreSaveThenLoad(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	var missing []entry
	found, err := store.Load(ctx, "orders", &missing)
	if err != nil || found {
		t.Fatalf("missing collection should not be found: found=%v err=%v", found, err)
	}

	if err := store.Save(ctx, "orders", []entry{{ID: "a", Count: 1}, {ID: "b", Count: 2}}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	var items []entry
	found, err = store.Load(ctx, "orders", &items)
	if err != nil || !found {
		t.Fatalf("load failed found=%v err=%v", found, err)
	}
	if len(items) != 2 || items[1].ID != "b" || items[1].Count != 2 {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestRedisStoreMutateRetriesAfterConflict(t *testing.T) {
	store, client := setupRedisStore(t)
	ctx := context.Background()

	attempts := 0
	var items []entry
	err := store.Mutate(ctx, "orders", &items, func() error {
		attempts++
		if attempts == 1 {
			// 事务提交前另一写入方修改了被 WATCH 的键
			if err := client.Set(ctx, store.key("orders"), `[{"id":"external","count":1}]`, 0).Err(); err != nil {
				return err
			}
		}
		items = append(items, entry{ID: "mine"})
		return nil
	})
	if err != nil {
		t.Fatalf("mutate failed: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("want 2 attempts got %d", attempts)
	}

	var stored []entry
	if _, err := store.Load(ctx, "orders", &stored); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(stored) != 2 || stored[0].ID != "external" || stored[1].ID != "mine" {
		t.Fatalf("retry should build on the concurrent write, got %+v", stored)
	}
}

func TestRedisStoreMutateGivesUpAfterMaxRetries(t *testing.T) {
	store, client := setupRedisStore(t)
	ctx := context.Background()

	attempts := 0
	var items []entry
	err := store.Mutate(ctx, "orders", &items, func() error {
		attempts++
		return client.Set(ctx, store.key("orders"), fmt.Sprintf(`[{"id":"w-%d"}]`, attempts), 0).Err()
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("want ErrConflict got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("want 3 attempts got %d", attempts)
	}
}

func TestRedisStoreMutateKeepsMalformedPayload(t *testing.T) {
	store, client := setupRedisStore(t)
	ctx := context.Background()
	key := store.key("orders")
	if err := client.Set(ctx, key, "{not json", 0).Err(); err != nil {
		t.Fatalf("seed raw payload failed: %v", err)
	}

	called := false
	var items []entry
	err := store.Mutate(ctx, "orders", &items, func() error {
		called = true
		items = append(items, entry{ID: "mine"})
		return nil
	})
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("want ErrMalformed got %v", err)
	}
	if called {
		t.Fatalf("mutation callback must not run over malformed payload")
	}
	raw, err := client.Get(ctx, key).Result()
	if err != nil {
		t.Fatalf("read raw payload failed: %v", err)
	}
	if raw != "{not json" {
		t.Fatalf("malformed payload was overwritten: %q", raw)
	}

	var dest []entry
	found, err := store.Load(ctx, "orders", &dest)
	if !found || !errors.Is(err, ErrMalformed) {
		t.Fatalf("load should report malformed payload: found=%v err=%v", found, err)
	}
}
