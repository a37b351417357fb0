package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mesa-next/internal/config"
	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	// ErrMalformed 集合内容无法解析
	ErrMalformed = errors.New("storage: malformed collection payload")
	// ErrConflict 并发写入冲突且重试耗尽
	ErrConflict = errors.New("storage: concurrent write conflict")
)

// Store 命名集合存储
// 每个集合整体序列化为 JSON 数组
type Store interface {
	// Load 读取集合到 dest，集合不存在时返回 false
	Load(ctx context.Context, collection string, dest interface{}) (bool, error)
	// Save 整体覆盖写入集合
	Save(ctx context.Context, collection string, value interface{}) error
	// Mutate 原子地读取-修改-写回集合。
	// 集合不存在时 dest 保持调用方传入的初始值；fn 返回错误时不写入。
	// 集合内容损坏时返回 ErrMalformed 且不覆盖原数据。
	Mutate(ctx context.Context, collection string, dest interface{}, fn func() error) error
}

// LoadOrDefault 读取集合；不存在或内容损坏时返回 def
func LoadOrDefault[T any](ctx context.Context, store Store, collection string, def T) (T, error) {
	var out T
	found, err := store.Load(ctx, collection, &out)
	if err != nil {
		if errors.Is(err, ErrMalformed) {
			logger.Warnw("storage_load_fallback", "collection", collection, "error", err)
			return def, nil
		}
		return def, err
	}
	if !found {
		return def, nil
	}
	return out, nil
}

// New 按配置创建存储
func New(cfg config.StorageConfig, db *gorm.DB, rdb *redis.Client) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case constants.StorageDriverMemory:
		return NewMemoryStore(), nil
	case "", constants.StorageDriverDatabase:
		if db == nil {
			return nil, fmt.Errorf("storage driver %q requires a database", constants.StorageDriverDatabase)
		}
		return NewGormStore(db), nil
	case constants.StorageDriverRedis:
		if rdb == nil {
			return nil, fmt.Errorf("storage driver %q requires redis to be enabled", constants.StorageDriverRedis)
		}
		return NewRedisStore(rdb, cfg.KeyPrefix, cfg.MaxRetries), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

func malformed(collection string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformed, collection, err)
}
