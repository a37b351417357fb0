package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/redis/go-redis/v9"
)

const defaultRedisMaxRetries = 8

// RedisStore 基于 Redis 字符串键的存储，Mutate 使用 WATCH + MULTI 做乐观并发
type RedisStore struct {
	client     *redis.Client
	prefix     string
	maxRetries int
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client, prefix string, maxRetries int) *RedisStore {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "mesa:collection"
	}
	if maxRetries <= 0 {
		maxRetries = defaultRedisMaxRetries
	}
	return &RedisStore{client: client, prefix: prefix, maxRetries: maxRetries}
}

func (s *RedisStore) key(collection string) string {
	return fmt.Sprintf("%s:%s", s.prefix, collection)
}

// Load 读取集合
func (s *RedisStore) Load(ctx context.Context, collection string, dest interface{}) (bool, error) {
	raw, err := s.client.Get(ctx, s.key(collection)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return true, malformed(collection, err)
	}
	return true, nil
}

// Save 写入集合
func (s *RedisStore) Save(ctx context.Context, collection string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(collection), payload, 0).Err()
}

// Mutate 乐观事务读取-修改-写回，冲突时恢复 dest 初始值后重试
func (s *RedisStore) Mutate(ctx context.Context, collection string, dest interface{}, fn func() error) error {
	target := reflect.ValueOf(dest)
	if target.Kind() != reflect.Ptr || target.IsNil() {
		return fmt.Errorf("storage: dest must be a non-nil pointer")
	}
	initial := reflect.New(target.Elem().Type()).Elem()
	initial.Set(target.Elem())

	key := s.key(collection)
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if attempt > 0 {
			target.Elem().Set(initial)
		}
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			raw, err := tx.Get(ctx, key).Bytes()
			switch {
			case errors.Is(err, redis.Nil):
			case err != nil:
				return err
			default:
				if err := json.Unmarshal(raw, dest); err != nil {
					return malformed(collection, err)
				}
			}
			if err := fn(); err != nil {
				return err
			}
			payload, err := json.Marshal(dest)
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, payload, 0)
				return nil
			})
			return err
		}, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrConflict
}
