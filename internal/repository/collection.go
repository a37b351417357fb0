package repository

import (
	"context"
	"errors"

	"github.com/mesa-next/internal/storage"
)

var (
	// ErrDuplicate 唯一键冲突
	ErrDuplicate = errors.New("repository: duplicate record")
	// ErrNotFound 记录不存在（仅用于写路径，读路径返回 nil, nil）
	ErrNotFound = errors.New("repository: record not found")
)

// collection 单个命名集合的泛型访问器
type collection[T any] struct {
	store storage.Store
	name  string
}

func newCollection[T any](store storage.Store, name string) collection[T] {
	return collection[T]{store: store, name: name}
}

func (c collection[T]) all(ctx context.Context) ([]T, error) {
	return storage.LoadOrDefault(ctx, c.store, c.name, []T{})
}

func (c collection[T]) mutate(ctx context.Context, fn func(items *[]T) error) error {
	items := []T{}
	return c.store.Mutate(ctx, c.name, &items, func() error {
		return fn(&items)
	})
}

func (c collection[T]) replace(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	return c.store.Save(ctx, c.name, items)
}

func (c collection[T]) find(ctx context.Context, match func(*T) bool) (*T, error) {
	items, err := c.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if match(&items[i]) {
			return &items[i], nil
		}
	}
	return nil, nil
}

func (c collection[T]) filter(ctx context.Context, match func(*T) bool) ([]T, error) {
	items, err := c.all(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]T, 0, len(items))
	for i := range items {
		if match(&items[i]) {
			result = append(result, items[i])
		}
	}
	return result, nil
}

// update 在集合中定位并修改一条记录，未命中返回 ErrNotFound
func (c collection[T]) update(ctx context.Context, match func(*T) bool, fn func(*T) error) (*T, error) {
	var updated T
	err := c.mutate(ctx, func(items *[]T) error {
		for i := range *items {
			if !match(&(*items)[i]) {
				continue
			}
			if err := fn(&(*items)[i]); err != nil {
				return err
			}
			updated = (*items)[i]
			return nil
		}
		return ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// remove 删除命中记录，返回删除条数
func (c collection[T]) remove(ctx context.Context, match func(*T) bool) (int, error) {
	removed := 0
	err := c.mutate(ctx, func(items *[]T) error {
		// 冲突重试时回调会再次执行
		removed = 0
		kept := (*items)[:0]
		for i := range *items {
			if match(&(*items)[i]) {
				removed++
				continue
			}
			kept = append(kept, (*items)[i])
		}
		*items = kept
		return nil
	})
	return removed, err
}
