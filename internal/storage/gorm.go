package storage

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/mesa-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore 基于 collections 表的存储
// 写入在事务内完成并按版本号做乐观校验；同进程内另有按集合的互斥锁
type GormStore struct {
	db    *gorm.DB
	locks sync.Map // collection -> *sync.Mutex
}

// NewGormStore 创建数据库存储
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) lockFor(collection string) *sync.Mutex {
	value, _ := s.locks.LoadOrStore(collection, &sync.Mutex{})
	return value.(*sync.Mutex)
}

// Load 读取集合
func (s *GormStore) Load(ctx context.Context, collection string, dest interface{}) (bool, error) {
	var record models.CollectionRecord
	err := s.db.WithContext(ctx).Where("name = ?", collection).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(record.Payload), dest); err != nil {
		return true, malformed(collection, err)
	}
	return true, nil
}

// Save 写入集合
func (s *GormStore) Save(ctx context.Context, collection string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	lock := s.lockFor(collection)
	lock.Lock()
	defer lock.Unlock()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, found, err := s.takeForUpdate(tx, collection)
		if err != nil {
			return err
		}
		return s.write(tx, collection, record, found, payload)
	})
}

// Mutate 事务内读取-修改-写回
func (s *GormStore) Mutate(ctx context.Context, collection string, dest interface{}, fn func() error) error {
	lock := s.lockFor(collection)
	lock.Lock()
	defer lock.Unlock()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, found, err := s.takeForUpdate(tx, collection)
		if err != nil {
			return err
		}
		if found {
			if err := json.Unmarshal([]byte(record.Payload), dest); err != nil {
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
		return s.write(tx, collection, record, found, payload)
	})
}

func (s *GormStore) takeForUpdate(tx *gorm.DB, collection string) (models.CollectionRecord, bool, error) {
	var record models.CollectionRecord
	query := tx
	if tx.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := query.Where("name = ?", collection).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return record, false, nil
	}
	if err != nil {
		return record, false, err
	}
	return record, true, nil
}

func (s *GormStore) write(tx *gorm.DB, collection string, record models.CollectionRecord, found bool, payload []byte) error {
	now := time.Now()
	if !found {
		return tx.Create(&models.CollectionRecord{
			Name:      collection,
			Payload:   string(payload),
			Version:   1,
			UpdatedAt: now,
		}).Error
	}
	result := tx.Model(&models.CollectionRecord{}).
		Where("name = ? AND version = ?", collection, record.Version).
		Updates(map[string]interface{}{
			"payload":    string(payload),
			"version":    record.Version + 1,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return ErrConflict
	}
	return nil
}
