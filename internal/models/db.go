package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mesa-next/internal/config"
	"github.com/mesa-next/internal/logger"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB 全局连接，集合存储与 casbin 策略表共用
var DB *gorm.DB

const slowQueryThreshold = 500 * time.Millisecond

var errDBNotInitialized = errors.New("database not initialized")

// openers 驱动名到 GORM 方言
var openers = map[string]func(string) gorm.Dialector{
	"sqlite":     sqlite.Open,
	"postgres":   postgres.Open,
	"postgresql": postgres.Open,
	"mysql":      mysql.Open,
	"mariadb":    mysql.Open,
}

// Dialector 按驱动名构造方言，空驱动按 sqlite 处理
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	name := strings.ToLower(strings.TrimSpace(driver))
	if name == "" {
		name = "sqlite"
	}
	open, ok := openers[name]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	return open(dsn), nil
}

// Open 建立连接并按配置设置连接池，SQL 日志走 zap
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(logger.StdLogger(), gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialector.Name(), err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	pool := cfg.Pool
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns >= 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetimeSeconds > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetimeSeconds) * time.Second)
	}
	if pool.ConnMaxIdleTimeSeconds > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(pool.ConnMaxIdleTimeSeconds) * time.Second)
	}
	return db, nil
}

// InitDB 打开全局连接并迁移
func InitDB(cfg config.DatabaseConfig) error {
	db, err := Open(cfg)
	if err != nil {
		return err
	}
	if err := AutoMigrateDB(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	DB = db
	return nil
}

// AutoMigrateDB 迁移集合表；casbin_rule 由 authz 适配器维护
func AutoMigrateDB(db *gorm.DB) error {
	if db == nil {
		return errDBNotInitialized
	}
	return db.AutoMigrate(&CollectionRecord{})
}
