package cache

import (
	"context"
	"strings"
	"time"
)

func menuKey(identifier string) string {
	return "menu:" + strings.ToLower(strings.TrimSpace(identifier))
}

// GetMenu 读取菜单缓存
func GetMenu(ctx context.Context, identifier string, dest interface{}) (bool, error) {
	return GetJSON(ctx, menuKey(identifier), dest)
}

// SetMenu 写入菜单缓存
func SetMenu(ctx context.Context, identifier string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return SetJSON(ctx, menuKey(identifier), value, ttl)
}

// DelMenu 按餐厅的全部标识（ID、slug、域名）失效菜单缓存
func DelMenu(ctx context.Context, identifiers ...string) error {
	keys := make([]string, 0, len(identifiers))
	for _, identifier := range identifiers {
		if strings.TrimSpace(identifier) == "" {
			continue
		}
		keys = append(keys, menuKey(identifier))
	}
	return Del(ctx, keys...)
}
