package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	LocaleES = "es"
	LocaleEN = "en"

	// DefaultLocale 顾客侧默认语言
	DefaultLocale = LocaleES
)

// ResolveLocale 按 query lang、X-Locale、Accept-Language 顺序解析语言
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if locale, ok := NormalizeLocale(c.Query("lang")); ok {
		return locale
	}
	if locale, ok := NormalizeLocale(c.GetHeader("X-Locale")); ok {
		return locale
	}
	for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if locale, ok := NormalizeLocale(tag); ok {
			return locale
		}
	}
	return DefaultLocale
}

// NormalizeLocale 归一化语言标签（es-CO -> es）
func NormalizeLocale(raw string) (string, bool) {
	tag := strings.ToLower(strings.TrimSpace(raw))
	if tag == "" {
		return "", false
	}
	base := strings.SplitN(strings.ReplaceAll(tag, "_", "-"), "-", 2)[0]
	if _, ok := catalogs[base]; ok {
		return base, true
	}
	return "", false
}

// T 翻译消息，缺失时回退到默认语言，再回退到 key 本身
func T(locale, key string) string {
	if catalog, ok := catalogs[locale]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if msg, ok := catalogs[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化消息
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
