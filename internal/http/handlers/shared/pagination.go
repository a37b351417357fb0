package shared

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// 列表分页默认值
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParsePagination 读取 page 与 page_size 查询参数，非法值回落到默认
func ParsePagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.Query("page_size"))
	if err != nil || pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
