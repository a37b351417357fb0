// Package response 统一 JSON 信封，HTTP 状态恒为 200，业务结果看 status_code
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequestIDKey gin 上下文中的请求 ID 键
const RequestIDKey = "request_id"

const okMsg = "success"

// Response 统一响应结构
type Response struct {
	StatusCode int         `json:"status_code"`
	Msg        string      `json:"msg"`
	Data       interface{} `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination 分页信息
type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"page_size"`
	Total     int `json:"total"`
	TotalPage int `json:"total_page"`
}

// BuildPagination 页大小为 0 时总页数记 0
func BuildPagination(page, pageSize, total int) Pagination {
	p := Pagination{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		p.TotalPage = (total + pageSize - 1) / pageSize
	}
	return p
}

func write(c *gin.Context, body Response) {
	c.JSON(http.StatusOK, body)
}

// Success 成功
func Success(c *gin.Context, data interface{}) {
	write(c, Response{StatusCode: CodeOK, Msg: okMsg, Data: data})
}

// SuccessWithMsg 成功并携带提示文案
func SuccessWithMsg(c *gin.Context, msg string, data interface{}) {
	write(c, Response{StatusCode: CodeOK, Msg: msg, Data: data})
}

// SuccessWithPage 列表分页
func SuccessWithPage(c *gin.Context, data interface{}, pagination Pagination) {
	write(c, Response{StatusCode: CodeOK, Msg: okMsg, Data: data, Pagination: &pagination})
}

// Error 业务失败
func Error(c *gin.Context, code int, msg string) {
	ErrorWithData(c, code, msg, nil)
}

// ErrorWithData 业务失败，data 中补充 request_id 便于排查
func ErrorWithData(c *gin.Context, code int, msg string, data interface{}) {
	write(c, Response{StatusCode: code, Msg: msg, Data: withRequestID(c, data)})
}

// AbortWithError 中间件拒绝请求
func AbortWithError(c *gin.Context, code int, msg string) {
	Error(c, code, msg)
	c.Abort()
}

func withRequestID(c *gin.Context, data interface{}) interface{} {
	if c == nil {
		return data
	}
	id := c.GetString(RequestIDKey)
	if id == "" {
		return data
	}
	if data == nil {
		return gin.H{RequestIDKey: id}
	}
	if h, ok := data.(gin.H); ok {
		if _, exists := h[RequestIDKey]; !exists {
			h[RequestIDKey] = id
		}
		return h
	}
	return gin.H{RequestIDKey: id, "data": data}
}
