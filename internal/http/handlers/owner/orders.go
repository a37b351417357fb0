package owner

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	handlershared "github.com/mesa-next/internal/http/handlers/shared"
	"github.com/mesa-next/internal/http/response"
	"github.com/mesa-next/internal/i18n"
	"github.com/mesa-next/internal/repository"
	"github.com/mesa-next/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrOrderStatusInvalid, code: response.CodeBadRequest, key: "error.order_status_invalid"},
}

// ListOrders 订单列表，支持状态与创建时间筛选
func (h *Handler) ListOrders(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	filter, ok := parseOrderFilter(c, rid)
	if !ok {
		return
	}
	filter.Page, filter.PageSize = handlershared.ParsePagination(c)

	orders, total, err := h.OrderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(filter.Page, filter.PageSize, total))
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrder(c.Request.Context(), rid, c.Param("id"))
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatusRequest 修改订单状态请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus 按状态机推进订单
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	order, err := h.OrderService.UpdateStatus(c.Request.Context(), rid, c.Param("id"), req.Status)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "error.order_update_failed")
		return
	}
	response.Success(c, order)
}

// ExportOrders 导出订单为 xlsx
func (h *Handler) ExportOrders(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	filter, ok := parseOrderFilter(c, rid)
	if !ok {
		return
	}
	if filter.Status != "" && !service.IsValidOrderStatus(filter.Status) {
		respondError(c, response.CodeBadRequest, "error.order_status_invalid", nil)
		return
	}
	var buf bytes.Buffer
	count, err := h.ExportService.ExportOrders(c.Request.Context(), filter, i18n.ResolveLocale(c), &buf)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_export_failed", err)
		return
	}
	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("X-Export-Count", strconv.Itoa(count))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func parseOrderFilter(c *gin.Context, rid string) (repository.OrderListFilter, bool) {
	filter := repository.OrderListFilter{
		RestaurantID: rid,
		Status:       strings.TrimSpace(c.Query("status")),
	}
	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return filter, false
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return filter, false
	}
	filter.CreatedFrom = createdFrom
	filter.CreatedTo = createdTo
	return filter, true
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
