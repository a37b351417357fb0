package admin

import (
	"errors"
	"strings"

	handlershared "github.com/mesa-next/internal/http/handlers/shared"
	"github.com/mesa-next/internal/http/response"
	"github.com/mesa-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetDashboard 平台概览
func (h *Handler) GetDashboard(c *gin.Context) {
	stats, err := h.AdminService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.dashboard_fetch_failed", err)
		return
	}
	response.Success(c, stats)
}

// ListRestaurants 餐厅列表，新注册在前
func (h *Handler) ListRestaurants(c *gin.Context) {
	restaurants, err := h.AdminService.ListRestaurants(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	status := strings.TrimSpace(c.Query("status"))
	if status == "" {
		response.Success(c, restaurants)
		return
	}
	filtered := make([]service.RestaurantSummary, 0, len(restaurants))
	for _, item := range restaurants {
		if item.Status == status {
			filtered = append(filtered, item)
		}
	}
	response.Success(c, filtered)
}

// ApproveRestaurant 审核通过
func (h *Handler) ApproveRestaurant(c *gin.Context) {
	summary, err := h.AdminService.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondRestaurantUpdateError(c, err)
		return
	}
	response.Success(c, summary)
}

// DeactivateRestaurant 停用餐厅
func (h *Handler) DeactivateRestaurant(c *gin.Context) {
	summary, err := h.AdminService.Deactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondRestaurantUpdateError(c, err)
		return
	}
	response.Success(c, summary)
}

// UpdateSubscriptionRequest 修改订阅请求，空字段不修改
type UpdateSubscriptionRequest struct {
	PlanType string `json:"plan_type"`
	Status   string `json:"status"`
}

// UpdateSubscription 修改订阅套餐与状态
func (h *Handler) UpdateSubscription(c *gin.Context) {
	var req UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	subscription, err := h.AdminService.UpdateSubscription(
		c.Request.Context(),
		c.Param("id"),
		strings.TrimSpace(req.PlanType),
		strings.TrimSpace(req.Status),
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanInvalid):
			respondError(c, response.CodeBadRequest, "error.plan_invalid", nil)
		case errors.Is(err, service.ErrSubscriptionStatusInvalid):
			respondError(c, response.CodeBadRequest, "error.subscription_status_invalid", nil)
		case errors.Is(err, service.ErrRestaurantNotFound):
			handlershared.RespondErrorf(c, response.CodeNotFound, "error.restaurant_not_found", nil, c.Param("id"))
		default:
			respondError(c, response.CodeInternal, "error.subscription_update_failed", err)
		}
		return
	}
	response.Success(c, subscription)
}

// ResetData 重置为演示数据
func (h *Handler) ResetData(c *gin.Context) {
	if err := h.AdminService.Reset(c.Request.Context()); err != nil {
		respondError(c, response.CodeInternal, "error.reset_failed", err)
		return
	}
	handlershared.SuccessMessage(c, "message.data_reset", gin.H{"reset": true})
}

func respondRestaurantUpdateError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrRestaurantNotFound) {
		handlershared.RespondErrorf(c, response.CodeNotFound, "error.restaurant_not_found", nil, c.Param("id"))
		return
	}
	respondError(c, response.CodeInternal, "error.restaurant_update_failed", err)
}
