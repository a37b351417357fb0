package owner

import (
	handlershared "github.com/mesa-next/internal/http/handlers/shared"
	"github.com/mesa-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetProfile 当前老板账号与餐厅
func (h *Handler) GetProfile(c *gin.Context) {
	accountID, ok := handlershared.GetAccountID(c)
	if !ok {
		return
	}
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	account, err := h.AuthService.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, response.CodeNotFound, "error.unauthorized", nil)
		return
	}
	restaurant, err := h.RestaurantRepo.GetByID(c.Request.Context(), rid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{
		"account":    handlershared.NewAccountResponse(account),
		"restaurant": restaurant,
	})
}
