package shared

import (
	"time"

	"github.com/mesa-next/internal/models"
)

// AccountResponse 对外暴露的账号信息
type AccountResponse struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	RestaurantID string     `json:"restaurant_id,omitempty"`
	OwnerName    string     `json:"owner_name,omitempty"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// NewAccountResponse 去除密码哈希等内部字段
func NewAccountResponse(account *models.Account) AccountResponse {
	if account == nil {
		return AccountResponse{}
	}
	return AccountResponse{
		ID:           account.ID,
		Email:        account.Email,
		Role:         account.Role,
		RestaurantID: account.RestaurantID,
		OwnerName:    account.OwnerName,
		LastLoginAt:  account.LastLoginAt,
	}
}
