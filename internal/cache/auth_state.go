package cache

import (
	"context"
	"time"

	"github.com/mesa-next/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// AccountAuthState 账号鉴权快照，仅用于服务端 Redis 缓存
type AccountAuthState struct {
	AccountID    string `json:"account_id"`
	Role         string `json:"role"`
	RestaurantID string `json:"restaurant_id"`
	TokenVersion uint64 `json:"token_version"`
	UpdatedAt    int64  `json:"updated_at"`
}

func accountAuthStateKey(accountID string) string {
	return "auth:account:" + accountID
}

// BuildAccountAuthState 从账号构建鉴权快照
func BuildAccountAuthState(account *models.Account) *AccountAuthState {
	if account == nil {
		return nil
	}
	return &AccountAuthState{
		AccountID:    account.ID,
		Role:         account.Role,
		RestaurantID: account.RestaurantID,
		TokenVersion: account.TokenVersion,
		UpdatedAt:    time.Now().Unix(),
	}
}

// GetAccountAuthState 获取账号鉴权快照
func GetAccountAuthState(ctx context.Context, accountID string) (*AccountAuthState, bool, error) {
	if accountID == "" {
		return nil, false, nil
	}
	var state AccountAuthState
	hit, err := GetJSON(ctx, accountAuthStateKey(accountID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetAccountAuthState 写入账号鉴权快照
func SetAccountAuthState(ctx context.Context, state *AccountAuthState) error {
	if state == nil || state.AccountID == "" {
		return nil
	}
	return SetJSON(ctx, accountAuthStateKey(state.AccountID), state, authStateCacheTTL)
}

// DelAccountAuthState 删除账号鉴权快照
func DelAccountAuthState(ctx context.Context, accountID string) error {
	if accountID == "" {
		return nil
	}
	return Del(ctx, accountAuthStateKey(accountID))
}
