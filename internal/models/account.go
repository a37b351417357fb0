package models

import "time"

// Account 后台账号（超级管理员或餐厅老板）
type Account struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"password_hash"`
	Role         string     `json:"role"`
	RestaurantID string     `json:"restaurant_id,omitempty"`
	OwnerName    string     `json:"owner_name,omitempty"`
	TokenVersion uint64     `json:"token_version"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
