package authz

import (
	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/logger"
)

// RolePolicySet 预置角色及其策略
type RolePolicySet struct {
	Role     string
	Policies []Policy
}

// BuiltinRolePolicies 老板只能访问 /owner 下的路由，超级管理员只能访问 /admin
func BuiltinRolePolicies() []RolePolicySet {
	return []RolePolicySet{
		{
			Role: constants.RoleRestaurantOwner,
			Policies: []Policy{
				{Path: "/owner/me", Method: "GET"},
				{Path: "/owner/categories", Method: anyAction},
				{Path: "/owner/categories/:id", Method: anyAction},
				{Path: "/owner/products", Method: anyAction},
				{Path: "/owner/products/:id", Method: anyAction},
				{Path: "/owner/orders", Method: "GET"},
				{Path: "/owner/orders/export", Method: "GET"},
				{Path: "/owner/orders/live", Method: "GET"},
				{Path: "/owner/orders/:id", Method: "GET"},
				{Path: "/owner/orders/:id/status", Method: "PATCH"},
			},
		},
		{
			Role: constants.RoleSuperAdmin,
			Policies: []Policy{
				{Path: "/admin/*", Method: anyAction},
			},
		},
	}
}

// BootstrapBuiltinRoles 每次启动以代码中的矩阵覆盖预置角色的策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return ErrUnavailable
	}
	for _, set := range BuiltinRolePolicies() {
		if err := s.replaceRolePolicies(normalizeRole(set.Role), set.Policies); err != nil {
			return err
		}
		logger.Debugw("authz_role_synced", "role", set.Role, "policies", len(set.Policies))
	}
	return nil
}
