// Package authz 基于 casbin 的接口授权；主体为令牌中的角色名，资源为去掉 /api/v1 前缀的路由模板
package authz

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	routePrefix = "/api/v1"
	policyTable = "casbin_rule"
	anyAction   = "*"
)

// 角色之间没有继承关系，只做 路由 x 方法 的匹配
const roleRouteModel = `
[request_definition]
r = role, path, method

[policy_definition]
p = role, path, method

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.role == p.role && keyMatch2(r.path, p.path) && (p.method == "*" || r.method == p.method)
`

// ErrUnavailable 授权服务未初始化
var ErrUnavailable = errors.New("authz service unavailable")

// ErrRoleRequired 角色为空
var ErrRoleRequired = errors.New("role is required")

// Policy 单条授权策略
type Policy struct {
	Role   string `json:"role"`
	Path   string `json:"path"`
	Method string `json:"method"`
}

// Service 授权服务，策略持久化在 casbin_rule 表
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 创建授权服务并加载已持久化的策略
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, errors.New("authz db is nil")
	}
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", policyTable)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter failed: %w", err)
	}
	m, err := model.NewModelFromString(roleRouteModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model failed: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer failed: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy failed: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

// EnforceRole 判定角色能否以 method 访问 path，path 可带 /api/v1 前缀
func (s *Service) EnforceRole(role, path, method string) (bool, error) {
	if s == nil || s.enforcer == nil {
		return false, ErrUnavailable
	}
	role = normalizeRole(role)
	if role == "" {
		return false, ErrRoleRequired
	}
	return s.enforcer.Enforce(role, NormalizeObject(path), NormalizeAction(method))
}

// RolePolicies 角色当前生效的策略，按路径与方法排序
func (s *Service) RolePolicies(role string) ([]Policy, error) {
	if s == nil || s.enforcer == nil {
		return nil, ErrUnavailable
	}
	role = normalizeRole(role)
	if role == "" {
		return nil, ErrRoleRequired
	}
	rules, err := s.enforcer.GetFilteredPolicy(0, role)
	if err != nil {
		return nil, fmt.Errorf("get role policies failed: %w", err)
	}
	policies := make([]Policy, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		policies = append(policies, Policy{Role: rule[0], Path: rule[1], Method: rule[2]})
	}
	sort.Slice(policies, func(i, j int) bool {
		if policies[i].Path == policies[j].Path {
			return policies[i].Method < policies[j].Method
		}
		return policies[i].Path < policies[j].Path
	})
	return policies, nil
}

// replaceRolePolicies 以给定集合覆盖角色的全部策略
func (s *Service) replaceRolePolicies(role string, policies []Policy) error {
	if _, err := s.enforcer.RemoveFilteredPolicy(0, role); err != nil {
		return fmt.Errorf("clear policies of %s failed: %w", role, err)
	}
	if len(policies) == 0 {
		return nil
	}
	rules := make([][]string, 0, len(policies))
	seen := make(map[string]struct{}, len(policies))
	for _, policy := range policies {
		path := NormalizeObject(policy.Path)
		method := NormalizeAction(policy.Method)
		if method == "" {
			return fmt.Errorf("policy %s of %s has no method", path, role)
		}
		key := path + " " + method
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		rules = append(rules, []string{role, path, method})
	}
	if _, err := s.enforcer.AddPolicies(rules); err != nil {
		return fmt.Errorf("add policies of %s failed: %w", role, err)
	}
	return nil
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// NormalizeObject 统一授权资源路径：补前导斜杠并去掉 /api/v1
func NormalizeObject(object string) string {
	path := strings.TrimSpace(object)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	path = strings.TrimPrefix(path, routePrefix)
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		// 形如 /api/v10 的路径不属于本前缀
		return "/" + strings.TrimPrefix(strings.TrimSpace(object), "/")
	}
	return path
}

// NormalizeAction 统一 HTTP 方法
func NormalizeAction(action string) string {
	action = strings.ToUpper(strings.TrimSpace(action))
	if action == anyAction {
		return anyAction
	}
	return action
}
