package authz

import (
	"fmt"

	"github.com/meeplemarket/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵
// client 无后台权限；manager 负责订单履约与经营数据；admin 全量放行
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role:     constants.UserRoleClient,
			Policies: []Policy{},
		},
		{
			Role: constants.UserRoleManager,
			Policies: []Policy{
				{Object: "/admin/dashboard/*", Action: "GET"},
				{Object: "/admin/orders", Action: "GET"},
				{Object: "/admin/orders/:id", Action: "GET"},
				{Object: "/admin/orders/:id/cancel", Action: "POST"},
				{Object: "/admin/orders/:id/ship", Action: "POST"},
				{Object: "/admin/orders/:id/complete", Action: "POST"},
				{Object: "/admin/users", Action: "GET"},
				{Object: "/admin/users/:id", Action: "GET"},
			},
		},
		{
			Role:     constants.UserRoleAdmin,
			Inherits: []string{constants.UserRoleManager},
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		for _, parent := range seed.Inherits {
			if err := s.AddRoleInheritance(seed.Role, parent); err != nil {
				return err
			}
		}
		for _, policy := range seed.Policies {
			if err := s.GrantRolePolicy(seed.Role, policy.Object, policy.Action); err != nil {
				return err
			}
		}
	}
	return nil
}
