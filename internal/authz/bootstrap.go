package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵
// buyer 覆盖买家侧全部受保护路由，seller 继承 buyer 并追加卖家侧路由
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "buyer",
			Policies: []Policy{
				{Object: "/users/profile/", Action: "*"},
				{Object: "/users/change_password/", Action: "POST"},
				{Object: "/orders/cart/", Action: "GET"},
				{Object: "/orders/cart/add_item/", Action: "POST"},
				{Object: "/orders/cart/update_item/:item_id/", Action: "PUT"},
				{Object: "/orders/cart/remove_item/:item_id/", Action: "DELETE"},
				{Object: "/orders/cart/clear/", Action: "DELETE"},
				{Object: "/orders/checkout/", Action: "POST"},
				{Object: "/orders/orders/", Action: "GET"},
				{Object: "/orders/orders/:id/", Action: "GET"},
				{Object: "/orders/orders/:id/cancel/", Action: "POST"},
				{Object: "/orders/orders/:id/payments/", Action: "*"},
				{Object: "/orders/payments/:id/", Action: "GET"},
				{Object: "/orders/payments/:id/process/", Action: "POST"},
				{Object: "/notifications/", Action: "GET"},
				{Object: "/notifications/unread_count/", Action: "GET"},
				{Object: "/notifications/read_all/", Action: "POST"},
				{Object: "/notifications/:id/", Action: "DELETE"},
				{Object: "/notifications/:id/read/", Action: "POST"},
			},
		},
		{
			Role:     "seller",
			Inherits: []string{"buyer"},
			Policies: []Policy{
				{Object: "/orders/seller_orders/", Action: "GET"},
				{Object: "/orders/orders/:id/status/", Action: "POST"},
				{Object: "/products/my_products/", Action: "*"},
				{Object: "/products/my_products/:id/", Action: "*"},
				{Object: "/products/my_products/:id/status/", Action: "POST"},
				{Object: "/products/categories/", Action: "POST"},
				{Object: "/products/categories/:slug/", Action: "PUT"},
				{Object: "/products/categories/:slug/", Action: "DELETE"},
				{Object: "/social/accounts/", Action: "*"},
				{Object: "/social/accounts/:id/", Action: "DELETE"},
				{Object: "/social/posts/", Action: "*"},
				{Object: "/social/posts/:id/", Action: "*"},
				{Object: "/social/posts/:id/publish/", Action: "POST"},
				{Object: "/ai/generate/", Action: "POST"},
				{Object: "/chat/conversations/", Action: "GET"},
				{Object: "/chat/conversations/:id/", Action: "GET"},
				{Object: "/chat/conversations/:id/reply/", Action: "POST"},
				{Object: "/chat/conversations/:id/close/", Action: "POST"},
				{Object: "/chat/conversations/:id/reopen/", Action: "POST"},
				{Object: "/chat/conversations/:id/unread_count/", Action: "GET"},
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
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return err
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}

	return nil
}
