package service

import (
	"storefront/internal/core/auth"
	"storefront/internal/core/errs"
)

// authorize 每个需要权限的操作第一步调用：先判权限，再查数据
func authorize(p *auth.Principal, need auth.Capability) error {
	switch auth.Authorize(p, need) {
	case auth.Ok:
		return nil
	case auth.Unauthenticated:
		return errs.Unauthorized("authentication required")
	default:
		return errs.Forbidden("permission denied")
	}
}
