package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/multistore/backend/internal/domain/identity"
	"github.com/multistore/backend/internal/interfaces/http/dto"
)

// RequireRole allows the request through only when the token role matches
// one of the given roles. Super admins always pass.
func RequireRole(roles ...identity.AdminRole) gin.HandlerFunc {
	allowed := make(map[identity.AdminRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := identity.AdminRole(GetJWTRole(c))
		if role == "" {
			abortWithStatus(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		if role == identity.RoleSuperAdmin {
			c.Next()
			return
		}

		if _, ok := allowed[role]; !ok {
			abortWithStatus(c, http.StatusForbidden, dto.ErrCodeForbidden, "Insufficient role")
			return
		}

		c.Next()
	}
}

// RequirePlatformAdmin restricts the route to super admins.
func RequirePlatformAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := identity.AdminRole(GetJWTRole(c))
		if role == "" {
			abortWithStatus(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if role != identity.RoleSuperAdmin {
			abortWithStatus(c, http.StatusForbidden, dto.ErrCodeForbidden, "Platform administrator access required")
			return
		}
		c.Next()
	}
}

// RequireStoreManagement restricts the route to roles that can change store
// settings and staff.
func RequireStoreManagement() gin.HandlerFunc {
	return RequireRole(identity.RoleStoreAdmin)
}
