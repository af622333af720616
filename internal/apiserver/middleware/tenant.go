package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crewforge/backoffice/internal/tenant"
)

// ScopeKey is the gin context key the resolved tenant scope lives under.
const ScopeKey = "tenantScope"

// TenantScope resolves the active tenant scope for the authenticated user
// and stores it on the request context. Resolution happens per request;
// users without a team resolve to the unscoped scope, which queries pass
// through unfiltered.
func TenantScope(resolver *tenant.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFromContext(c)
		if claims == nil {
			c.Set(ScopeKey, tenant.Unscoped())
			c.Next()
			return
		}

		scope, err := resolver.Resolve(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve tenant"})
			return
		}

		c.Set(ScopeKey, scope)
		c.Next()
	}
}

// ScopeFromContext returns the resolved tenant scope, defaulting to
// unscoped when none was set.
func ScopeFromContext(c *gin.Context) tenant.Scope {
	v, ok := c.Get(ScopeKey)
	if !ok {
		return tenant.Unscoped()
	}
	scope, _ := v.(tenant.Scope)
	return scope
}
