package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huseyingedek/geras-api/internal/httperr"
)

const RoleOwner = "owner"

// RequirePermission allows the request when the token carries
// "resource:action" (or "resource:*"). Owners pass unconditionally.
func RequirePermission(resource, action string) gin.HandlerFunc {
	exact := resource + ":" + action
	wildcard := resource + ":*"

	return func(c *gin.Context) {
		if c.GetString(ContextUserRole) == RoleOwner {
			c.Next()
			return
		}

		perms, _ := c.Get(ContextPermissions)
		list, _ := perms.([]string)
		for _, p := range list {
			if p == exact || p == wildcard {
				c.Next()
				return
			}
		}

		httperr.Abort(c, http.StatusForbidden, httperr.CodeForbidden)
	}
}
