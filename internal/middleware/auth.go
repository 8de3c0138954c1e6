package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/huseyingedek/geras-api/internal/httperr"
)

const (
	ContextUserID      = "userID"
	ContextAccountID   = "accountID"
	ContextUserRole    = "userRole"
	ContextPermissions = "permissions"
)

// AuthMiddleware validates the HS256 bearer token and puts the caller's
// identity on the context. Every tenant-scoped query reads accountId from
// here, never from the request body.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Abort(c, http.StatusUnauthorized, httperr.CodeUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Abort(c, http.StatusUnauthorized, httperr.CodeUnauthorized)
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			httperr.Abort(c, http.StatusUnauthorized, httperr.CodeUnauthorized)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httperr.Abort(c, http.StatusUnauthorized, httperr.CodeUnauthorized)
			return
		}

		userID, ok1 := claims["sub"].(float64)
		accountID, ok2 := claims["accountId"].(float64)
		if !ok1 || !ok2 || accountID <= 0 {
			httperr.Abort(c, http.StatusUnauthorized, httperr.CodeUnauthorized)
			return
		}
		role, _ := claims["role"].(string)

		var permissions []string
		if raw, ok := claims["permissions"].([]any); ok {
			for _, p := range raw {
				if s, ok := p.(string); ok {
					permissions = append(permissions, s)
				}
			}
		}

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextAccountID, uint(accountID))
		c.Set(ContextUserRole, role)
		c.Set(ContextPermissions, permissions)

		c.Next()
	}
}
