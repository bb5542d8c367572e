package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/opencatalog/blogext/utils"
)

const (
	// ContextUsernameKey stores the authenticated username inside Gin context.
	ContextUsernameKey = "username"
	// ContextSysadminKey stores the sysadmin capability flag.
	ContextSysadminKey = "sysadmin"
)

// AuthRequired ensures the request carries a valid bearer token issued by
// the host portal and records the actor identity in the request context.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40103, "empty bearer token")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40104, "invalid token")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Set(ContextSysadminKey, claims.Sysadmin)
		ctx.Next()
	}
}

// SysadminRequired gates mutating blog routes behind the portal's sysadmin
// capability. Must be mounted after AuthRequired.
func SysadminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if v, exists := ctx.Get(ContextSysadminKey); exists {
			if sysadmin, ok := v.(bool); ok && sysadmin {
				ctx.Next()
				return
			}
		}
		utils.Error(ctx, http.StatusForbidden, 40301, "not authorized to manage blog posts")
		ctx.Abort()
	}
}
