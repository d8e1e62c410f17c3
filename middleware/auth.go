package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pfplabs/croaker/config"
	"github.com/pfplabs/croaker/utils"
)

// AuthRequired guards the ops endpoints with the static operator token.
// An empty ADMIN_TOKEN locks the protected group entirely.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		adminToken := config.Get().AdminToken
		if adminToken == "" {
			utils.Error(ctx, http.StatusForbidden, 40301, "ops api disabled: no admin token configured")
			ctx.Abort()
			return
		}

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

		token := strings.TrimSpace(parts[1])
		if subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
			utils.Error(ctx, http.StatusUnauthorized, 40103, "invalid token")
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}
