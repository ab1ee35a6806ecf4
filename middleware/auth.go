package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"campusboard/utils"
)

const (
	// ContextUserIDKey is the key used to store the authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
	// ContextSessionTokenKey stores the raw session token for logout.
	ContextSessionTokenKey = "session_token"

	// SessionCookieName is the cookie carrying the opaque session token.
	SessionCookieName = "session_token"
)

// SessionRequired ensures the request carries a valid session token, either
// as a Bearer token or the session cookie, and resolves it to a user.
func SessionRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := extractToken(ctx)
		if token == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authentication required")
			ctx.Abort()
			return
		}

		session, ok := utils.GetSession(token)
		if !ok {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "session expired or invalid")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, session.UserID)
		ctx.Set(ContextUsernameKey, session.Username)
		ctx.Set(ContextSessionTokenKey, token)
		ctx.Next()
	}
}

func extractToken(ctx *gin.Context) string {
	if authHeader := ctx.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := ctx.Cookie(SessionCookieName); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}
