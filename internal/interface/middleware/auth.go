package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/tunehub/tunehub/pkg/helpers"
	"github.com/tunehub/tunehub/pkg/response"
)

// Auth validates the access token cookie and ensures an active user
// session exists in Redis. It sets userID, userName, and userEmail in
// the Gin context on success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseToken(c, jwt)
		if !ok {
			return
		}
		if claims.Role != helpers.RoleUser {
			response.AbortError(c, http.StatusForbidden, "not a user token", nil)
			return
		}

		key := helpers.KeyUserSession(claims.SubjectID)
		data, err := rdb.HGetAll(c.Request.Context(), key).Result()
		if err != nil || len(data) == 0 {
			response.AbortError(c, http.StatusUnauthorized, "session not found", nil)
			return
		}

		c.Set("userID", claims.SubjectID)
		c.Set("userName", data["name"])
		c.Set("userEmail", data["email"])
		c.Next()
	}
}

// ModeratorAuth validates a moderator access token and console session.
// It sets moderatorID in the Gin context on success.
func ModeratorAuth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseToken(c, jwt)
		if !ok {
			return
		}
		if claims.Role != helpers.RoleModerator {
			response.AbortError(c, http.StatusForbidden, "not a moderator token", nil)
			return
		}

		key := helpers.KeyModeratorSession(claims.SubjectID)
		data, err := rdb.HGetAll(c.Request.Context(), key).Result()
		if err != nil || len(data) == 0 {
			response.AbortError(c, http.StatusUnauthorized, "session not found", nil)
			return
		}

		c.Set("moderatorID", claims.SubjectID)
		c.Next()
	}
}

// parseToken reads the access token from the cookie or the
// Authorization header and validates it. Aborts on failure.
func parseToken(c *gin.Context, jwt *helpers.JWTManager) (*helpers.Claims, bool) {
	token, _ := c.Cookie("access_token")
	if token == "" {
		auth := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
			token = auth[len(prefix):]
		}
	}
	if token == "" {
		response.AbortError(c, http.StatusUnauthorized, "missing access token", nil)
		return nil, false
	}
	claims, err := jwt.ParseAccessToken(token)
	if err != nil {
		response.AbortError(c, http.StatusUnauthorized, "invalid access token", err.Error())
		return nil, false
	}
	return claims, true
}
