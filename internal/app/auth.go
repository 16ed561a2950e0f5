package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const agentIDKey = "agent_id"

// AuthMiddleware accepts HMAC JWTs (agent id in the sub claim) or static
// tokens (agent id from the X-Agent-ID header, for internal tooling).
func (a *App) AuthMiddleware() gin.HandlerFunc {
	staticTokens := strings.Split(strings.TrimSpace(a.Cfg.Auth.StaticTokens), ",")
	jwtSecret := strings.TrimSpace(a.Cfg.Auth.JWTSecret)

	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}
		parts := strings.Fields(auth)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		tokenStr := parts[1]

		// JWT path
		if jwtSecret != "" {
			token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrTokenMalformed
				}
				return []byte(jwtSecret), nil
			}, jwt.WithLeeway(5*time.Second))
			if err == nil {
				if sub, err := token.Claims.GetSubject(); err == nil && sub != "" {
					c.Set(agentIDKey, sub)
					c.Next()
					return
				}
			}
		}

		// static tokens
		for _, t := range staticTokens {
			if t != "" && tokenStr == strings.TrimSpace(t) {
				if id := c.GetHeader("X-Agent-ID"); id != "" {
					c.Set(agentIDKey, id)
				}
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	}
}

// agentID returns the authenticated agent, aborting with 401 when the token
// carried no identity.
func agentID(c *gin.Context) (string, bool) {
	id := c.GetString(agentIDKey)
	if id == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no agent identity in token"})
		return "", false
	}
	return id, true
}
