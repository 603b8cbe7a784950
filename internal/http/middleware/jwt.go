package middleware

import (
	"net/http"
	"strings"

	"cryptofarm/internal/service"

	"github.com/gin-gonic/gin"
)

// PlayerIDKey is the gin context key set by JWT.
const PlayerIDKey = "player_id"

// JWT requires "Authorization: Bearer <token>" and stores the player id.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		playerID, err := service.ParseJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(PlayerIDKey, playerID)
		c.Next()
	}
}

// PlayerID returns the id stored by JWT.
func PlayerID(c *gin.Context) (string, bool) {
	v, ok := c.Get(PlayerIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
