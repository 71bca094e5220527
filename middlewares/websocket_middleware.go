package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/tauasu/booking-app/utils"
)

// WebSocketAuthMiddleware authenticates websocket upgrades via the token
// query parameter, since browsers cannot set headers on ws connections.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(401)
			return
		}

		claims, err := utils.ValidateToken(token)
		if err != nil {
			c.AbortWithStatus(401)
			return
		}

		c.Set("username", claims.Username)
		c.Set("role", claims.Role)

		c.Next()
	}
}
