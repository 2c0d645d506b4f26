package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"appointly/utils"
)

// JWTAuthMiddleware extracts the actor ID from the bearer token and stores it
// on the context. Lifecycle operations enforce ownership themselves; this
// layer only establishes who is calling.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		actorID, err := utils.ExtractActorFromToken(tokenString)
		if err != nil || actorID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		c.Set("actorID", actorID)
		c.Next()
	}
}
