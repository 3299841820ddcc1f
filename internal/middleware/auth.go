package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkstone-app/inkstone/internal/pkg/jwt"
	"github.com/inkstone-app/inkstone/internal/pkg/response"
)

// ContextKeySurface names the editing surface (web tab, agent, API token)
// that authenticated the request.
const ContextKeySurface = "surface"

// Auth returns a middleware that enforces bearer JWT authentication.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := jwt.Parse(extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeySurface, claims.Surface)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	// WebSocket-less fallback used by the web client's beforeunload beacon.
	return c.Query("token")
}
