package rest

import (
	"github.com/ChiaveLabs/chiave/internal/interface/rest/handlers"
	"github.com/gin-gonic/gin"
)

// CallerMiddleware lifts the authenticated caller identity from the request
// into the handler context. Authentication itself happens upstream (reverse
// proxy or gateway); the daemon only ever compares identities by equality.
func CallerMiddleware(header string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if caller := c.GetHeader(header); len(caller) > 0 {
			c.Set(handlers.CallerKey, caller)
		}
		c.Next()
	}
}
