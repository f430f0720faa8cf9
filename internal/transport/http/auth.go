package httptransport

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"glitchcam-server-go/internal/domain/auth"
)

// clientIDKey is the gin context key the middleware stores the verified
// client identifier under.
const clientIDKey = "auth.client_id"

// BearerAuth returns a middleware that requires a valid bearer token on
// every request passing through it.
func BearerAuth(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			RespondError(c, http.StatusUnauthorized, "missing authorization header", nil)
			c.Abort()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			RespondError(c, http.StatusUnauthorized, "authorization header must use bearer scheme", nil)
			c.Abort()
			return
		}

		clientID, err := issuer.Verify(token)
		if err != nil {
			RespondError(c, http.StatusUnauthorized, "invalid token", nil)
			c.Abort()
			return
		}

		c.Set(clientIDKey, clientID)
		c.Next()
	}
}

// ClientID returns the verified client identifier, if any.
func ClientID(c *gin.Context) string {
	id, _ := c.Get(clientIDKey)
	s, _ := id.(string)
	return s
}
