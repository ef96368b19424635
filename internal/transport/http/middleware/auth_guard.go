package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-product-catalog/internal/core/auth"
)

// HeaderToken is the legacy session header. Existing clients send the raw
// JWT in it; a standard Authorization bearer header is accepted as well.
const HeaderToken = "token"

const principalKey = "principal"

const unauthorizedMessage = "User unauthorized!"

// AuthGuard verifies the session token and attaches the principal to the
// context. Missing, malformed, expired or badly signed tokens all
// short-circuit with 401 before the handler runs.
func AuthGuard(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderToken)
		if raw == "" {
			if ah := c.GetHeader("Authorization"); strings.HasPrefix(ah, "Bearer ") {
				raw = strings.TrimPrefix(ah, "Bearer ")
			}
		}
		if raw == "" {
			abortError(c, http.StatusUnauthorized, unauthorizedMessage)
			return
		}
		claims, err := j.Parse(raw)
		if err != nil {
			abortError(c, http.StatusUnauthorized, unauthorizedMessage)
			return
		}
		c.Set(principalKey, claims)
		c.Next()
	}
}

// Principal returns the identity the guard attached for this request.
func Principal(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
