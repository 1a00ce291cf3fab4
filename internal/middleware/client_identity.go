package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scoorly/scoorly-backend/internal/response"
)

const (
	// ContextKeyClientID is the Gin context key for the resolved client identity.
	ContextKeyClientID = "client_id"

	// HeaderClientID carries the anonymous device identity. Clients generate
	// it once and reuse it so their session slots survive reconnects.
	HeaderClientID = "X-Client-ID"
)

// ResolveClientID determines which session slots a request operates on.
// Authenticated requests use the user ID so sessions follow the account
// across devices; anonymous requests fall back to the X-Client-ID header.
// Requests with neither identity are rejected.
func ResolveClientID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := GetClaims(c); claims != nil {
			c.Set(ContextKeyClientID, claims.UserID.String())
			c.Next()
			return
		}

		clientID := c.GetHeader(HeaderClientID)
		if clientID == "" {
			response.AbortFail(c, http.StatusBadRequest, response.ErrClientIDRequired)
			return
		}

		c.Set(ContextKeyClientID, clientID)
		c.Next()
	}
}

// GetClientID retrieves the resolved client identity from the Gin context.
func GetClientID(c *gin.Context) string {
	val, exists := c.Get(ContextKeyClientID)
	if !exists {
		return ""
	}
	id, ok := val.(string)
	if !ok {
		return ""
	}
	return id
}
