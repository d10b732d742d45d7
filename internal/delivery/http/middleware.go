package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lojabot/backend/internal/domain"
)

// contextUserIDKey is the gin context key holding the authenticated user ID
const contextUserIDKey = "userID"

// sessionTokenHeader carries the session token on authenticated routes
const sessionTokenHeader = "X-Session-Token"

// AuthMiddleware resolves the session token to a user identity and aborts
// with 401 when the token is missing or unknown
func AuthMiddleware(sessions domain.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(sessionTokenHeader)
		if token == "" {
			// Also accept a bearer token for API clients
			auth := c.GetHeader("Authorization")
			token = strings.TrimPrefix(auth, "Bearer ")
			if token == auth {
				token = ""
			}
		}

		userID, ok := sessions.UserID(token)
		if token == "" || !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Não autenticado"})
			return
		}

		c.Set(contextUserIDKey, userID)
		c.Next()
	}
}

// CORSMiddleware handles CORS for the store front
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if isAllowedOrigin(origin, allowedOrigins) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Session-Token")
			c.Writer.Header().Set("Access-Control-Max-Age", "3600")
		}

		// Handle preflight requests
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// isAllowedOrigin checks if the origin is in the allowed list
func isAllowedOrigin(origin string, allowedOrigins []string) bool {
	for _, allowed := range allowedOrigins {
		// Support wildcard suffix matching (e.g. https://*.example.com)
		if strings.HasSuffix(allowed, "*") {
			prefix := strings.TrimSuffix(allowed, "*")
			if strings.HasPrefix(origin, prefix) {
				return true
			}
		} else if origin == allowed {
			return true
		}
	}
	return false
}

// RequestLogger logs every request with a generated request ID
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Writer.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		log.Info().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// RecoveryMiddleware recovers from panics
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.Recovery()
}
