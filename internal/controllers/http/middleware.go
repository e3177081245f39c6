package http

import (
	"log"
	"net/http"
	"strings"

	"pharmacy-service/internal/domain"
	"pharmacy-service/internal/infra/redisstore"
	"pharmacy-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	claimsKey       = "claims"
)

// RequestID tags each request with an id, reusing the caller's when it sends one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RateLimiter limits requests per client IP. Redis errors let the request through.
func RateLimiter(limiter *redisstore.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Printf("rate limiter: %v", err)
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "TooManyRequests", "message": "too many requests"})
			return
		}
		c.Next()
	}
}

func RequireAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated", "message": "Authorization header is required"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated", "message": "Invalid token format, must be 'Bearer <token>'"})
			return
		}

		claims, err := auth.ParseToken(c.Request.Context(), tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated", "message": "Invalid or expired token"})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentClaims(c).Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Unauthorized", "message": "requires role " + string(role)})
			return
		}
		c.Next()
	}
}

// currentClaims is only valid behind RequireAuth.
func currentClaims(c *gin.Context) *services.Claims {
	return c.MustGet(claimsKey).(*services.Claims)
}
