package auth

import (
	"net/http"
	"strings"

	"auction-engine/internal/models"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

const bidderKey = "bidder"

// Middleware attaches the bidder from a Bearer token. Requests without a
// token continue as anonymous; a malformed or expired token is rejected.
func Middleware(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// Extract token from "Bearer <token>" format
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  http.StatusUnauthorized,
				"message": "invalid authorization header format, expected: Bearer <token>",
			})
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			utils.Warn("auth: token validation failed", map[string]any{"error": err.Error()})
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  http.StatusUnauthorized,
				"message": "invalid or expired token",
				"error":   err.Error(),
			})
			return
		}

		role := claims.Role
		if role == "" {
			role = models.RoleCustomer
		}
		c.Set(bidderKey, models.Bidder{UserID: claims.UserID, Role: role})
		c.Next()
	}
}

// RequireOperator only lets staff and administrators through
func RequireOperator() gin.HandlerFunc {
	return func(c *gin.Context) {
		bidder := BidderFrom(c)
		if bidder.UserID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  http.StatusUnauthorized,
				"message": "authorization required",
			})
			return
		}
		if !bidder.Role.IsOperator() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status":  http.StatusForbidden,
				"message": "operator role required",
			})
			return
		}
		c.Next()
	}
}

// BidderFrom retrieves the caller; anonymous callers have an empty UserID
func BidderFrom(c *gin.Context) models.Bidder {
	v, exists := c.Get(bidderKey)
	if !exists {
		return models.Bidder{}
	}
	bidder, _ := v.(models.Bidder)
	return bidder
}
