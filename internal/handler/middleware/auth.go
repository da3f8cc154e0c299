package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"studio-booking/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxClientIDKey   = "client_id"
	ctxClientRoleKey = "client_role"

	RoleMember = "member"
	RoleAdmin  = "admin"
)

// AuthMiddleware reads the identity issued by the external auth service.
// This core never issues tokens, it only verifies them.
type AuthMiddleware struct {
	verifier *jwt.Verifier
}

func NewAuthMiddleware(verifier *jwt.Verifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		claims, err := m.verifier.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxClientIDKey, claims.ClientID)
		c.Set(ctxClientRoleKey, claims.Role)
		c.Set("jwt_claims", map[string]any{
			"client_id": claims.ClientID.String(),
			"role":      claims.Role,
		})
		c.Next()
	}
}

// RequireAdmin must be used after RequireAuth().
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetClientRole(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			c.Abort()
			return
		}

		if role != RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[len("Bearer "):])
}

func GetClientID(c *gin.Context) (uuid.UUID, bool) {
	clientID, exists := c.Get(ctxClientIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := clientID.(uuid.UUID)
	return id, ok
}

func GetClientRole(c *gin.Context) (string, bool) {
	clientRole, exists := c.Get(ctxClientRoleKey)
	if !exists {
		return "", false
	}

	role, ok := clientRole.(string)
	return role, ok
}
