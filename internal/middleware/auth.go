package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"carelink_backend/internal/auth"
	"carelink_backend/internal/logger"
	"carelink_backend/internal/models"
)

const (
	actorIDKey   = "actorID"
	actorRoleKey = "actorRole"
)

// AuthMiddleware validates the bearer token and stores the actor
// reference in both the gin context and the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(actorIDKey, claims.ActorID)
		c.Set(actorRoleKey, claims.Role)

		ctx := logger.WithActor(c.Request.Context(), claims.ActorID, claims.Role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRoles restricts a route group to the given actor roles.
func RequireRoles(roles ...models.ActorRole) gin.HandlerFunc {
	roleSet := make(map[models.ActorRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		roleVal, exists := c.Get(actorRoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: no role"})
			return
		}

		roleStr, ok := roleVal.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: invalid role type"})
			return
		}

		if !roleSet[models.ActorRole(roleStr)] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient role"})
			return
		}

		c.Next()
	}
}

// GetActor returns the authenticated actor, or false when the request
// carries no valid identity.
func GetActor(c *gin.Context) (models.ActorRef, bool) {
	idVal, exists := c.Get(actorIDKey)
	if !exists {
		return models.ActorRef{}, false
	}
	roleVal, exists := c.Get(actorRoleKey)
	if !exists {
		return models.ActorRef{}, false
	}

	id, ok := idVal.(string)
	if !ok || id == "" {
		return models.ActorRef{}, false
	}
	roleStr, ok := roleVal.(string)
	if !ok {
		return models.ActorRef{}, false
	}

	role := models.ActorRole(roleStr)
	if !role.Valid() {
		return models.ActorRef{}, false
	}

	return models.ActorRef{ID: id, Role: role}, true
}
