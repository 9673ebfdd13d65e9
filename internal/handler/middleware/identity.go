package middleware

import (
	"net/http"

	"storefront/internal/handler/httperr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity is carried in headers set by the edge proxy, which has already
// authenticated the caller. This service only reads them.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	RoleAdmin    = "admin"
	RoleCustomer = "customer"

	ctxUserIDKey   = "user_id"
	ctxUserRoleKey = "user_role"
)

func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader(HeaderUserID); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				c.Set(ctxUserIDKey, id)
			}
		}
		if role := c.GetHeader(HeaderUserRole); role != "" {
			c.Set(ctxUserRoleKey, role)
		}
		c.Next()
	}
}

func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserID(c); !ok {
			httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Missing or invalid identity", nil)
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserID(c); !ok {
			httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Missing or invalid identity", nil)
			return
		}
		if role, _ := GetUserRole(c); role != RoleAdmin {
			httperr.AbortWithError(c, http.StatusForbidden, nil, "Admin role required", nil)
			return
		}
		c.Next()
	}
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ctxUserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func GetUserRole(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxUserRoleKey)
	if !exists {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}

func IsAdmin(c *gin.Context) bool {
	role, _ := GetUserRole(c)
	return role == RoleAdmin
}
