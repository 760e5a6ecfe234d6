package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hotelops/hotel-admin-backend/pkg/jwt"
	"github.com/sirupsen/logrus"
)

// AdminContextKey is the key used to store admin information in Gin context
const AdminContextKey = "admin"

// accessTokenQueryParam carries the token for EventSource clients, which
// cannot set headers
const accessTokenQueryParam = "access_token"

// AdminContext represents the authenticated admin's information
type AdminContext struct {
	AdminID  uuid.UUID `json:"adminId"`
	Username string    `json:"username"`
	Roles    []string  `json:"roles"`
}

func abortUnauthorized(c *gin.Context, errCode, message, code string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   errCode,
		"message": message,
		"code":    code,
	})
}

// AuthMiddleware creates a middleware that validates JWT access tokens
func AuthMiddleware(jwtService *jwt.Service, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		fields := logrus.Fields{"path": c.Request.URL.Path, "ip": c.ClientIP()}

		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		switch {
		case authHeader != "":
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.WithFields(fields).Warn("Auth failed: invalid authorization format")
				abortUnauthorized(c, "unauthorized", "Invalid authorization header format. Expected: Bearer <token>", "INVALID_AUTH_FORMAT")
				return
			}
			tokenString = strings.TrimSpace(parts[1])
			if tokenString == "" {
				logger.WithFields(fields).Warn("Auth failed: empty token")
				abortUnauthorized(c, "unauthorized", "Token cannot be empty", "INVALID_AUTH_FORMAT")
				return
			}
		case c.Query(accessTokenQueryParam) != "":
			tokenString = c.Query(accessTokenQueryParam)
		default:
			logger.WithFields(fields).Warn("Auth failed: missing authorization header")
			abortUnauthorized(c, "unauthorized", "Authorization header is required", "MISSING_AUTH_HEADER")
			return
		}

		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				logger.WithFields(fields).Info("Auth failed: token expired")
				abortUnauthorized(c, "token_expired", "Access token has expired. Please refresh your token.", "TOKEN_EXPIRED")
				return
			}
			logger.WithFields(fields).WithError(err).Warn("Auth failed: invalid token")
			abortUnauthorized(c, "invalid_token", "Invalid access token", "INVALID_TOKEN")
			return
		}

		c.Set(AdminContextKey, AdminContext{
			AdminID:  claims.AdminID,
			Username: claims.Username,
			Roles:    claims.Roles,
		})
		c.Next()
	}
}

// RequireRole creates a middleware that checks if the admin has one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminCtx, exists := GetAdminContext(c)
		if !exists {
			abortUnauthorized(c, "unauthorized", "Admin context not found. Auth middleware may not be applied.", "MISSING_ADMIN_CONTEXT")
			return
		}

		for _, required := range roles {
			for _, role := range adminCtx.Roles {
				if role == required {
					c.Next()
					return
				}
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "You don't have permission to access this resource",
			"code":    "INSUFFICIENT_PERMISSIONS",
		})
	}
}

// GetAdminContext retrieves the admin context from Gin context
func GetAdminContext(c *gin.Context) (AdminContext, bool) {
	value, exists := c.Get(AdminContextKey)
	if !exists {
		return AdminContext{}, false
	}

	adminCtx, ok := value.(AdminContext)
	if !ok {
		return AdminContext{}, false
	}

	return adminCtx, true
}
