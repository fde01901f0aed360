package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"agro-market.backend/internal/domain/entities"
	"agro-market.backend/internal/interfaces/http/response"
	"agro-market.backend/pkg/jwt"
	"agro-market.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// UserIDKey is the context key for user ID
	UserIDKey = "userId"
	// UserEmailKey is the context key for user email
	UserEmailKey = "userEmail"
	// UserRoleKey is the context key for user role
	UserRoleKey = "userRole"
	// AccessTokenKey holds the raw bearer token so logout can revoke it
	AccessTokenKey = "accessToken"
)

// RevocationChecker reports tokens that were logged out before expiry.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware validates the bearer access token. revoked may be nil.
func AuthMiddleware(jwtService *jwt.JWTService, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			logger.Warn(ctx, "Authorization header is missing", zap.String("path", c.Request.URL.Path))
			abortUnauthorized(c, "se requiere el encabezado Authorization")
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			logger.Warn(ctx, "Invalid authorization format", zap.String("path", c.Request.URL.Path))
			abortUnauthorized(c, "formato inválido, use: Bearer <token>")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			logger.Warn(ctx, "Token rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			if errors.Is(err, jwt.ErrExpiredToken) {
				abortUnauthorized(c, "el token ha expirado")
				return
			}
			abortUnauthorized(c, "token inválido")
			return
		}
		if claims.TokenType != jwt.TokenTypeAccess {
			abortUnauthorized(c, "token inválido")
			return
		}

		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(ctx, tokenString)
			if err != nil {
				logger.Error(ctx, "Token blocklist lookup failed", zap.Error(err))
				c.Abort()
				response.ErrorWithStatus(c, http.StatusInternalServerError, "internal server error")
				return
			}
			if isRevoked {
				abortUnauthorized(c, "token revocado")
				return
			}
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserRoleKey, claims.Role)
		c.Set(AccessTokenKey, tokenString)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.Abort()
	response.ErrorWithStatus(c, http.StatusUnauthorized, message)
}

// GetUserID gets the user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

// GetUserRole gets the user role from context
func GetUserRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	r, ok := role.(string)
	return r, ok
}

func GetAccessToken(c *gin.Context) string {
	return c.GetString(AccessTokenKey)
}

// RequireRole creates a middleware that requires one of roles
func RequireRole(roles ...entities.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := GetUserRole(c)
		if !exists {
			abortUnauthorized(c, "rol de usuario no encontrado")
			return
		}

		for _, role := range roles {
			if userRole == string(role) {
				c.Next()
				return
			}
		}

		c.Abort()
		response.ErrorWithStatus(c, http.StatusForbidden, "permisos insuficientes")
	}
}

// RequireAdmin creates a middleware that requires admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(entities.UserRoleAdmin)
}
