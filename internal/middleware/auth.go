package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/Justin66666/teachersLoungeBE/pkg/apperror"
	"github.com/Justin66666/teachersLoungeBE/pkg/response"
	"github.com/Justin66666/teachersLoungeBE/pkg/token"
	"github.com/gin-gonic/gin"
)

// UserLookup resolves the account behind a token subject.
type UserLookup interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

type AuthMiddleware struct {
	tokens *token.Manager
	users  UserLookup
}

func NewAuthMiddleware(tokens *token.Manager, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		users:  users,
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	// Fallback to query parameter "token" (browsers cannot set headers on websockets)
	return c.Query("token")
}

// authenticate verifies the token and loads the caller. The role is taken from the
// database rather than the token so approvals and promotions apply immediately.
func (m *AuthMiddleware) authenticate(c *gin.Context, tokenString string) (*entity.User, error) {
	claims, err := m.tokens.Parse(tokenString)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid token")
	}

	user, err := m.users.FindByEmail(c.Request.Context(), claims.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("No user found with this email")
		}
		return nil, err
	}
	return user, nil
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized request"})
			return
		}

		user, err := m.authenticate(c, tokenString)
		if err != nil {
			response.ResponseError(c, err)
			c.Abort()
			return
		}

		c.Set(response.ContextUserEmail, user.Email)
		c.Set(response.ContextUserRole, user.Role)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets anonymous requests through.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		user, err := m.authenticate(c, tokenString)
		if err != nil {
			response.ResponseError(c, err)
			c.Abort()
			return
		}

		c.Set(response.ContextUserEmail, user.Email)
		c.Set(response.ContextUserRole, user.Role)
		c.Next()
	}
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := response.GetUserEmail(c); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized request"})
			return
		}

		if !response.IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			return
		}
		c.Next()
	}
}
