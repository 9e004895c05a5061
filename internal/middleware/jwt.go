package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/boltpath-api/internal/models"
	appErrors "github.com/noah-isme/boltpath-api/pkg/errors"
	"github.com/noah-isme/boltpath-api/pkg/response"
)

// ContextTeacherKey is the gin context key storing the session claims.
const ContextTeacherKey = "currentTeacher"

// TokenValidator verifies session tokens.
type TokenValidator interface {
	ValidateToken(token string) (*models.SessionClaims, error)
}

// JWT protects routes by requiring a valid session token.
func JWT(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextTeacherKey, claims)
		c.Next()
	}
}

// CurrentTeacher returns the teacher attached by JWT.
func CurrentTeacher(c *gin.Context) (models.Teacher, bool) {
	value, exists := c.Get(ContextTeacherKey)
	if !exists {
		return models.Teacher{}, false
	}
	claims, ok := value.(*models.SessionClaims)
	if !ok || claims == nil {
		return models.Teacher{}, false
	}
	return claims.Teacher(), true
}
