package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yamadayuki/task-tracker-api/internal/constants"
	"github.com/yamadayuki/task-tracker-api/internal/database"
	apierrors "github.com/yamadayuki/task-tracker-api/internal/errors"
	"github.com/yamadayuki/task-tracker-api/internal/models"
	"github.com/yamadayuki/task-tracker-api/internal/policy"
)

const contextKeyPrincipal = "principal"

// RequireAuth checks if the user is authenticated via session and
// attaches the principal (user id + current role) to the context. The
// role is read from the store on every request so role changes take
// effect without re-login.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		rawUserID := session.Get(constants.ContextKeyUserID)

		if rawUserID == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		userID, ok := toUserID(rawUserID)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, userID).Error; err != nil {
			// Session references a user that no longer exists.
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(contextKeyPrincipal, policy.Principal{
			UserID: user.ID,
			Role:   user.Role,
		})
		c.Next()
	}
}

// RequireAdmin rejects non-admin principals. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, exists := GetPrincipal(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !p.IsAdmin() {
			apierrors.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetPrincipal retrieves the authenticated principal from context
func GetPrincipal(c *gin.Context) (policy.Principal, bool) {
	value, exists := c.Get(contextKeyPrincipal)
	if !exists {
		return policy.Principal{}, false
	}

	p, ok := value.(policy.Principal)
	return p, ok
}

// SetPrincipal stores a principal in the context (used for testing)
func SetPrincipal(c *gin.Context, p policy.Principal) {
	c.Set(contextKeyPrincipal, p)
}

func toUserID(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
