package middleware

import (
	"context"
	"errors"

	"github.com/codermanagement/task-tracker/internal/constants"
	apierrors "github.com/codermanagement/task-tracker/internal/errors"
	"github.com/codermanagement/task-tracker/internal/models"
	"github.com/codermanagement/task-tracker/internal/services"
	"github.com/gin-gonic/gin"
)

const contextKeyUser = "user"

// UserFinder loads a visible user by id
type UserFinder interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// RequireUser loads the visible user named by the path id into the context.
// Must run after RequireObjectID.
func RequireUser(users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.GetUser(c.Request.Context(), c.Param(constants.ParamID))
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				apierrors.NotFound(c, "User not found")
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(contextKeyUser, user)
		c.Next()
	}
}

// GetUser retrieves the user stored by RequireUser
func GetUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(contextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
