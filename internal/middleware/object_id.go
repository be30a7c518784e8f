package middleware

import (
	"github.com/codermanagement/task-tracker/internal/constants"
	apierrors "github.com/codermanagement/task-tracker/internal/errors"
	"github.com/codermanagement/task-tracker/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireObjectID rejects requests whose path id is not a well-formed
// record id before they reach a handler
func RequireObjectID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param(constants.ParamID)
		if !models.IsValidID(id) {
			apierrors.InvalidID(c, "Invalid id: "+id)
			c.Abort()
			return
		}

		c.Next()
	}
}
