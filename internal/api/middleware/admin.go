package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/woofadaar/server/internal/pkg/response"
	"github.com/woofadaar/server/internal/repository"
)

// AdminOnly rejects requests from non-admin users. Must run after Auth.
func AdminOnly(userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		user, err := userRepo.GetByID(userID)
		if err != nil {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		if !user.IsAdmin {
			response.PermissionError(c, "admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}
