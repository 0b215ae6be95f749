package middleware

import (
	"net/http"
	"strings"

	"github.com/miroshx/task-tracker/internal/auth"
	"github.com/miroshx/task-tracker/internal/models"
	"github.com/miroshx/task-tracker/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const userKey = "current_user"

// AuthMiddleware validates the JWT and resolves the acting user. The token
// travels in the httponly access_token cookie; a Bearer Authorization header
// works as a fallback for non-browser clients.
func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	users := repository.NewUserRepository(db)
	return func(c *gin.Context) {
		tokenString, err := c.Cookie("access_token")
		if err != nil || tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) == 2 && parts[0] == "Bearer" {
					tokenString = parts[1]
				}
			}
		}
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization token is required",
			})
			c.Abort()
			return
		}

		userID, _, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		// The token only names the user; the record (and with it the role)
		// always comes fresh from the database.
		user, err := users.GetByID(userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Unknown user",
			})
			c.Abort()
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// RequireManager aborts with 403 unless the acting user is a manager.
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.Role != models.RoleManager {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Manager role required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
