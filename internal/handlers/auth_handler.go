package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/miroshx/task-tracker/internal/auth"
	"github.com/miroshx/task-tracker/internal/database"
	"github.com/miroshx/task-tracker/internal/middleware"
	"github.com/miroshx/task-tracker/internal/models"
	"github.com/miroshx/task-tracker/internal/repository"

	"github.com/gin-gonic/gin"
)

// TokenTTL is the lifetime of issued tokens and their cookie.
// Overridden from config at startup.
var TokenTTL = 24 * time.Hour

func userRepo() *repository.UserRepository {
	return repository.NewUserRepository(database.GetDB())
}

// CredentialsRequest is the register/login payload
type CredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/users/register.
// New users start without a role; a manager assigns one later.
func Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user, err := userRepo().Create(req.Username, hashed)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       user.ID,
		"username": user.Username,
	})
}

// Login handles POST /api/users/login.
// On success the token is set as an httponly cookie and also returned in the
// body for non-browser clients.
func Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	user, err := userRepo().GetByUsername(req.Username)
	if err != nil || !auth.VerifyPassword(user.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Username, TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.SetCookie("access_token", token, int(TokenTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"user_id":  user.ID,
		"username": user.Username,
	})
}

// Logout handles POST /api/users/logout by expiring the cookie.
func Logout(c *gin.Context) {
	c.SetCookie("access_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// ChangeRoleRequest carries the new role for a user
type ChangeRoleRequest struct {
	Role models.UserRole `json:"role" binding:"required"`
}

// ChangeRole handles POST /api/users/:id/role (manager only).
func ChangeRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role is required"})
		return
	}
	if !models.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
		return
	}

	if err := userRepo().UpdateRole(id, req.Role); err != nil {
		writeRepoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role updated"})
}

// ChangeUsernameRequest carries the new username for a user
type ChangeUsernameRequest struct {
	Username string `json:"username" binding:"required"`
}

// ChangeUsername handles POST /api/users/:id/username (manager only).
func ChangeUsername(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req ChangeUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	if err := userRepo().UpdateUsername(id, req.Username); err != nil {
		writeRepoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Username updated"})
}

// ChangePasswordRequest carries the current and new password
type ChangePasswordRequest struct {
	Password    string `json:"password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword handles POST /api/users/password.
// The current password must verify against the stored hash.
func ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password and new_password are required"})
		return
	}

	user := middleware.CurrentUser(c)
	if user == nil || !auth.VerifyPassword(user.Password, req.Password) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Current password is incorrect"})
		return
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	if err := userRepo().UpdatePassword(user.ID, hashed); err != nil {
		writeRepoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
