package routes

import (
	"github.com/miroshx/task-tracker/internal/database"
	"github.com/miroshx/task-tracker/internal/handlers"
	"github.com/miroshx/task-tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes() *gin.Engine {
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task tracker API is running",
		})
	})

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/users/register", handlers.Register)
		api.POST("/users/login", handlers.Login)
		api.POST("/users/logout", handlers.Logout)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.AuthMiddleware(database.GetDB()))
	{
		// Task endpoints
		protectedRoutes.POST("/tasks", handlers.CreateTask)
		protectedRoutes.POST("/tasks/:id/children", handlers.CreateChildTask)
		protectedRoutes.GET("/tasks", handlers.ListTasks)
		protectedRoutes.GET("/tasks/search", handlers.SearchTasks)
		protectedRoutes.GET("/tasks/:id", handlers.GetTaskByID)
		protectedRoutes.GET("/tasks/:id/history", handlers.GetTaskHistory)
		protectedRoutes.PUT("/tasks/:id", handlers.UpdateTask)
		protectedRoutes.PATCH("/tasks/:id/next-status", handlers.AdvanceTaskStatus)
		protectedRoutes.DELETE("/tasks/:id", middleware.RequireManager(), handlers.DeleteTask)

		// User endpoints
		protectedRoutes.GET("/users", handlers.GetAllUsers)
		protectedRoutes.POST("/users/password", handlers.ChangePassword)
		protectedRoutes.POST("/users/:id/role", middleware.RequireManager(), handlers.ChangeRole)
		protectedRoutes.POST("/users/:id/username", middleware.RequireManager(), handlers.ChangeUsername)
	}

	return ginRouter
}
