package main

import (
	"log"

	"github.com/miroshx/task-tracker/internal/auth"
	"github.com/miroshx/task-tracker/internal/config"
	"github.com/miroshx/task-tracker/internal/database"
	"github.com/miroshx/task-tracker/internal/handlers"
	"github.com/miroshx/task-tracker/internal/routes"
)

func main() {
	cfg := config.Load()

	auth.Configure(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	handlers.TokenTTL = cfg.TokenTTL
	handlers.ListCacheTTL = cfg.ListCacheTTL

	// Init database
	database.InitDB(cfg.DBPath)

	// Setup the routes (public and protected routes)
	ginRoutes := routes.SetupRoutes()

	port := ":" + cfg.Port
	log.Printf("Server starting on port %s", port)
	log.Println("API endpoints:")
	log.Println("  POST   /api/users/register")
	log.Println("  POST   /api/users/login")
	log.Println("  POST   /api/users/logout")
	log.Println("  GET    /api/users")
	log.Println("  POST   /api/users/password")
	log.Println("  POST   /api/users/:id/role")
	log.Println("  POST   /api/users/:id/username")
	log.Println("  POST   /api/tasks")
	log.Println("  POST   /api/tasks/:id/children")
	log.Println("  GET    /api/tasks")
	log.Println("  GET    /api/tasks/:id")
	log.Println("  GET    /api/tasks/:id/history")
	log.Println("  GET    /api/tasks/search")
	log.Println("  PUT    /api/tasks/:id")
	log.Println("  PATCH  /api/tasks/:id/next-status")
	log.Println("  DELETE /api/tasks/:id")
	log.Println("  GET    /health")

	if err := ginRoutes.Run(port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
