package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/shravan777666/auras-backend/config"
	"github.com/shravan777666/auras-backend/controllers"
	"github.com/shravan777666/auras-backend/models"
	"github.com/shravan777666/auras-backend/routes"
	"github.com/shravan777666/auras-backend/services"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.Salon{},
		&models.User{},
		&models.Staff{},
		&models.Service{},
		&models.QueueEntry{},
		&models.QueueCounter{},
	)
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	notifier := services.NewNotifierFromEnv()
	queueService := services.NewQueueService(config.DB, notifier)

	sessions := services.NewMemorySessionStore(5 * time.Minute)
	sessions.StartSweeper(time.Minute)
	defer sessions.StopSweeper()

	maintenance := services.NewMaintenance(config.DB)
	maintenance.Start()
	defer maintenance.Stop()

	r := routes.SetupRouter(
		controllers.NewQueueController(queueService),
		controllers.NewChatbotController(config.DB, sessions, queueService),
	)
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
