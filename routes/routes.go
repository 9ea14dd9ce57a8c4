package routes

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/shravan777666/auras-backend/config"
	"github.com/shravan777666/auras-backend/controllers"
	"github.com/shravan777666/auras-backend/utils"
)

func SetupRouter(queue *controllers.QueueController, chatbot *controllers.ChatbotController) *gin.Engine {
	r := gin.Default()

	origins := []string{"http://localhost:3000"}
	if frontend := os.Getenv("FRONTEND_URL"); frontend != "" {
		origins = append(origins, frontend)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "ok"})
	})

	// Public queue surface: customers poll their token and check in by QR
	public := r.Group("/queue")
	{
		public.GET("/token/:tokenNumber", queue.ByToken)
		public.GET("/customer/:tokenNumber", queue.CustomerStatus)
		public.GET("/salon/:salonId", queue.SalonSnapshot)
		public.POST("/checkin", queue.CheckIn)
	}

	r.POST("/chatbot/message", chatbot.Message)

	// Salon-side queue management
	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		q := api.Group("/queue")
		{
			q.POST("/join", queue.Join)
			q.GET("/status", queue.Status)
			q.GET("", queue.List)
			q.PATCH("/status", queue.UpdateStatus)
		}
	}

	return r
}
