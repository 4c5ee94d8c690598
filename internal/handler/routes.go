package handler

import (
	"net/http"

	"mafia/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the API under /api/v1.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	apiV1 := router.Group("/api/v1")
	apiV1.Use(auth.OptionalAuthMiddleware(h.jwtSecret))
	{
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", h.RegisterUser)
			authRoutes.POST("/login", h.LoginUser)
			authRoutes.POST("/telegram", h.TelegramLogin)
		}

		userRoutes := apiV1.Group("/users")
		{
			userRoutes.GET("/me", auth.AuthMiddleware(h.jwtSecret), h.GetMe) // Must be before /:id
			userRoutes.GET("/:id", h.GetUserByID)
			userRoutes.GET("/:id/achievements", h.GetUserAchievements)
		}

		apiV1.GET("/leaderboard", h.GetLeaderboard)

		roomRoutes := apiV1.Group("/rooms")
		{
			roomRoutes.GET("", h.ListRooms)
			roomRoutes.POST("", h.CreateRoom)
			roomRoutes.GET("/:id", h.GetRoomByID)
			roomRoutes.GET("/:id/events", h.RoomEvents)
			roomRoutes.POST("/:id/join", h.JoinRoom)
			roomRoutes.POST("/:id/bots", h.AddBot)
			roomRoutes.POST("/:id/start", h.StartGame)
			roomRoutes.POST("/:id/vote", h.Vote)
			roomRoutes.POST("/:id/actions", h.RecordAction)
		}
	}
}
