package main

import (
	"fmt"
	"log"

	"mafia/backend/internal/config"
	"mafia/backend/internal/database"
	"mafia/backend/internal/handler"
	"mafia/backend/internal/hub"
	"mafia/backend/internal/service"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "mafia/backend/docs" // Registers the API description with swag

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Mafia API
// @version         1.0
// @description     Rooms, roles and game actions for the Mafia party game.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.AppConfig

	// Connect to the database
	db, err := database.Connect(cfg.DatabaseURL, database.Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	if err := database.SeedAchievements(db); err != nil {
		log.Fatalf("Failed to seed achievements: %v", err)
	}

	if cfg.JWTSecret == "" {
		log.Println("Warning: JWT_SECRET is not set, logins will not issue tokens")
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN is not set, Telegram login is disabled")
	}

	events := hub.NewHub()
	svc := service.New(db, service.Options{
		TelegramBotToken: cfg.TelegramBotToken,
		Publisher:        events,
	})

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handler.New(svc, events, cfg.JWTSecret).RegisterRoutes(router)

	fmt.Printf("Server is running on :%s\n", cfg.Port)
	fmt.Printf("Swagger UI is available at http://localhost:%s/swagger/index.html\n", cfg.Port)
	log.Fatal(router.Run(":" + cfg.Port))
}
