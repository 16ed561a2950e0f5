package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"preneed-scheduler/internal/app"
	"preneed-scheduler/internal/config"
	"preneed-scheduler/internal/server"
)

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer pool.Close()

	appInstance, err := app.New(pool, cfg)
	if err != nil {
		log.Fatalf("app init: %v", err)
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.HTTP.AllowedOrigins},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Agent-ID"},
		AllowCredentials: true,
	}))

	// OAuth2 callback and public slot browsing sit outside the auth middleware
	router.GET("/oauth2callback", appInstance.OAuth2CallbackHandler)
	router.GET("/api/agents/availability", appInstance.AgentAvailabilityHandler)

	api := router.Group("/api")
	api.Use(appInstance.AuthMiddleware())
	{
		api.GET("/appointments/mine", appInstance.MyAppointmentsHandler)

		agent := api.Group("/agent")
		{
			agent.GET("/settings/availability", appInstance.GetSettingsHandler)
			agent.POST("/settings/availability", appInstance.SaveSettingsHandler)
			agent.POST("/events/create", appInstance.CreateEventHandler)
			agent.PUT("/events/:id", appInstance.UpdateEventHandler)
			agent.GET("/calendar", appInstance.CalendarViewHandler)
		}

		integrations := api.Group("/integrations")
		{
			integrations.GET("/:provider/connect", appInstance.ConnectIntegrationHandler)
			integrations.GET("/:provider/disconnect", appInstance.DisconnectIntegrationHandler)
		}
	}

	server.Run(router, cfg.HTTP.Port)
}
