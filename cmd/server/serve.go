package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/todo-tracker/todo-api/internal/database"
	"github.com/todo-tracker/todo-api/internal/server"
	"github.com/todo-tracker/todo-api/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	store, err := server.NewSessionStore(cfg)
	if err != nil {
		return err
	}

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	r, err := server.NewRouter(server.Dependencies{
		DB:           db,
		SessionStore: store,
		AIService:    aiService,
	})
	if err != nil {
		return err
	}

	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
