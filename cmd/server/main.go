package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/codermanagement/task-tracker/internal/config"
	"github.com/codermanagement/task-tracker/internal/database"
	"github.com/codermanagement/task-tracker/internal/realtime"
	"github.com/codermanagement/task-tracker/internal/repository"
	"github.com/codermanagement/task-tracker/internal/routes"
	"github.com/codermanagement/task-tracker/internal/services"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	store, closeStore := initStore(cfg)
	defer closeStore()

	// Initialize AI service
	var drafter services.TaskDrafter
	if cfg.OpenAIAPIKey != "" {
		drafter = services.NewAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}

	hub := realtime.NewHub()
	router := routes.SetupRoutes(routes.Dependencies{
		TaskService: services.NewTaskService(store, drafter, hub),
		UserService: services.NewUserService(store),
		Hub:         hub,
		CORSOrigin:  cfg.CORSOrigin,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
	startServer(server, cfg)
}

// initStore connects the backend selected by DB_DRIVER and prepares its
// schema or indexes.
func initStore(cfg *config.Config) (repository.Store, func()) {
	if cfg.UsesMongo() {
		ctx := context.Background()
		client, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}

		db := client.Database(cfg.MongoDatabase)
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			log.Fatalf("Failed to create indexes: %v", err)
		}

		return repository.NewMongoStore(db), func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Printf("Failed to disconnect from mongo: %v", err)
			}
		}
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	return repository.NewGormStore(db), func() {
		if err := database.Close(db); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}
}

func startServer(server *http.Server, cfg *config.Config) {
	log.Printf("Server starting on %s", server.Addr)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
		return
	}
	log.Println("Server stopped")
}
