package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventera/internal/database"
	"inventera/internal/domain"
	"inventera/internal/gtasks"
	"inventera/internal/oauth"
	"inventera/internal/repository"
	"inventera/internal/server"
	"inventera/internal/service"

	_ "github.com/joho/godotenv/autoload"
)

func gracefulShutdown(apiServer *http.Server, dbService database.Service, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	if dbService != nil {
		log.Println("Closing database connection pool...")
		if err := dbService.Close(); err != nil {
			log.Printf("Error closing database connection pool: %v", err)
		}
	}

	log.Println("Server exiting")
	done <- true
}

func main() {
	dbService := database.New()
	gormDB := dbService.GetDB()

	err := gormDB.AutoMigrate(&domain.Item{}, &domain.Setting{}, &domain.CategoryTaskMapping{})
	if err != nil {
		log.Fatalf("Failed to auto-migrate database: %v", err)
	}

	itemRepo := repository.NewGormItemRepository(gormDB)
	settingsRepo := repository.NewGormSettingsRepository(gormDB)
	mappingRepo := repository.NewGormMappingRepository(gormDB)

	oauthManager := oauth.NewGoogle(settingsRepo, os.Getenv("OAUTH_REDIRECT_URL"))
	tasksClient := gtasks.NewClient(oauthManager)

	inventoryService := service.NewInventoryService(itemRepo)
	settingsService := service.NewSettingsService(mappingRepo, settingsRepo, oauthManager, tasksClient)
	syncService := service.NewSyncService(itemRepo, mappingRepo, settingsRepo, tasksClient)

	chiServer := server.NewServer(inventoryService, settingsService, syncService, oauthManager, dbService)

	done := make(chan bool, 1)
	go gracefulShutdown(chiServer, dbService, done)

	log.Printf("Starting server on %s", chiServer.Addr)
	err = chiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("HTTP server ListenAndServe error: %v", err)
	}

	<-done
	log.Println("Graceful shutdown complete.")
}
