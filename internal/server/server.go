package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"inventera/internal/database"
	"inventera/internal/oauth"
	"inventera/internal/service"
)

type Server struct {
	port      int
	inventory service.InventoryService
	settings  service.SettingsService
	sync      service.SyncService
	oauth     *oauth.Google
	db        database.Service
}

func NewServer(
	inventory service.InventoryService,
	settings service.SettingsService,
	sync service.SyncService,
	oauthManager *oauth.Google,
	dbService database.Service,
) *http.Server {
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Printf("Warning: Invalid PORT environment variable %q. Using default 8080. Error: %v", portStr, err)
		port = 8080
	}

	appServer := &Server{
		port:      port,
		inventory: inventory,
		settings:  settings,
		sync:      sync,
		oauth:     oauthManager,
		db:        dbService,
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", appServer.port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
