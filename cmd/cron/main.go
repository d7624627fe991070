// Command cron runs the scheduled inventory tasks: syncing low-stock items to
// Google Tasks and reporting items that have gone unchecked for over a week.
// Designed to be run daily, e.g.:
//
//	0 0 * * * /usr/local/bin/inventera-cron >> /var/log/inventera-cron.log 2>&1
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"inventera/internal/database"
	"inventera/internal/gtasks"
	"inventera/internal/oauth"
	"inventera/internal/repository"
	"inventera/internal/service"

	_ "github.com/joho/godotenv/autoload"
)

var rootCmd = &cobra.Command{
	Use:   "inventera-cron",
	Short: "Run the scheduled inventory tasks",
	Long: `Runs the scheduled inventory tasks: synchronize low-stock items to
Google Tasks and check for items that have not been verified in over 7 days.

Without a subcommand both tasks run in order.`,
	Run: func(cmd *cobra.Command, args []string) {
		syncSvc, cleanup := buildServices()
		defer cleanup()
		runSync(cmd.Context(), syncSvc)
		runStaleCheck(cmd.Context(), syncSvc)
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync low-stock items to Google Tasks",
	Run: func(cmd *cobra.Command, args []string) {
		syncSvc, cleanup := buildServices()
		defer cleanup()
		runSync(cmd.Context(), syncSvc)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report items not checked in over 7 days",
	Run: func(cmd *cobra.Command, args []string) {
		syncSvc, cleanup := buildServices()
		defer cleanup()
		runStaleCheck(cmd.Context(), syncSvc)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(checkCmd)
}

func buildServices() (service.SyncService, func()) {
	dbService := database.New()
	gormDB := dbService.GetDB()

	itemRepo := repository.NewGormItemRepository(gormDB)
	settingsRepo := repository.NewGormSettingsRepository(gormDB)
	mappingRepo := repository.NewGormMappingRepository(gormDB)

	oauthManager := oauth.NewGoogle(settingsRepo, os.Getenv("OAUTH_REDIRECT_URL"))
	tasksClient := gtasks.NewClient(oauthManager)

	syncSvc := service.NewSyncService(itemRepo, mappingRepo, settingsRepo, tasksClient)

	cleanup := func() {
		if err := dbService.Close(); err != nil {
			log.Printf("Error closing database connection pool: %v", err)
		}
	}
	return syncSvc, cleanup
}

func runSync(ctx context.Context, syncSvc service.SyncService) {
	log.Println("Syncing low inventory items to Google Tasks...")
	synced, errs := syncSvc.SyncLowStock(ctx)

	log.Printf("Synced %d items to Google Tasks", synced)
	for _, msg := range errs {
		log.Printf("Error during sync: %s", msg)
	}
}

func runStaleCheck(ctx context.Context, syncSvc service.SyncService) {
	log.Println("Checking for old items...")
	staleItems, err := syncSvc.StaleItems(ctx)
	if err != nil {
		log.Printf("Error checking old items: %v", err)
		return
	}

	if len(staleItems) == 0 {
		log.Println("No old items found.")
		return
	}

	log.Printf("Found %d items not checked in over 7 days:", len(staleItems))
	now := time.Now()
	for _, item := range staleItems {
		days := "Never"
		if item.LastChecked != nil {
			days = fmt.Sprintf("%d days ago", int(now.Sub(*item.LastChecked).Hours()/24))
		}
		log.Printf("- %s (Category: %s) - Last checked: %s", item.Name, item.Category, days)
	}
}

func main() {
	log.SetOutput(os.Stdout)
	log.Printf("Starting cron tasks at %s", time.Now().Format("2006-01-02 15:04:05"))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log.Printf("Cron tasks completed at %s", time.Now().Format("2006-01-02 15:04:05"))
}
