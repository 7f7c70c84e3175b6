package app

import (
	"fmt"
	"log"
	"os"

	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"github.com/learnsphere/academy-api/api"
	"github.com/learnsphere/academy-api/config"
	"github.com/learnsphere/academy-api/database"
	"github.com/learnsphere/academy-api/router"
	"github.com/learnsphere/academy-api/services/cron"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	env, err := config.Get()
	if err != nil {
		return err
	}

	// Pick the storage backend: PostgreSQL when real credentials are
	// configured, otherwise the file-backed local demo store.
	store, err := database.SelectStore(env)
	if err != nil {
		if env.UseRemoteStore() {
			print("Check whether the Postgres is running or not\n")
			print("If not running, run the following command:\n")
			print("  make docker-up   (for Docker setup)\n")
			print("  make db-up       (for local PostgreSQL)\n")
		}
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize storage backend\n")
		return err
	}

	// Seed the course catalog on the remote backend. The local store ships
	// with the catalog built in.
	if db, ok := store.GetDB().(*gorm.DB); ok {
		if err := database.RunSeeds(db); err != nil {
			log.Printf("Warning: Failed to seed course catalog: %v", err)
		}
	}

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" { // Default to enabled
		cronManager = cron.NewCronManager(store)
		if err := cronManager.Start(); err != nil {
			print("Warning: Failed to start cron jobs\n")
			print("Error: ", err.Error(), "\n")
			// Don't fail the app, just log the warning
		}
	}

	// Defer Closing DB and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", env.PORT))
	app := server.GetEngine()

	// Attach Middleware
	app.Use(logger.New())

	app.Use(recover.New())

	// Setup Routes
	router.SetupRoutes(app, store, env)

	// Get the PORT & Start the Server
	return server.Run()

}
