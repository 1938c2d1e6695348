package main

import (
	"os"

	"slab-app/config"
	"slab-app/controllers/idgen"
	"slab-app/database"
	"slab-app/migration"
	"slab-app/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	config.LoadConfig()
	engineCfg := config.LoadEngineConfig()

	db, err := database.Open()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to auto migrate")
	}
	// Threshold schema has its own rebuild path; failures are logged inside
	// and must not stop the server.
	migration.EnsureThresholdSchema(db, engineCfg)

	idgen.Init()

	app := fiber.New()
	config.SetupCORS(app)

	routes.SetupSlabRoutes(app, db)
	routes.SetupCatalogRoutes(app, db)
	routes.SetupThresholdRoutes(app, db, engineCfg)
	routes.SetupShortageRoutes(app, db, engineCfg)
	routes.SetupRdoRoutes(app, db)
	routes.SetupOrderRoutes(app, db, engineCfg)
	routes.SetupHistoryRoutes(app, db)

	port := config.APP_PORT
	log.Info().Str("port", port).Msg("Server listening")

	if err := app.Listen(":" + port); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
