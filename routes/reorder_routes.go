package routes

import (
	"slab-app/config"
	"slab-app/controllers"
	"slab-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupThresholdRoutes(app *fiber.App, db *gorm.DB, cfg config.EngineConfig) {
	thresholdController := controllers.NewThresholdController(db, cfg)
	api := app.Group(config.MAIN_ROUTES+"/thresholds", middleware.AuthMiddleware)

	api.Get("/", thresholdController.GetRules)
	api.Get("/resolve", thresholdController.ResolveRule)
	api.Post("/", thresholdController.SetRule)
}

func SetupShortageRoutes(app *fiber.App, db *gorm.DB, cfg config.EngineConfig) {
	shortageController := controllers.NewShortageController(db, cfg)
	api := app.Group(config.MAIN_ROUTES+"/shortages", middleware.AuthMiddleware)

	api.Get("/", shortageController.GetShortages)
	api.Get("/excel", shortageController.ExportExcel)
	api.Post("/rdo", shortageController.StageRdos)
}

func SetupRdoRoutes(app *fiber.App, db *gorm.DB) {
	rdoController := controllers.NewRdoController(db)
	api := app.Group(config.MAIN_ROUTES+"/rdo", middleware.AuthMiddleware)

	api.Get("/", rdoController.GetAll)
	api.Get("/:id", rdoController.GetByID)
	api.Post("/", rdoController.Create)
	api.Put("/:id", rdoController.Update)
	api.Delete("/:id", rdoController.Delete)
}

func SetupOrderRoutes(app *fiber.App, db *gorm.DB, cfg config.EngineConfig) {
	orderController := controllers.NewOrderController(db, cfg)
	api := app.Group(config.MAIN_ROUTES, middleware.AuthMiddleware)

	api.Post("/rdo/:id/confirm", orderController.Confirm)
	api.Post("/orders/:code/lock", orderController.Lock)
	api.Get("/acceptances", orderController.GetAcceptances)
	api.Post("/acceptances/:id/receive", orderController.Receive)
}

func SetupHistoryRoutes(app *fiber.App, db *gorm.DB) {
	historyController := controllers.NewHistoryController(db)
	api := app.Group(config.MAIN_ROUTES+"/history", middleware.AuthMiddleware)

	api.Get("/", historyController.GetEvents)
	api.Get("/grouped", historyController.GetGrouped)
	api.Get("/excel", historyController.ExportExcel)
}
