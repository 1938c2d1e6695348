package routes

import (
	"slab-app/config"
	"slab-app/controllers"
	"slab-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupSlabRoutes(app *fiber.App, db *gorm.DB) {
	slabController := controllers.NewSlabController(db)
	api := app.Group(config.MAIN_ROUTES+"/slabs", middleware.AuthMiddleware)

	api.Get("/", slabController.GetAll)
	api.Post("/", slabController.Create)
	api.Put("/:id", slabController.Update)
	api.Post("/:id/scrap", slabController.MarkScrap)
}

func SetupCatalogRoutes(app *fiber.App, db *gorm.DB) {
	catalogController := controllers.NewCatalogController(db)
	api := app.Group(config.MAIN_ROUTES+"/catalog", middleware.AuthMiddleware)

	api.Get("/", catalogController.GetAll)
	api.Post("/", catalogController.Create)
	api.Delete("/:id", catalogController.Delete)
}
