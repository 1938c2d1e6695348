package controllers

import (
	"slab-app/config"
	"slab-app/controllers/helpers"
	"slab-app/models"
	"slab-app/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ThresholdController struct {
	DB  *gorm.DB
	Svc *services.ThresholdService
}

func NewThresholdController(db *gorm.DB, cfg config.EngineConfig) *ThresholdController {
	return &ThresholdController{DB: db, Svc: services.NewThresholdService(db, cfg)}
}

func (c *ThresholdController) GetRules(ctx *fiber.Ctx) error {
	rules, err := c.Svc.ListRules()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": rules})
}

func (c *ThresholdController) ResolveRule(ctx *fiber.Ctx) error {
	key := articleKeyFromQuery(ctx)
	rule := c.Svc.GetRule(key)
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": rule})
}

func (c *ThresholdController) SetRule(ctx *fiber.Ctx) error {
	var input struct {
		models.ArticleKey
		Threshold  int `json:"threshold" validate:"min=0"`
		ReorderQty int `json:"reorder_qty"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	err := c.Svc.SetRule(input.ArticleKey, input.Threshold, input.ReorderQty, helpers.ActingUser(ctx))
	if err != nil {
		return helpers.ServiceError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Rule saved"})
}

// articleKeyFromQuery reads the six key fields from the query string, absent
// fields staying empty.
func articleKeyFromQuery(ctx *fiber.Ctx) models.ArticleKey {
	return models.ArticleKey{
		Material:  ctx.Query("material"),
		Type:      ctx.Query("type"),
		Thickness: ctx.Query("thickness"),
		DimX:      ctx.Query("dim_x"),
		DimY:      ctx.Query("dim_y"),
		Producer:  ctx.Query("producer"),
	}
}
