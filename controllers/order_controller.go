package controllers

import (
	"net/url"

	"slab-app/config"
	"slab-app/controllers/helpers"
	"slab-app/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type OrderController struct {
	DB  *gorm.DB
	Svc *services.OrderService
	Cfg config.EngineConfig
}

func NewOrderController(db *gorm.DB, cfg config.EngineConfig) *OrderController {
	return &OrderController{DB: db, Svc: services.NewOrderService(db, cfg), Cfg: cfg}
}

// Confirm turns the draft into an immutable order and mails it out when SMTP
// is configured.
func (c *OrderController) Confirm(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	result, err := c.Svc.Confirm(int64(id), helpers.ActingUser(ctx))
	if err != nil {
		return helpers.ServiceError(ctx, err)
	}

	log.Info().
		Str("order", result.Order.OrderCode).
		Str("article", result.Order.Label()).
		Int("quantity", result.Order.TotalQty).
		Int("deliveries", len(result.Acceptances)).
		Msg("Order confirmed")

	helpers.SendOrderMail(c.Cfg, result)

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Order confirmed", "data": result})
}

// Lock back-fills the supplier/producer association once for a legacy order
// code.
func (c *OrderController) Lock(ctx *fiber.Ctx) error {
	var input struct {
		Supplier string `json:"supplier" validate:"required"`
		Producer string `json:"producer"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// Order codes contain a slash, so the path segment arrives percent-encoded.
	code, err := url.PathUnescape(ctx.Params("code"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order code"})
	}

	order, err := c.Svc.LockOrder(code, input.Supplier, input.Producer, helpers.ActingUser(ctx))
	if err != nil {
		return helpers.ServiceError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Order locked", "data": order})
}

func (c *OrderController) GetAcceptances(ctx *fiber.Ctx) error {
	views, err := c.Svc.ListAcceptances()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{"acceptances": views}})
}

// Receive books a partial delivery against an acceptance record.
func (c *OrderController) Receive(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input struct {
		Quantity int    `json:"quantity" validate:"required,min=1"`
		Location string `json:"location"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := c.Svc.Receive(int64(id), input.Quantity, input.Location, helpers.ActingUser(ctx))
	if err != nil {
		return helpers.ServiceError(ctx, err)
	}

	log.Info().
		Str("order", result.Record.OrderCode).
		Int("quantity", input.Quantity).
		Bool("closed", result.Closed).
		Msg("Goods accepted")

	message := "Goods accepted"
	if result.Closed {
		message = "Goods accepted, delivery complete"
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": message, "data": result})
}
