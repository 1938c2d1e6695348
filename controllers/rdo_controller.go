package controllers

import (
	"slab-app/controllers/helpers"
	"slab-app/models"
	"slab-app/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RdoController struct {
	DB  *gorm.DB
	Svc *services.RdoService
}

func NewRdoController(db *gorm.DB) *RdoController {
	return &RdoController{DB: db, Svc: services.NewRdoService(db)}
}

func (c *RdoController) GetAll(ctx *fiber.Ctx) error {
	rdos, err := c.Svc.List()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{"rdos": rdos}})
}

func (c *RdoController) GetByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	rdo, err := c.Svc.Get(int64(id))
	if err != nil {
		return helpers.ServiceError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": rdo})
}

func (c *RdoController) Create(ctx *fiber.Ctx) error {
	var input struct {
		models.ArticleKey
		Quantity  int      `json:"quantity" validate:"required,min=1"`
		Suppliers []string `json:"suppliers"`
		Producers []string `json:"producers"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rdo, err := c.Svc.Create(input.ArticleKey, input.Quantity, input.Suppliers, input.Producers, helpers.ActingUser(ctx))
	if err != nil {
		return helpers.ServiceError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "RDO created", "data": rdo})
}

func (c *RdoController) Update(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input services.RdoUpdate
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rdo, err := c.Svc.Update(int64(id), input, helpers.ActingUser(ctx))
	if err != nil {
		return helpers.ServiceError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "RDO updated", "data": rdo})
}

func (c *RdoController) Delete(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	if err := c.Svc.Delete(int64(id)); err != nil {
		return helpers.ServiceError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "RDO deleted"})
}
