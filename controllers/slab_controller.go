package controllers

import (
	"errors"

	"slab-app/controllers/helpers"
	"slab-app/models"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SlabController is the minimal inventory collaborator surface: enough CRUD
// for the engine to have stock to read. Pallet handling rules live in the
// inventory application proper.
type SlabController struct {
	DB *gorm.DB
}

func NewSlabController(db *gorm.DB) *SlabController {
	return &SlabController{DB: db}
}

func (c *SlabController) GetAll(ctx *fiber.Ctx) error {
	var slabs []models.Slab
	if err := c.DB.Order("pallet, location").Find(&slabs).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{"slabs": slabs}})
}

func (c *SlabController) Create(ctx *fiber.Ctx) error {
	var input struct {
		models.ArticleKey
		Pallet   string `json:"pallet"`
		Location string `json:"location"`
		Supplier string `json:"supplier"`
		Quantity int    `json:"quantity" validate:"required,min=1"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	slab := models.Slab{
		ArticleKey: input.ArticleKey,
		Pallet:     input.Pallet,
		Location:   input.Location,
		Supplier:   input.Supplier,
		Quantity:   input.Quantity,
		CreatedBy:  helpers.ActingUser(ctx),
	}
	if err := c.DB.Create(&slab).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Slab created", "data": slab})
}

func (c *SlabController) Update(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input struct {
		Quantity *int    `json:"quantity"`
		Location *string `json:"location"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var slab models.Slab
	if err := c.DB.First(&slab, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Slab not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Quantity must be >= 0"})
		}
		slab.Quantity = *input.Quantity
	}
	if input.Location != nil {
		slab.Location = *input.Location
	}
	slab.UpdatedBy = helpers.ActingUser(ctx)

	if err := c.DB.Save(&slab).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Slab updated", "data": slab})
}

// MarkScrap flags a slab row so stock sums and candidate deduction skip it.
func (c *SlabController) MarkScrap(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var slab models.Slab
	if err := c.DB.First(&slab, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Slab not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	slab.IsScrap = true
	slab.UpdatedBy = helpers.ActingUser(ctx)
	if err := c.DB.Save(&slab).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Slab marked as scrap", "data": slab})
}
