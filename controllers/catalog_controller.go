package controllers

import (
	"errors"

	"slab-app/controllers/helpers"
	"slab-app/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CatalogController maintains the curated SKU list the shortage detector
// iterates.
type CatalogController struct {
	DB *gorm.DB
}

func NewCatalogController(db *gorm.DB) *CatalogController {
	return &CatalogController{DB: db}
}

func (c *CatalogController) GetAll(ctx *fiber.Ctx) error {
	var articles []models.CatalogArticle
	if err := c.DB.Order("material, type, thickness").Find(&articles).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{"articles": articles}})
}

func (c *CatalogController) Create(ctx *fiber.Ctx) error {
	var input models.ArticleKey
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.Material == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Material is required"})
	}

	var existing models.CatalogArticle
	err := c.DB.Where("material = ? AND type = ? AND thickness = ? AND dim_x = ? AND dim_y = ? AND producer = ?",
		input.Material, input.Type, input.Thickness, input.DimX, input.DimY, input.Producer).
		Take(&existing).Error
	if err == nil {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Article already in catalog"})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	article := models.CatalogArticle{ArticleKey: input, CreatedBy: helpers.ActingUser(ctx)}
	if err := c.DB.Create(&article).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Article added to catalog", "data": article})
}

func (c *CatalogController) Delete(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var article models.CatalogArticle
	if err := c.DB.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Article not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if err := c.DB.Delete(&article).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Article removed from catalog"})
}
