package controllers

import (
	"fmt"
	"net/http"

	"slab-app/config"
	"slab-app/controllers/helpers"
	"slab-app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ShortageController struct {
	DB   *gorm.DB
	Svc  *services.ShortageService
	Rdos *services.RdoService
}

func NewShortageController(db *gorm.DB, cfg config.EngineConfig) *ShortageController {
	thresholds := services.NewThresholdService(db, cfg)
	return &ShortageController{
		DB:   db,
		Svc:  services.NewShortageService(db, thresholds),
		Rdos: services.NewRdoService(db),
	}
}

func (c *ShortageController) GetShortages(ctx *fiber.Ctx) error {
	items, err := c.Svc.Detect()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{"shortages": items}})
}

// StageRdos creates drafts for the current shortage list.
func (c *ShortageController) StageRdos(ctx *fiber.Ctx) error {
	items, err := c.Svc.Detect()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	staged, err := c.Rdos.StageShortages(items, helpers.ActingUser(ctx))
	if err != nil {
		return helpers.ServiceError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("%d RDO staged", len(staged)),
		"data":    staged,
	})
}

// ExportExcel streams the shortage list as an xlsx workbook.
func (c *ShortageController) ExportExcel(ctx *fiber.Ctx) error {
	items, err := c.Svc.Detect()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	headers := []string{"Material", "Type", "Thickness", "Dim X", "Dim Y", "Producer", "Stock", "Threshold", "Suggested Qty"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, item := range items {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), item.Material)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), item.Type)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), item.Thickness)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), item.DimX)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), item.DimY)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), item.Producer)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), item.Stock)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), item.Threshold)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), item.SuggestedQty)
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="shortages.xlsx"`)

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return ctx.Status(http.StatusInternalServerError).SendString("Failed to generate Excel")
	}
	return nil
}
