package controllers

import (
	"fmt"
	"net/http"

	"slab-app/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type HistoryController struct {
	DB *gorm.DB
}

func NewHistoryController(db *gorm.DB) *HistoryController {
	return &HistoryController{DB: db}
}

func (c *HistoryController) GetEvents(ctx *fiber.Ctx) error {
	var filter repositories.HistoryFilter
	if err := ctx.QueryParser(&filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	events, err := repositories.NewHistoryRepository(c.DB).Query(filter)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{"events": events}})
}

// GetGrouped returns the parent/child presentation view: acceptances nested
// under the order event that placed them.
func (c *HistoryController) GetGrouped(ctx *fiber.Ctx) error {
	var filter repositories.HistoryFilter
	if err := ctx.QueryParser(&filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	events, err := repositories.NewHistoryRepository(c.DB).Query(filter)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"groups": repositories.GroupEvents(events)},
	})
}

func (c *HistoryController) ExportExcel(ctx *fiber.Ctx) error {
	var filter repositories.HistoryFilter
	if err := ctx.QueryParser(&filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	events, err := repositories.NewHistoryRepository(c.DB).Query(filter)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	headers := []string{"Date", "Event", "Order Code", "Material", "Type", "Thickness", "Dim X", "Dim Y", "Producer", "Quantity", "Supplier", "Source Producer"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, ev := range events {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), ev.CreatedAt.Format("2006-01-02 15:04"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), ev.EventType)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), ev.OrderCode)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), ev.Material)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), ev.Type)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), ev.Thickness)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), ev.DimX)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), ev.DimY)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), ev.Producer)
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), ev.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("K%d", row), ev.Supplier)
		f.SetCellValue(sheet, fmt.Sprintf("L%d", row), ev.SourceProducer)
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="history.xlsx"`)

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return ctx.Status(http.StatusInternalServerError).SendString("Failed to generate Excel")
	}
	return nil
}
