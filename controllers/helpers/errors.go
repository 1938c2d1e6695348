package helpers

import (
	"errors"

	"slab-app/services"

	"github.com/gofiber/fiber/v2"
)

// ServiceError renders a service-layer error with the matching status code:
// validation 400, not-found 404, conflict 409, anything else 500.
func ServiceError(ctx *fiber.Ctx, err error) error {
	var (
		validation *services.ValidationError
		notFound   *services.NotFoundError
		conflict   *services.ConflictError
	)

	status := fiber.StatusInternalServerError
	switch {
	case errors.As(err, &validation):
		status = fiber.StatusBadRequest
	case errors.As(err, &notFound):
		status = fiber.StatusNotFound
	case errors.As(err, &conflict):
		status = fiber.StatusConflict
	}

	return ctx.Status(status).JSON(fiber.Map{"success": false, "error": err.Error()})
}
