// Package schedapi implements the mock scheduling REST API. It is stateless:
// every request computes its own confirmation and nothing is stored.
package schedapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/psiazon/clinical-triage/internal/schedule"
)

const serviceName = "MockSchedulingApi"

// New builds the fiber app with all routes registered.
func New() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
	})

	app.Use(requestid.New())
	app.Use(logger.New())

	app.Get("/", handleHealth)
	app.Post("/schedule/blooddraw", handleSchedule(schedule.TestBloodDraw))
	app.Post("/schedule/xray", handleSchedule(schedule.TestXRay))
	app.Post("/schedule/mri", handleSchedule(schedule.TestMRI))

	return app
}

func handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true, "service": serviceName})
}
