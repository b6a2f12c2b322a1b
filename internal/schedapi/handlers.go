package schedapi

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/psiazon/clinical-triage/internal/schedule"
)

func handleSchedule(testType schedule.TestType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req schedule.Request
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "could not parse request body: " + err.Error(),
			})
		}

		if strings.TrimSpace(req.PatientName) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "PatientName is required",
			})
		}

		conf := newConfirmation(testType, req, time.Now().UTC())
		return c.JSON(conf)
	}
}
