package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/smartbus/routeplanner/pkg/database"
	"github.com/smartbus/routeplanner/pkg/redis_client"
)

const Greeting = "Smart Bus Route Planner API is running"

func Root(c *fiber.Ctx) error {
	return c.SendString(Greeting)
}

// Health reports 503 while the database is down so the process can be
// recognised as degraded
func Health(c *fiber.Ctx) error {
	status := "ok"
	if !database.Connected() {
		status = "degraded"
		c.Status(fiber.StatusServiceUnavailable)
	}

	return c.JSON(fiber.Map{
		"status":    status,
		"database":  database.Status(),
		"redis":     redis_client.Status(),
		"timestamp": time.Now().UTC(),
	})
}
