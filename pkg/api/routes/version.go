package routes

import "github.com/gofiber/fiber/v2"

const Version = "v0.1"

func APIVersion(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":    "smartbus",
		"version": Version,
	})
}
