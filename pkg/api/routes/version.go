package routes

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

func APIVersion(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "API v1",
	})
}

// versionRoutes sends the bare group path to the latest version
func versionRoutes(router fiber.Router) {
	router.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(strings.TrimSuffix(c.Path(), "/")+"/v1", fiber.StatusFound)
	})
	router.Get("/v1", APIVersion)
}
