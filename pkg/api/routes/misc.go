package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/relay/pkg/apperror"
)

// ClientIP prefers the address Cloudflare reports over the socket address
func ClientIP(c *fiber.Ctx) string {
	if cloudflareConnectingIP := c.Get("CF-Connecting-IP", ""); cloudflareConnectingIP != "" {
		return cloudflareConnectingIP
	}

	return c.IP()
}

func sendError(c *fiber.Ctx, err error) error {
	c.Status(apperror.StatusOf(err))
	return c.JSON(fiber.Map{
		"message": apperror.MessageOf(err),
	})
}

func NotFound(c *fiber.Ctx) error {
	c.Status(fiber.StatusNotFound)
	return c.JSON(fiber.Map{
		"message": "404 Not Found",
	})
}
