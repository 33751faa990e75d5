package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/travigo/relay/pkg/api/routes"
	"github.com/travigo/relay/pkg/app"
)

func NewServer(application *app.App) *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             16 * 1024 * 1024,
		UnescapePath:          true,
		Immutable:             true,
	})
	webApp.Use(NewLogger())

	prefix := application.Config.APIRoute

	webApp.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	webApp.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(registeredRoutes(webApp))
	})

	webApp.Get(prefix, func(c *fiber.Ctx) error {
		return c.JSON(application.GroupIndex(func(name string) bool {
			return mounted(webApp, prefix+"/"+name+"/")
		}))
	})

	routes.RMVRouter(webApp.Group(prefix+"/rmv"), application)
	routes.SpotifyRouter(webApp.Group(prefix+"/spotify"), application)
	routes.FreeCodeCampRouter(webApp.Group(prefix+"/freecodecamp"), application)

	webApp.Use(routes.NotFound)

	return webApp
}

func SetupServer(listen string, application *app.App) error {
	return NewServer(application).Listen(listen)
}

type registeredRoute struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

func registeredRoutes(webApp *fiber.App) []registeredRoute {
	list := []registeredRoute{}

	for _, route := range webApp.GetRoutes(true) {
		if route.Method == fiber.MethodHead || route.Method == "USE" {
			continue
		}
		list = append(list, registeredRoute{Method: route.Method, Path: route.Path})
	}

	return list
}

func mounted(webApp *fiber.App, prefix string) bool {
	for _, route := range webApp.GetRoutes(true) {
		if strings.HasPrefix(route.Path, prefix) {
			return true
		}
	}

	return false
}
