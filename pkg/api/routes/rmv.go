package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/relay/pkg/app"
	"github.com/travigo/relay/pkg/rmv"
)

func RMVRouter(router fiber.Router, application *app.App) {
	versionRoutes(router)

	router.Get("/v1/stations/search/name", searchStationsByName(application))
	router.Get("/v1/stations/search/id/:id?", getStationByID(application))
	router.Get("/v1/trip", planTrip(application))
}

func searchStationsByName(application *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stations, err := application.Stations.FindByNameQuery(c.Query("query"))
		if errors.Is(err, rmv.ErrEmptyQuery) {
			c.Status(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"message": "No query provided",
			})
		}

		return c.JSON(stations)
	}
}

func getStationByID(application *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			c.Status(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"message": "No id provided",
			})
		}

		station, err := application.Stations.FindByID(id)
		if err != nil {
			c.Status(fiber.StatusNotFound)
			return c.JSON(fiber.Map{
				"message": "Station not found",
			})
		}

		return c.JSON(station)
	}
}

func planTrip(application *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ways, err := application.Planner.Plan(c.UserContext(), rmv.TripQuery{
			OriginID:      c.Query("originId"),
			DestinationID: c.Query("destId"),
			Time:          c.Query("time"),
			Date:          c.Query("date"),
		})
		if err != nil {
			return sendError(c, err)
		}

		return c.JSON(ways)
	}
}
