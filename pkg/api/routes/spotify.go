package routes

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/relay/pkg/app"
	"github.com/travigo/relay/pkg/spotify"
)

func SpotifyRouter(router fiber.Router, application *app.App) {
	versionRoutes(router)

	router.Get("/v1/auth/login", spotifyLogin(application))
	router.Get("/v1/auth/callback", spotifyCallback(application))
	router.Get("/v1/get/tracks/:playlistId", getPlaylistTracks(application))
	router.Get("/v1/playlist/create", createPlaylist(application))
	router.Post("/v1/playlist/insert/:playlistId", insertTracks(application))
	router.Post("/v1/playlist/remove/:playlistId", removeTracks(application))
}

func spotifyLogin(application *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		target, err := application.Spotify.LoginURL()
		if err != nil {
			return sendError(c, err)
		}

		return c.Redirect(target, fiber.StatusFound)
	}
}

func spotifyCallback(application *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		message, err := application.Spotify.Callback(c.UserContext(), c.Query("state"), c.Query("code"))
		if err != nil {
			return sendError(c, err)
		}

		return c.JSON(fiber.Map{
			"message": message,
		})
	}
}

func getPlaylistTracks(application *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uris, err := application.Spotify.PlaylistTrackURIs(c.UserContext(), c.Params("playlistId"))
		if err != nil {
			return sendError(c, err)
		}

		return c.JSON(uris)
	}
}

func createPlaylist(application *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		playlist, err := application.Spotify.CreatePlaylist(c.UserContext())
		if err != nil {
			return sendError(c, err)
		}

		return c.JSON(playlist)
	}
}

func insertTracks(application *app.App) fiber.Handler {
	return updateTracks(application.Spotify.InsertTracks)
}

func removeTracks(application *app.App) fiber.Handler {
	return updateTracks(application.Spotify.RemoveTracks)
}

func updateTracks(update func(ctx context.Context, playlistID string, request *spotify.TrackURIsRequest) (*spotify.TrackUpdate, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var request spotify.TrackURIsRequest
		if err := c.BodyParser(&request); err != nil {
			c.Status(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"message": "Body must be a JSON object with a uris list",
			})
		}

		result, err := update(c.UserContext(), c.Params("playlistId"), &request)
		if err != nil {
			return sendError(c, err)
		}

		c.Status(result.Status)
		return c.JSON(fiber.Map{
			"message": result.Message,
		})
	}
}
