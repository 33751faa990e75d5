package routes

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/travigo/relay/pkg/app"
	"github.com/travigo/relay/pkg/apperror"
	"github.com/travigo/relay/pkg/freecodecamp"
)

func FreeCodeCampRouter(router fiber.Router, application *app.App) {
	versionRoutes(router)

	router.Get("/v1/timestamp/:date?", getTimestamp(application))
	router.Get("/v1/whoami", whoAmI)

	router.Get("/v1/shorturl/:url", resolveShortURL(application))
	router.Post("/v1/shorturl", createShortURL(application))

	router.Get("/v1/users", listExerciseUsers(application))
	router.Post("/v1/users", createExerciseUser(application))
	router.Post("/v1/users/:_id/exercises", addExercise(application))
	router.Get("/v1/users/:_id/logs", getExerciseLog(application))

	router.Get("/v1/file-metadata", fileUploadForm)
	router.Post("/v1/file-metadata/fileanalyse", analyseFile)
}

func sendExerciseError(c *fiber.Ctx, err error) error {
	c.Status(apperror.StatusOf(err))
	return c.JSON(fiber.Map{
		"error": apperror.MessageOf(err),
	})
}

// parseExerciseBody leaves fields empty when the body cannot be read, they are then reported as missing
func parseExerciseBody(c *fiber.Ctx, body any) {
	if err := c.BodyParser(body); err != nil {
		log.Debug().Err(err).Str("path", c.Path()).Msg("Unreadable request body")
	}
}

func getTimestamp(application *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		timestamp, err := freecodecamp.ParseTimestamp(c.Params("date"), application.Now())
		if err != nil {
			c.Status(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Invalid Date",
			})
		}

		return c.JSON(timestamp)
	}
}

func whoAmI(c *fiber.Ctx) error {
	return c.JSON(freecodecamp.WhoAmI{
		IPAddress: ClientIP(c),
		Language:  c.Get(fiber.HeaderAcceptLanguage),
		Software:  c.Get(fiber.HeaderUserAgent),
	})
}

func resolveShortURL(application *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		original, err := application.Shortener.Resolve(c.UserContext(), c.Params("url"))
		if errors.Is(err, freecodecamp.ErrShortcutNotFound) {
			return c.JSON(fiber.Map{
				"error": "Shortcut for this hashed URL not found",
			})
		} else if err != nil {
			return sendExerciseError(c, apperror.Internal("Could not read shortcut", err))
		}

		return c.Redirect(original, fiber.StatusFound)
	}
}

func createShortURL(application *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			URL string `json:"url" form:"url"`
		}
		parseExerciseBody(c, &body)

		short, err := application.Shortener.Shorten(c.UserContext(), body.URL)
		if errors.Is(err, freecodecamp.ErrInvalidURL) {
			return c.JSON(fiber.Map{
				"error": "Invalid URL",
			})
		} else if err != nil {
			return sendExerciseError(c, apperror.Internal("Could not store shortcut", err))
		}

		return c.JSON(short)
	}
}

func listExerciseUsers(application *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(application.Tracker.Users())
	}
}

func createExerciseUser(application *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Username string `json:"username" form:"username"`
		}
		parseExerciseBody(c, &body)

		user, err := application.Tracker.AddUser(body.Username)
		if err != nil {
			return sendExerciseError(c, err)
		}

		return c.JSON(user)
	}
}

func addExercise(application *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Description string `json:"description" form:"description"`
			Duration    string `json:"duration" form:"duration"`
			Date        string `json:"date" form:"date"`
		}
		parseExerciseBody(c, &body)

		result, err := application.Tracker.AddExercise(c.Params("_id"), body.Description, body.Duration, body.Date)
		if err != nil {
			return sendExerciseError(c, err)
		}

		return c.JSON(result)
	}
}

func getExerciseLog(application *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		exerciseLog, err := application.Tracker.Logs(c.Params("_id"), freecodecamp.LogFilter{
			From:  c.Query("from"),
			To:    c.Query("to"),
			Limit: c.Query("limit"),
		})
		if err != nil {
			return sendExerciseError(c, err)
		}

		return c.JSON(exerciseLog)
	}
}

func fileUploadForm(c *fiber.Ctx) error {
	c.Type("html")
	return c.SendString(freecodecamp.UploadForm(c.Path() + "/fileanalyse"))
}

func analyseFile(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("upfile")
	if err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "File is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return sendExerciseError(c, apperror.Internal("Could not read file", err))
	}
	defer file.Close()

	head := make([]byte, 3072)
	n, _ := io.ReadFull(file, head)

	return c.JSON(freecodecamp.DescribeFile(fileHeader.Filename, fileHeader.Header.Get(fiber.HeaderContentType), fileHeader.Size, head[:n]))
}
