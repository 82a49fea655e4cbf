// Package main provides the Flowsmith API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/flowsmith/flowsmith/pkg/services"
	"github.com/flowsmith/flowsmith/pkg/web"
)

type API struct {
	logger   *slog.Logger
	sessions *services.Manager
	validate *validator.Validate
}

func NewAPI(logger *slog.Logger, sessions *services.Manager) *API {
	return &API{
		logger:   logger,
		sessions: sessions,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.sessions, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Flowsmith API")
	})

	s := app.Group("/sessions")
	s.Post("/", handlers.CreateSession)
	s.Delete("/:id", handlers.DeleteSession)
	s.Post("/:id/reset", handlers.ResetSession)
	s.Get("/:id/events", handlers.GetEvents)

	// Form endpoints:
	s.Get("/:id/step", handlers.GetStep)
	s.Put("/:id/fields/:name", handlers.ChangeField)
	s.Post("/:id/fields/:name/blur", handlers.BlurField)
	s.Post("/:id/complete", handlers.CompleteStep)
	s.Post("/:id/next", handlers.NextStep)
	s.Post("/:id/previous", handlers.PreviousStep)
	s.Post("/:id/goto", handlers.GoToStep)
	s.Post("/:id/submit", handlers.Submit)

	// Graph endpoints:
	s.Post("/:id/intent", handlers.CompileIntent)
	s.Get("/:id/canvas", handlers.GetCanvas)
	s.Post("/:id/canvas/interactions", handlers.CanvasInteraction)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
