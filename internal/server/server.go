package server

import (
	"context"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"partnerlab-agent-be/internal/bootstrap"
	"partnerlab-agent-be/internal/config"
	"partnerlab-agent-be/internal/pkg/serverutils"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:             1 * 1024 * 1024,
		DisableStartupMessage: cfg.IsProduction(),
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.App.CorsAllowedOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept",
		AllowMethods:  "GET, POST, PUT, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Type",
	}))

	// Traces every HTTP request; a no-op when no provider is installed.
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware(container.Logger))

	app.Get("/health", healthHandler(container))
	app.Get("/metrics", adaptor.HTTPHandler(container.Metrics.Handler()))

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.container.Logger.Info("HTTP", "Server is running", map[string]interface{}{"port": s.cfg.App.Port})
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	c.LabRequestController.RegisterRoutes(api)
}

func healthHandler(c *bootstrap.Container) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		status := fiber.Map{"status": "ok"}

		if c.DB != nil {
			sqlDB, err := c.DB.DB()
			if err == nil {
				pingCtx, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
				err = sqlDB.PingContext(pingCtx)
				cancel()
			}
			if err != nil {
				status["status"] = "degraded"
				status["database"] = err.Error()
				return ctx.Status(fiber.StatusServiceUnavailable).JSON(status)
			}
		}

		if n, err := c.SessionManager.Count(ctx.UserContext()); err == nil {
			status["active_sessions"] = n
		}
		return ctx.JSON(status)
	}
}
