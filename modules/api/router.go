package api

import (
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/task-manager/i18n"
	"github.com/example/task-manager/modules/task"
)

// RouterConfig holds everything the HTTP surface needs.
type RouterConfig struct {
	Tasks    task.TaskPort
	Activity ActivityFeed
	Health   map[string]HealthChecker
	Catalog  *i18n.Catalog
	Logger   types.Logger

	// Debug exposes internal error messages and traces in 500 responses.
	Debug          bool
	AllowedOrigins string
	BodyLimit      int
	AccessLog      bool
}

// NewRouter builds the Fiber application serving the task API.
// Activity and Health are optional.
func NewRouter(cfg RouterConfig) *fiber.App {
	h := &Handlers{
		tasks:    cfg.Tasks,
		activity: cfg.Activity,
		health:   cfg.Health,
		catalog:  cfg.Catalog,
		logger:   cfg.Logger,
		debug:    cfg.Debug,
	}
	if cfg.AllowedOrigins == "" {
		cfg.AllowedOrigins = "*"
	}

	app := fiber.New(fiber.Config{
		AppName:               "Task Manager",
		DisableStartupMessage: true,
		BodyLimit:             cfg.BodyLimit,
		ErrorHandler:          h.errorHandler,
	})

	app.Use(recover.New())
	if cfg.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} ${method} ${path} ${latency}\n",
		}))
	}
	// Preflight is answered before cors sees it: cors replies 204 and the
	// API promises 200 with a JSON content type. It is middleware and not an
	// Options("/*") route because any registered route for a path makes
	// Fiber answer other methods on unknown paths with 405 instead of 404.
	app.Use(PreflightMiddleware(cfg.AllowedOrigins))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: corsMethods,
		AllowHeaders: corsHeaders,
	}))
	app.Use(LocaleMiddleware(cfg.Catalog))

	if len(cfg.Health) > 0 {
		app.Get("/health", h.HealthCheck)
	}

	api := app.Group("/api")

	api.Get("/tasks", h.ListTasks)
	api.Post("/tasks", h.CreateTask)
	api.Get("/tasks/:id<int>", h.GetTask)
	api.Put("/tasks/:id<int>", h.UpdateTask)
	api.Delete("/tasks/:id<int>", h.DeleteTask)
	api.Patch("/tasks/:id<int>/status", h.ToggleTaskStatus)

	if cfg.Activity != nil {
		api.Get("/activity", h.ListActivity)
	}

	return app
}
