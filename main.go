package main

import (
	"context"
	"log"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/example/task-manager/config"
	"github.com/example/task-manager/i18n"
	"github.com/example/task-manager/modules/activity"
	"github.com/example/task-manager/modules/api"
	"github.com/example/task-manager/modules/cache"
	"github.com/example/task-manager/modules/task"
)

func main() {
	log.Println("=== Task Manager ===")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	catalog, err := i18n.NewDefault(cfg.App.Locale)
	if err != nil {
		log.Fatalf("Failed to build message catalog: %v", err)
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.App.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	logger := app.Logger()

	// The Redis cache is optional; without it task reads always hit the database.
	var taskCache task.Cache
	var cacheModule *cache.Module
	if cfg.Cache.Enabled() {
		cacheModule = cache.NewModule(cfg.Cache, logger.WithModule("cache"))
		taskCache = cacheModule.Cache()
		app.Register(cacheModule)
	}

	activityModule := activity.NewModule(cfg.Activity.Limit, logger.WithModule("activity"))
	taskModule := task.NewModule(cfg.Database, catalog, taskCache, logger.WithModule("task"))
	apiModule := api.NewModule(cfg, catalog, activityModule, logger.WithModule("api"))
	if cacheModule != nil {
		apiModule.AddHealthCheck("cache", cacheModule)
	}

	// The framework wires request-reply services, the event bus and
	// dependency containers before Start.
	app.Register(activityModule)
	app.Register(taskModule)
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.App.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg *config.Config) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Printf("  Environment: %s (debug=%t)", cfg.App.Env, cfg.App.Debug)
	log.Printf("  Database:    %s", cfg.Database.Driver)
	if cfg.Cache.Enabled() {
		log.Printf("  Cache:       redis at %s (ttl %s)", cfg.Cache.RedisAddr, cfg.Cache.TTL)
	} else {
		log.Println("  Cache:       disabled")
	}
	log.Println("")
	log.Printf("HTTP API on %s:", cfg.HTTP.Addr)
	log.Println("  GET    /api/tasks              - List tasks (page, per_page, search, status)")
	log.Println("  POST   /api/tasks              - Create a task")
	log.Println("  GET    /api/tasks/:id          - Get a task")
	log.Println("  PUT    /api/tasks/:id          - Update a task")
	log.Println("  DELETE /api/tasks/:id          - Delete a task")
	log.Println("  PATCH  /api/tasks/:id/status   - Toggle Pendente/Concluido")
	log.Println("  GET    /api/activity           - Recent task events")
	log.Println("  GET    /health                 - Module health")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
