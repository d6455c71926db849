// Package api is the driving adapter that exposes the task REST API over
// Fiber.
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"

	"github.com/example/task-manager/config"
	"github.com/example/task-manager/i18n"
	"github.com/example/task-manager/modules/task"
)

// APIModule serves the HTTP API and reaches the task module through its
// request-reply services.
type APIModule struct {
	app      *fiber.App
	tasks    task.TaskClient
	cfg      config.HTTPConfig
	debug    bool
	catalog  *i18n.Catalog
	activity ActivityFeed
	checks   map[string]HealthChecker
	logger   types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule. activity may be nil.
func NewModule(cfg *config.Config, catalog *i18n.Catalog, activity ActivityFeed, logger types.Logger) *APIModule {
	return &APIModule{
		cfg:      cfg.HTTP,
		debug:    cfg.App.Debug,
		catalog:  catalog,
		activity: activity,
		checks:   make(map[string]HealthChecker),
		logger:   logger,
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"task"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "task":
		m.tasks = task.NewTaskAdapter(container)
	}
}

// AddHealthCheck reports checker's status under name on GET /health.
// It must be called before Start.
func (m *APIModule) AddHealthCheck(name string, checker HealthChecker) {
	m.checks[name] = checker
}

// Start builds the router and starts listening.
func (m *APIModule) Start(_ context.Context) error {
	if m.tasks == nil {
		return fmt.Errorf("task adapter dependency not set")
	}

	health := map[string]HealthChecker{
		"api":  m,
		"task": m.tasks,
	}
	for name, checker := range m.checks {
		health[name] = checker
	}

	m.app = NewRouter(RouterConfig{
		Tasks:          m.tasks,
		Activity:       m.activity,
		Health:         health,
		Catalog:        m.catalog,
		Logger:         m.logger,
		Debug:          m.debug,
		AllowedOrigins: m.cfg.AllowedOrigins,
		BodyLimit:      m.cfg.BodyLimit,
		AccessLog:      m.cfg.AccessLog,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := m.app.Listen(m.cfg.Addr); err != nil {
			errCh <- err
		}
	}()

	// Catch immediate startup errors such as a port already in use.
	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
	}

	m.logger.Info("HTTP server started", "addr", m.cfg.Addr, "debug", m.debug)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (m *APIModule) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	if err := m.app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	m.logger.Info("HTTP server stopped")
	return nil
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	if m.app == nil {
		return mono.HealthStatus{Healthy: false, Message: "server not started"}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"addr":    m.cfg.Addr,
			"locales": m.catalog.Supported(),
		},
	}
}
