package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/gorm"

	"github.com/example/task-manager/config"
	"github.com/example/task-manager/events"
	"github.com/example/task-manager/i18n"
)

// TaskModule owns the tasks table and exposes task operations as
// request-reply services.
type TaskModule struct {
	db       *gorm.DB
	repo     *Repository
	service  *Service
	cfg      config.DatabaseConfig
	catalog  *i18n.Catalog
	cache    Cache
	eventBus mono.EventBus
	logger   types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)
var _ mono.EventEmitterModule = (*TaskModule)(nil)

// NewModule creates a TaskModule. cache may be nil to disable caching.
func NewModule(cfg config.DatabaseConfig, catalog *i18n.Catalog, cache Cache, logger types.Logger) *TaskModule {
	return &TaskModule{
		cfg:     cfg,
		catalog: catalog,
		cache:   cache,
		logger:  logger,
	}
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "task"
}

// SetEventBus receives the framework event bus.
func (m *TaskModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module publishes.
func (m *TaskModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskUpdatedV1.ToBase(),
		events.TaskStatusToggledV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceList, json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceList, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceGet, json.Unmarshal, json.Marshal, m.getTask,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceGet, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceCreate, json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceCreate, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceUpdate, json.Unmarshal, json.Marshal, m.updateTask,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceUpdate, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceDelete, json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceDelete, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceToggleStatus, json.Unmarshal, json.Marshal, m.toggleTaskStatus,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceToggleStatus, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceHealth, json.Unmarshal, json.Marshal, m.health,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceHealth, err)
	}

	m.logger.Info("Registered services",
		"services", []string{ServiceList, ServiceGet, ServiceCreate, ServiceUpdate, ServiceDelete, ServiceToggleStatus, ServiceHealth})
	return nil
}

// Start opens the database, runs migrations, seeds sample tasks when
// configured and builds the service.
func (m *TaskModule) Start(ctx context.Context) error {
	db, err := OpenDatabase(m.cfg)
	if err != nil {
		return err
	}
	m.db = db
	m.repo = NewRepository(db)

	if err := m.repo.Migrate(); err != nil {
		return err
	}

	seeded, err := m.repo.SeedSampleTasks(ctx, m.cfg.Seed, time.Now().UTC().Truncate(time.Microsecond))
	if err != nil {
		return err
	}
	if seeded > 0 {
		m.logger.Info("Seeded sample tasks", "count", seeded)
	}

	var notifier Notifier = nopNotifier{}
	if m.eventBus != nil {
		notifier = newBusNotifier(m.eventBus)
	} else {
		m.logger.Warn("Event bus not set, task events will not be published")
	}

	m.service = NewService(m.repo, m.catalog, m.logger,
		WithCache(m.cache),
		WithNotifier(notifier),
	)

	m.logger.Info("Module started",
		"driver", m.cfg.Driver,
		"cache", m.cache != nil)
	return nil
}

// Stop closes the database connection.
func (m *TaskModule) Stop(_ context.Context) error {
	if m.db == nil {
		return nil
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	m.logger.Info("Database connection closed")
	return nil
}

// Health pings the database.
func (m *TaskModule) Health(ctx context.Context) mono.HealthStatus {
	if m.repo == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	if err := m.repo.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	details := map[string]any{"driver": m.cfg.Driver}
	if m.cfg.Driver == config.DriverSQLite {
		details["path"] = m.cfg.Path
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}
