// Package activity keeps a bounded in-memory feed of recent task events.
package activity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"

	"github.com/example/task-manager/events"
)

// Entry types.
const (
	TypeTaskCreated       = "task_created"
	TypeTaskUpdated       = "task_updated"
	TypeTaskStatusToggled = "task_status_toggled"
	TypeTaskDeleted       = "task_deleted"
)

// Entry is one item of the activity feed.
type Entry struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	TaskID     uint      `json:"task_id"`
	Title      string    `json:"title"`
	Status     string    `json:"status,omitempty"`
	Fields     []string  `json:"fields,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Module consumes task events and retains the newest entries.
type Module struct {
	mu      sync.RWMutex
	entries []Entry
	limit   int
	logger  types.Logger
}

var _ mono.Module = (*Module)(nil)
var _ mono.EventConsumerModule = (*Module)(nil)

// NewModule creates an activity module that keeps at most limit entries.
func NewModule(limit int, logger types.Logger) *Module {
	if limit <= 0 {
		limit = 100
	}
	return &Module{
		entries: make([]Entry, 0, limit),
		limit:   limit,
		logger:  logger,
	}
}

func (m *Module) Name() string {
	return "activity"
}

func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskStatusToggledV1, m.handleTaskStatusToggled, m); err != nil {
		return fmt.Errorf("failed to register TaskStatusToggled consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	m.logger.Info("Registered event consumers",
		"events", []string{"TaskCreated", "TaskUpdated", "TaskStatusToggled", "TaskDeleted"})
	return nil
}

func (m *Module) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.record(Entry{
		Type:       TypeTaskCreated,
		TaskID:     event.TaskID,
		Title:      event.Title,
		Status:     event.Status,
		OccurredAt: event.CreatedAt,
	})
	return nil
}

func (m *Module) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	m.record(Entry{
		Type:       TypeTaskUpdated,
		TaskID:     event.TaskID,
		Title:      event.Title,
		Status:     event.Status,
		Fields:     event.Fields,
		OccurredAt: event.UpdatedAt,
	})
	return nil
}

func (m *Module) handleTaskStatusToggled(_ context.Context, event events.TaskStatusToggledEvent, _ *mono.Msg) error {
	m.record(Entry{
		Type:       TypeTaskStatusToggled,
		TaskID:     event.TaskID,
		Title:      event.Title,
		Status:     event.Status,
		OccurredAt: event.UpdatedAt,
	})
	return nil
}

func (m *Module) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.record(Entry{
		Type:       TypeTaskDeleted,
		TaskID:     event.TaskID,
		Title:      event.Title,
		OccurredAt: event.DeletedAt,
	})
	return nil
}

// record appends e and drops the oldest entries beyond the limit.
func (m *Module) record(e Entry) {
	e.ID = uuid.NewString()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, e)
	if overflow := len(m.entries) - m.limit; overflow > 0 {
		m.entries = append(m.entries[:0], m.entries[overflow:]...)
	}
	m.logger.Debug("Activity recorded", "type", e.Type, "task_id", e.TaskID)
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns everything retained.
func (m *Module) Recent(limit int) []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	result := make([]Entry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		result = append(result, m.entries[i])
	}
	return result
}

func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Module started - listening for task events", "limit", m.limit)
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}
