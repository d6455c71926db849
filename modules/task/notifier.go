package task

import (
	"time"

	"github.com/go-monolith/mono"

	domain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/events"
)

// Notifier announces task mutations. Failures never fail the mutation.
type Notifier interface {
	TaskCreated(t *domain.Task) error
	TaskUpdated(t *domain.Task, fields []string) error
	TaskStatusToggled(t *domain.Task) error
	TaskDeleted(t *domain.Task) error
}

// busNotifier publishes typed events on the mono event bus.
type busNotifier struct {
	bus mono.EventBus
}

func newBusNotifier(bus mono.EventBus) Notifier {
	return &busNotifier{bus: bus}
}

func (n *busNotifier) TaskCreated(t *domain.Task) error {
	return events.TaskCreatedV1.Publish(n.bus, events.TaskCreatedEvent{
		TaskID:    t.ID,
		Title:     t.Title,
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
	}, nil)
}

func (n *busNotifier) TaskUpdated(t *domain.Task, fields []string) error {
	return events.TaskUpdatedV1.Publish(n.bus, events.TaskUpdatedEvent{
		TaskID:    t.ID,
		Title:     t.Title,
		Status:    string(t.Status),
		Fields:    fields,
		UpdatedAt: t.UpdatedAt,
	}, nil)
}

func (n *busNotifier) TaskStatusToggled(t *domain.Task) error {
	return events.TaskStatusToggledV1.Publish(n.bus, events.TaskStatusToggledEvent{
		TaskID:    t.ID,
		Title:     t.Title,
		Status:    string(t.Status),
		UpdatedAt: t.UpdatedAt,
	}, nil)
}

func (n *busNotifier) TaskDeleted(t *domain.Task) error {
	return events.TaskDeletedV1.Publish(n.bus, events.TaskDeletedEvent{
		TaskID:    t.ID,
		Title:     t.Title,
		DeletedAt: time.Now().UTC(),
	}, nil)
}

type nopNotifier struct{}

func (nopNotifier) TaskCreated(*domain.Task) error           { return nil }
func (nopNotifier) TaskUpdated(*domain.Task, []string) error { return nil }
func (nopNotifier) TaskStatusToggled(*domain.Task) error     { return nil }
func (nopNotifier) TaskDeleted(*domain.Task) error           { return nil }
