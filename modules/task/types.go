package task

import (
	"context"

	"github.com/go-monolith/mono"

	"github.com/example/task-manager/apperr"
	domain "github.com/example/task-manager/domain/task"
)

// Service names registered by the task module. The framework prefixes them
// with "services.task.".
const (
	ServiceList         = "list"
	ServiceGet          = "get"
	ServiceCreate       = "create"
	ServiceUpdate       = "update"
	ServiceDelete       = "delete"
	ServiceToggleStatus = "toggle-status"
	ServiceHealth       = "health"
)

// TaskPort is the set of task operations available to other modules.
// Errors are *apperr.Error values.
type TaskPort interface {
	ListTasks(ctx context.Context, q domain.ListQuery) (*domain.Page, error)
	GetTask(ctx context.Context, id uint) (*domain.Task, error)
	CreateTask(ctx context.Context, input map[string]any) (*domain.Task, error)
	UpdateTask(ctx context.Context, id uint, input map[string]any) (*domain.Task, error)
	DeleteTask(ctx context.Context, id uint) error
	ToggleTaskStatus(ctx context.Context, id uint) (*domain.Task, error)
}

// TaskClient is TaskPort plus the module health check, as seen from a
// dependent module.
type TaskClient interface {
	TaskPort
	Health(ctx context.Context) mono.HealthStatus
}

// ListTasksRequest is the request for the list service.
type ListTasksRequest struct {
	Locale string           `json:"locale,omitempty"`
	Query  domain.ListQuery `json:"query"`
}

// ListTasksResponse is the response for the list service.
type ListTasksResponse struct {
	Page  *domain.Page  `json:"page,omitempty"`
	Error *apperr.Error `json:"error,omitempty"`
}

// TaskIDRequest addresses a single task.
type TaskIDRequest struct {
	Locale string `json:"locale,omitempty"`
	ID     uint   `json:"id"`
}

// CreateTaskRequest carries the raw decoded request body.
type CreateTaskRequest struct {
	Locale string         `json:"locale,omitempty"`
	Input  map[string]any `json:"input"`
}

// UpdateTaskRequest carries the raw decoded request body. Keys absent from
// Input are left unchanged.
type UpdateTaskRequest struct {
	Locale string         `json:"locale,omitempty"`
	ID     uint           `json:"id"`
	Input  map[string]any `json:"input"`
}

// TaskResponse is the response for services returning a single task.
type TaskResponse struct {
	Task  *domain.Task  `json:"task,omitempty"`
	Error *apperr.Error `json:"error,omitempty"`
}

// DeleteTaskResponse is the response for the delete service.
type DeleteTaskResponse struct {
	Deleted bool          `json:"deleted"`
	Error   *apperr.Error `json:"error,omitempty"`
}

// HealthRequest is the (empty) request for the health service.
type HealthRequest struct{}

// HealthResponse mirrors mono.HealthStatus over the wire.
type HealthResponse struct {
	Healthy bool           `json:"healthy"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (r HealthResponse) status() mono.HealthStatus {
	return mono.HealthStatus{Healthy: r.Healthy, Message: r.Message, Details: r.Details}
}
