package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	domain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/i18n"
)

// taskAdapter implements TaskPort over the task module's request-reply
// services.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a TaskClient for a dependent module.
// container is the ServiceContainer received via SetDependencyServiceContainer.
func NewTaskAdapter(container mono.ServiceContainer) TaskClient {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

var _ TaskClient = (*taskAdapter)(nil)

// localeOf forwards the caller's negotiated locale to the task module.
func localeOf(ctx context.Context) string {
	if tag, ok := i18n.LocaleFrom(ctx); ok {
		return tag.String()
	}
	return ""
}

func call[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s service call failed: %w", service, err)
	}
	return nil
}

// ListTasks lists tasks via the list service.
func (a *taskAdapter) ListTasks(ctx context.Context, q domain.ListQuery) (*domain.Page, error) {
	req := ListTasksRequest{Locale: localeOf(ctx), Query: q}
	var resp ListTasksResponse
	if err := call(ctx, a.container, ServiceList, &req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Page, nil
}

// GetTask retrieves a task via the get service.
func (a *taskAdapter) GetTask(ctx context.Context, id uint) (*domain.Task, error) {
	req := TaskIDRequest{Locale: localeOf(ctx), ID: id}
	return single(ctx, a.container, ServiceGet, &req)
}

// CreateTask creates a task via the create service.
func (a *taskAdapter) CreateTask(ctx context.Context, input map[string]any) (*domain.Task, error) {
	req := CreateTaskRequest{Locale: localeOf(ctx), Input: input}
	return single(ctx, a.container, ServiceCreate, &req)
}

// UpdateTask updates a task via the update service.
func (a *taskAdapter) UpdateTask(ctx context.Context, id uint, input map[string]any) (*domain.Task, error) {
	req := UpdateTaskRequest{Locale: localeOf(ctx), ID: id, Input: input}
	return single(ctx, a.container, ServiceUpdate, &req)
}

// DeleteTask deletes a task via the delete service.
func (a *taskAdapter) DeleteTask(ctx context.Context, id uint) error {
	req := TaskIDRequest{Locale: localeOf(ctx), ID: id}
	var resp DeleteTaskResponse
	if err := call(ctx, a.container, ServiceDelete, &req, &resp); err != nil {
		return err
	}
	if resp.Error != nil {
		return resp.Error
	}
	if !resp.Deleted {
		return fmt.Errorf("task not deleted: %d", id)
	}
	return nil
}

// ToggleTaskStatus flips a task's status via the toggle-status service.
func (a *taskAdapter) ToggleTaskStatus(ctx context.Context, id uint) (*domain.Task, error) {
	req := TaskIDRequest{Locale: localeOf(ctx), ID: id}
	return single(ctx, a.container, ServiceToggleStatus, &req)
}

// Health reports the task module's health via the health service.
func (a *taskAdapter) Health(ctx context.Context) mono.HealthStatus {
	var resp HealthResponse
	if err := call(ctx, a.container, ServiceHealth, &HealthRequest{}, &resp); err != nil {
		return mono.HealthStatus{Healthy: false, Message: err.Error()}
	}
	return resp.status()
}

func single[Req any](ctx context.Context, container mono.ServiceContainer, service string, req *Req) (*domain.Task, error) {
	var resp TaskResponse
	if err := call(ctx, container, service, req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	if resp.Task == nil {
		return nil, fmt.Errorf("%s service returned no task", service)
	}
	return resp.Task, nil
}
