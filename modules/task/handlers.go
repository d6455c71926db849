package task

import (
	"context"

	"github.com/go-monolith/mono"

	"github.com/example/task-manager/apperr"
	"github.com/example/task-manager/i18n"
)

// Application errors are returned inside the response so they keep their
// kind across the transport. A non-nil Go error is reserved for failures
// of the call itself.

// replyError logs failures the caller cannot fix before they cross the
// transport.
func (m *TaskModule) replyError(service string, err error) *apperr.Error {
	if apperr.KindOf(err) == apperr.KindInternal {
		m.logger.Error("Task service failed", "service", service, "error", err)
	}
	return apperr.From(err)
}

func (m *TaskModule) withLocale(ctx context.Context, locale string) context.Context {
	return i18n.WithLocale(ctx, m.catalog.Parse(locale))
}

func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	page, err := m.service.ListTasks(m.withLocale(ctx, req.Locale), req.Query)
	if err != nil {
		return ListTasksResponse{Error: m.replyError(ServiceList, err)}, nil
	}
	return ListTasksResponse{Page: page}, nil
}

func (m *TaskModule) getTask(ctx context.Context, req TaskIDRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.GetTask(m.withLocale(ctx, req.Locale), req.ID)
	if err != nil {
		return TaskResponse{Error: m.replyError(ServiceGet, err)}, nil
	}
	return TaskResponse{Task: t}, nil
}

func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.CreateTask(m.withLocale(ctx, req.Locale), req.Input)
	if err != nil {
		return TaskResponse{Error: m.replyError(ServiceCreate, err)}, nil
	}
	return TaskResponse{Task: t}, nil
}

func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.UpdateTask(m.withLocale(ctx, req.Locale), req.ID, req.Input)
	if err != nil {
		return TaskResponse{Error: m.replyError(ServiceUpdate, err)}, nil
	}
	return TaskResponse{Task: t}, nil
}

func (m *TaskModule) deleteTask(ctx context.Context, req TaskIDRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.service.DeleteTask(m.withLocale(ctx, req.Locale), req.ID); err != nil {
		return DeleteTaskResponse{Error: m.replyError(ServiceDelete, err)}, nil
	}
	return DeleteTaskResponse{Deleted: true}, nil
}

func (m *TaskModule) toggleTaskStatus(ctx context.Context, req TaskIDRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.ToggleTaskStatus(m.withLocale(ctx, req.Locale), req.ID)
	if err != nil {
		return TaskResponse{Error: m.replyError(ServiceToggleStatus, err)}, nil
	}
	return TaskResponse{Task: t}, nil
}

func (m *TaskModule) health(ctx context.Context, _ HealthRequest, _ *mono.Msg) (HealthResponse, error) {
	status := m.Health(ctx)
	return HealthResponse{
		Healthy: status.Healthy,
		Message: status.Message,
		Details: status.Details,
	}, nil
}
