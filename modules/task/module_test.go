package task

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/task-manager/apperr"
	"github.com/example/task-manager/config"
	domain "github.com/example/task-manager/domain/task"
)

func startTestModule(t *testing.T) *TaskModule {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "tasks.db"),
	}
	m := NewModule(cfg, testCatalog(t), nil, &mockLogger{})
	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(func() { _ = m.Stop(context.Background()) })
	return m
}

func TestTaskModule_Name(t *testing.T) {
	m := NewModule(config.DatabaseConfig{}, nil, nil, &mockLogger{})
	assert.Equal(t, "task", m.Name())
	assert.Len(t, m.EmitEvents(), 4)
}

func TestTaskModule_StartFailsForUnknownDriver(t *testing.T) {
	m := NewModule(config.DatabaseConfig{Driver: "oracle"}, testCatalog(t), nil, &mockLogger{})
	assert.Error(t, m.Start(context.Background()))
}

func TestTaskModule_StartSeedsEmptyTable(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "tasks.db"),
		Seed:   3,
	}

	m := NewModule(cfg, testCatalog(t), nil, &mockLogger{})
	require.NoError(t, m.Start(context.Background()))
	require.NoError(t, m.Stop(context.Background()))

	// A restart over the same file must not seed again.
	m = NewModule(cfg, testCatalog(t), nil, &mockLogger{})
	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(func() { _ = m.Stop(context.Background()) })

	page, err := m.service.ListTasks(context.Background(), domain.ListQuery{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Pagination.Total)
}

func TestTaskModule_InternalErrorsAreLogged(t *testing.T) {
	m := startTestModule(t)
	logs := &recordingLogger{}
	m.logger = logs
	ctx := context.Background()

	missing, err := m.getTask(ctx, TaskIDRequest{ID: 42}, nil)
	require.NoError(t, err)
	require.NotNil(t, missing.Error)
	assert.Equal(t, apperr.KindNotFound, missing.Error.Kind)
	assert.Empty(t, logs.errorMessages(), "client errors are not logged")

	sqlDB, err := m.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	broken, err := m.getTask(ctx, TaskIDRequest{ID: 42}, nil)
	require.NoError(t, err)
	require.NotNil(t, broken.Error)
	assert.Equal(t, apperr.KindInternal, broken.Error.Kind)
	assert.Equal(t, []string{"Task service failed"}, logs.errorMessages())
}

func TestTaskModule_Health(t *testing.T) {
	m := NewModule(config.DatabaseConfig{Driver: config.DriverSQLite}, testCatalog(t), nil, &mockLogger{})
	assert.False(t, m.Health(context.Background()).Healthy)

	m = startTestModule(t)
	status := m.Health(context.Background())
	assert.True(t, status.Healthy)
	assert.Equal(t, config.DriverSQLite, status.Details["driver"])

	resp, err := m.health(context.Background(), HealthRequest{}, nil)
	require.NoError(t, err)
	assert.True(t, resp.Healthy)
}

func TestTaskModule_Handlers(t *testing.T) {
	m := startTestModule(t)
	ctx := context.Background()

	created, err := m.createTask(ctx, CreateTaskRequest{Input: map[string]any{"title": "via handler"}}, nil)
	require.NoError(t, err)
	require.Nil(t, created.Error)
	require.NotNil(t, created.Task)
	id := created.Task.ID

	invalid, err := m.createTask(ctx, CreateTaskRequest{Locale: "pt-BR", Input: map[string]any{}}, nil)
	require.NoError(t, err, "application errors travel in the response")
	require.NotNil(t, invalid.Error)
	assert.Equal(t, apperr.KindValidation, invalid.Error.Kind)
	msg, _ := invalid.Error.Fields.Get("title")
	assert.Equal(t, "O título não pode ser vazio", msg)

	got, err := m.getTask(ctx, TaskIDRequest{ID: id}, nil)
	require.NoError(t, err)
	require.Nil(t, got.Error)
	assert.Equal(t, "via handler", got.Task.Title)

	updated, err := m.updateTask(ctx, UpdateTaskRequest{ID: id, Input: map[string]any{"description": "added"}}, nil)
	require.NoError(t, err)
	require.Nil(t, updated.Error)
	require.NotNil(t, updated.Task.Description)
	assert.Equal(t, "added", *updated.Task.Description)

	toggled, err := m.toggleTaskStatus(ctx, TaskIDRequest{ID: id}, nil)
	require.NoError(t, err)
	require.Nil(t, toggled.Error)
	assert.Equal(t, domain.StatusCompleted, toggled.Task.Status)

	list, err := m.listTasks(ctx, ListTasksRequest{Query: domain.ListQuery{Page: 1, PerPage: 10}}, nil)
	require.NoError(t, err)
	require.Nil(t, list.Error)
	assert.Equal(t, int64(1), list.Page.Pagination.Total)

	deleted, err := m.deleteTask(ctx, TaskIDRequest{ID: id}, nil)
	require.NoError(t, err)
	require.Nil(t, deleted.Error)
	assert.True(t, deleted.Deleted)

	missing, err := m.getTask(ctx, TaskIDRequest{Locale: "en", ID: id}, nil)
	require.NoError(t, err)
	require.NotNil(t, missing.Error)
	assert.Equal(t, apperr.KindNotFound, missing.Error.Kind)
	assert.Equal(t, "Task not found", missing.Error.Message)

	again, err := m.deleteTask(ctx, TaskIDRequest{ID: id}, nil)
	require.NoError(t, err)
	assert.False(t, again.Deleted)
	require.NotNil(t, again.Error)
	assert.Equal(t, apperr.KindNotFound, again.Error.Kind)
}
