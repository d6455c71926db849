package task

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-monolith/mono"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/example/task-manager/apperr"
	"github.com/example/task-manager/config"
	domain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/i18n"
)

// clientModule depends on the task module and keeps an adapter to it.
type clientModule struct {
	tasks TaskClient
}

var _ mono.DependentModule = (*clientModule)(nil)

func (m *clientModule) Name() string                  { return "client" }
func (m *clientModule) Dependencies() []string        { return []string{"task"} }
func (m *clientModule) Start(_ context.Context) error { return nil }
func (m *clientModule) Stop(_ context.Context) error  { return nil }

func (m *clientModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "task" {
		m.tasks = NewTaskAdapter(container)
	}
}

func startAdapter(t *testing.T) TaskClient {
	t.Helper()

	app, err := mono.NewMonoApplication(mono.WithLogLevel(mono.LogLevelError))
	require.NoError(t, err)

	cfg := config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "tasks.db"),
	}
	client := &clientModule{}
	app.Register(NewModule(cfg, testCatalog(t), nil, &mockLogger{}))
	app.Register(client)

	require.NoError(t, app.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = app.Stop(ctx)
	})

	require.NotNil(t, client.tasks)
	return client.tasks
}

func TestTaskAdapter(t *testing.T) {
	tasks := startAdapter(t)
	ctx := context.Background()
	ptBR := i18n.WithLocale(ctx, language.BrazilianPortuguese)

	created, err := tasks.CreateTask(ctx, map[string]any{"title": "over the wire", "description": "body"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	t.Run("application errors keep kind and fields", func(t *testing.T) {
		_, err := tasks.CreateTask(ptBR, map[string]any{"title": "", "description": float64(3)})
		require.Error(t, err)

		appErr, ok := apperr.As(err)
		require.True(t, ok, "got %T", err)
		assert.Equal(t, apperr.KindValidation, appErr.Kind)
		assert.Equal(t, "Falha na validação", appErr.Message)
		assert.Equal(t, []string{"title", "description"}, appErr.Fields.Fields())
		msg, _ := appErr.Fields.Get("description")
		assert.Equal(t, "A descrição deve ser do tipo texto", msg)
	})

	t.Run("null and absent keys survive the transport", func(t *testing.T) {
		updated, err := tasks.UpdateTask(ctx, created.ID, map[string]any{"description": nil})
		require.NoError(t, err)
		assert.Equal(t, "over the wire", updated.Title)
		assert.Nil(t, updated.Description)
	})

	t.Run("locale is forwarded", func(t *testing.T) {
		_, err := tasks.GetTask(ptBR, 999999)
		appErr, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindNotFound, appErr.Kind)
		assert.Equal(t, "Tarefa não encontrada", appErr.Message)

		_, err = tasks.GetTask(ctx, 999999)
		appErr, ok = apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, "Task not found", appErr.Message)
	})

	t.Run("list and toggle", func(t *testing.T) {
		page, err := tasks.ListTasks(ctx, domain.ListQuery{Page: 1, PerPage: 5})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Pagination.Total)
		require.Len(t, page.Items, 1)

		toggled, err := tasks.ToggleTaskStatus(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, toggled.Status)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, tasks.DeleteTask(ctx, created.ID))
		err := tasks.DeleteTask(ctx, created.ID)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("health", func(t *testing.T) {
		status := tasks.Health(ctx)
		assert.True(t, status.Healthy)
		assert.Equal(t, config.DriverSQLite, status.Details["driver"])
	})
}
