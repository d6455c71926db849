package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/example/task-manager/config"
	domain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/i18n"
	"github.com/example/task-manager/modules/activity"
	"github.com/example/task-manager/modules/task"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Info(_ string, _ ...any)  {}
func (m *mockLogger) Warn(_ string, _ ...any)  {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) With(_ ...any) types.Logger {
	return m
}
func (m *mockLogger) WithModule(_ string) types.Logger {
	return m
}
func (m *mockLogger) WithError(_ error) types.Logger {
	return m
}

// checkerFunc adapts a function to HealthChecker.
type checkerFunc func(ctx context.Context) mono.HealthStatus

func (f checkerFunc) Health(ctx context.Context) mono.HealthStatus {
	return f(ctx)
}

// staticFeed is an ActivityFeed over a fixed slice.
type staticFeed []activity.Entry

func (f staticFeed) Recent(limit int) []activity.Entry {
	if limit <= 0 || limit > len(f) {
		return f
	}
	return f[:limit]
}

func testCatalog(t *testing.T) *i18n.Catalog {
	t.Helper()
	c, err := i18n.NewDefault("en")
	require.NoError(t, err)
	return c
}

// newTestService wires a real task service over in-memory SQLite.
func newTestService(t *testing.T, catalog *i18n.Catalog) *task.Service {
	t.Helper()

	db, err := task.OpenDatabase(config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	repo := task.NewRepository(db)
	require.NoError(t, repo.Migrate())
	return task.NewService(repo, catalog, &mockLogger{})
}

// newTestApp builds a router backed by a real service.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	catalog := testCatalog(t)
	return NewRouter(RouterConfig{
		Tasks:          newTestService(t, catalog),
		Catalog:        catalog,
		Logger:         &mockLogger{},
		AllowedOrigins: "*",
	})
}

type testResponse struct {
	Status  int
	Header  http.Header
	Body    string
	Decoded map[string]any
}

// do sends a request through app. A non-empty body is sent as JSON.
func do(t *testing.T, app *fiber.App, method, target, body string, headers ...string) testResponse {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := testResponse{Status: resp.StatusCode, Header: resp.Header, Body: string(raw)}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out.Decoded), "body: %s", raw)
	}
	return out
}

// createTask posts a task and returns its id.
func createTask(t *testing.T, app *fiber.App, title string) uint {
	t.Helper()
	resp := do(t, app, http.MethodPost, "/api/tasks", `{"title":"`+title+`"}`)
	require.Equal(t, http.StatusCreated, resp.Status, resp.Body)
	data := resp.Decoded["data"].(map[string]any)
	return uint(data["id"].(float64))
}

// failingPort fails every call with err.
type failingPort struct{ err error }

func (p failingPort) ListTasks(context.Context, domain.ListQuery) (*domain.Page, error) {
	return nil, p.err
}
func (p failingPort) GetTask(context.Context, uint) (*domain.Task, error) { return nil, p.err }
func (p failingPort) CreateTask(context.Context, map[string]any) (*domain.Task, error) {
	return nil, p.err
}
func (p failingPort) UpdateTask(context.Context, uint, map[string]any) (*domain.Task, error) {
	return nil, p.err
}
func (p failingPort) DeleteTask(context.Context, uint) error { return p.err }
func (p failingPort) ToggleTaskStatus(context.Context, uint) (*domain.Task, error) {
	return nil, p.err
}

var _ task.TaskPort = failingPort{}
