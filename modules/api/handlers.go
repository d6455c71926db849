package api

import (
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"

	domain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/i18n"
	"github.com/example/task-manager/modules/task"
)

const defaultActivityLimit = 50

// Handlers contains the HTTP request handlers for task operations.
type Handlers struct {
	tasks    task.TaskPort
	activity ActivityFeed
	health   map[string]HealthChecker
	catalog  *i18n.Catalog
	logger   types.Logger
	debug    bool
}

func (h *Handlers) text(c *fiber.Ctx, key string) string {
	return h.catalog.Text(h.catalog.FromContext(c.UserContext()), key)
}

// taskID reads the :id route parameter. Anything that is not a positive
// integer is treated as an unknown route.
func taskID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, fiber.ErrNotFound
	}
	return uint(id), nil
}

// ListTasks handles GET /api/tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	q := domain.ListQuery{
		Page:    c.QueryInt("page", 1),
		PerPage: c.QueryInt("per_page", domain.DefaultPerPage),
		Search:  c.Query("search"),
		Status:  c.Query("status"),
	}

	page, err := h.tasks.ListTasks(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(Envelope{
		Success:    true,
		Data:       page.Items,
		Pagination: &page.Pagination,
	})
}

// GetTask handles GET /api/tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	t, err := h.tasks.GetTask(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(Envelope{Success: true, Data: t})
}

// CreateTask handles POST /api/tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	t, err := h.tasks.CreateTask(c.UserContext(), decodeInput(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(Envelope{
		Success: true,
		Data:    t,
		Message: h.text(c, i18n.TaskCreated),
	})
}

// UpdateTask handles PUT /api/tasks/:id.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	t, err := h.tasks.UpdateTask(c.UserContext(), id, decodeInput(c))
	if err != nil {
		return err
	}
	return c.JSON(Envelope{
		Success: true,
		Data:    t,
		Message: h.text(c, i18n.TaskUpdated),
	})
}

// DeleteTask handles DELETE /api/tasks/:id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	if err := h.tasks.DeleteTask(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(Envelope{
		Success: true,
		Message: h.text(c, i18n.TaskDeleted),
	})
}

// ToggleTaskStatus handles PATCH /api/tasks/:id/status.
func (h *Handlers) ToggleTaskStatus(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	t, err := h.tasks.ToggleTaskStatus(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(Envelope{
		Success: true,
		Data:    t,
		Message: h.text(c, i18n.TaskStatusUpdated),
	})
}

// ListActivity handles GET /api/activity.
func (h *Handlers) ListActivity(c *fiber.Ctx) error {
	entries := h.activity.Recent(c.QueryInt("limit", defaultActivityLimit))
	return c.JSON(Envelope{Success: true, Data: entries})
}

// HealthCheck handles GET /health. It answers 503 when any module is
// unhealthy.
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	resp := HealthResponse{Status: "healthy", Modules: make(map[string]ModuleHealth, len(h.health))}
	for name, checker := range h.health {
		status := checker.Health(c.UserContext())
		resp.Modules[name] = toModuleHealth(status)
		if !status.Healthy {
			resp.Status = "unhealthy"
		}
	}

	code := fiber.StatusOK
	if resp.Status != "healthy" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(resp)
}

func toModuleHealth(s mono.HealthStatus) ModuleHealth {
	return ModuleHealth{Healthy: s.Healthy, Message: s.Message, Details: s.Details}
}
