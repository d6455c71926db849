package api

import (
	"context"

	"github.com/go-monolith/mono"

	domain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/modules/activity"
	"github.com/example/task-manager/validation"
)

// Envelope wraps every successful response.
type Envelope struct {
	Success    bool               `json:"success"`
	Data       any                `json:"data,omitempty"`
	Message    string             `json:"message,omitempty"`
	Pagination *domain.Pagination `json:"pagination,omitempty"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Success bool                   `json:"success"`
	Error   string                 `json:"error"`
	Errors  validation.FieldErrors `json:"errors,omitempty"`
	Trace   string                 `json:"trace,omitempty"`
}

// ActivityFeed exposes recent task events.
type ActivityFeed interface {
	Recent(limit int) []activity.Entry
}

// HealthChecker is implemented by modules that report their health.
type HealthChecker interface {
	Health(ctx context.Context) mono.HealthStatus
}

// ModuleHealth is the JSON form of a module's health.
type ModuleHealth struct {
	Healthy bool           `json:"healthy"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string                  `json:"status"`
	Modules map[string]ModuleHealth `json:"modules"`
}
