package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/example/task-manager/apperr"
	"github.com/example/task-manager/validation"
)

func TestMapError(t *testing.T) {
	catalog := testCatalog(t)
	fields := validation.FieldErrors{{Field: "title", Message: "Title must not be empty"}}

	tests := []struct {
		name       string
		err        error
		tag        language.Tag
		wantStatus int
		wantError  string
		wantFields validation.FieldErrors
	}{
		{"validation", apperr.Validation("Validation failed", fields), language.English, 400, "Validation failed", fields},
		{"validation without message", apperr.Validation("", fields), language.BrazilianPortuguese, 400, "Falha na validação", fields},
		{"not found", apperr.NotFound("Task not found"), language.English, 404, "Task not found", nil},
		{"not found default", apperr.NotFound(""), language.English, 404, "Resource not found", nil},
		{"unauthorized", apperr.Unauthorized(""), language.English, 401, "Unauthorized", nil},
		{"conflict", apperr.Conflict("already exists"), language.English, 409, "already exists", nil},
		{"wrapped app error", fmt.Errorf("call failed: %w", apperr.NotFound("gone")), language.English, 404, "gone", nil},
		{"fiber not found", fiber.ErrNotFound, language.BrazilianPortuguese, 404, "Recurso não encontrado", nil},
		{"fiber method not allowed", fiber.ErrMethodNotAllowed, language.English, 405, "Method not allowed", nil},
		{"fiber body too large", fiber.ErrRequestEntityTooLarge, language.English, 413, "Request Entity Too Large", nil},
		{"unknown", errors.New("disk full"), language.English, 500, "Internal server error", nil},
		{"unknown localized", errors.New("disk full"), language.BrazilianPortuguese, 500, "Erro interno do servidor", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := mapError(tt.err, catalog, tt.tag, false)
			assert.Equal(t, tt.wantStatus, status)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantError, body.Error)
			assert.Equal(t, tt.wantFields, body.Errors)
			assert.Empty(t, body.Trace)
		})
	}
}

func TestMapError_DebugExposesInternals(t *testing.T) {
	catalog := testCatalog(t)

	status, body := mapError(errors.New("disk full"), catalog, language.English, true)
	assert.Equal(t, 500, status)
	assert.Equal(t, "disk full", body.Error)
	assert.NotEmpty(t, body.Trace)

	// Client errors look the same in debug mode.
	status, body = mapError(apperr.NotFound("Task not found"), catalog, language.English, true)
	assert.Equal(t, 404, status)
	assert.Equal(t, "Task not found", body.Error)
	assert.Empty(t, body.Trace)
}
