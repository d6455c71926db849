package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/task-manager/validation"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"validation", Validation("bad", nil), KindValidation},
		{"not found", NotFound("missing"), KindNotFound},
		{"unauthorized", Unauthorized("who"), KindUnauthorized},
		{"conflict", Conflict("dup"), KindConflict},
		{"wrapped not found", fmt.Errorf("get: %w", NotFound("missing")), KindNotFound},
		{"plain error", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestInternal(t *testing.T) {
	cause := errors.New("disk on fire")
	err := Internal(cause)

	assert.Equal(t, KindInternal, err.Kind)
	assert.Equal(t, "disk on fire", err.Message)
	assert.NotEmpty(t, err.Trace)
	assert.ErrorIs(t, err, cause)
}

func TestFrom(t *testing.T) {
	assert.Nil(t, From(nil))

	nf := NotFound("missing")
	assert.Same(t, nf, From(fmt.Errorf("wrapped: %w", nf)))

	internal := From(errors.New("boom"))
	assert.Equal(t, KindInternal, internal.Kind)
}

func TestError_JSONRoundTrip(t *testing.T) {
	original := Validation("Validation failed", validation.FieldErrors{
		{Field: "title", Message: "required"},
		{Field: "description", Message: "too long"},
	})

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"kind":"validation","message":"Validation failed","fields":{"title":"required","description":"too long"}}`,
		string(data))

	var decoded Error
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original.Kind, decoded.Kind)
	assert.Equal(t, original.Fields, decoded.Fields)

	data, err = json.Marshal(NotFound("missing"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "fields")
}
