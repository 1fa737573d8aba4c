package model

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = &ResponseSchema{
	Name:        "verdict",
	Description: "A yes/no verdict with reasoning.",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"is_sufficient": map[string]any{"type": "boolean"},
			"reasoning":     map[string]any{"type": "string"},
		},
		"required":             []string{"is_sufficient", "reasoning"},
		"additionalProperties": false,
	},
}

func TestValidateStructured(t *testing.T) {
	valid := json.RawMessage(`{"is_sufficient": true, "reasoning": "enough sources"}`)
	assert.NoError(t, ValidateStructured(valid, testSchema))

	missing := json.RawMessage(`{"is_sufficient": true}`)
	err := ValidateStructured(missing, testSchema)
	require.Error(t, err)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "verdict", decodeErr.Schema)
	assert.Contains(t, decodeErr.Reason, "reasoning")
}

func TestValidateStructured_MalformedJSON(t *testing.T) {
	err := ValidateStructured(json.RawMessage(`{"is_sufficient":`), testSchema)
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
}

func TestMockModel_CannedAndDefault(t *testing.T) {
	m := NewMockModel("test")
	m.AddResponse("known prompt", "canned answer")

	resp, err := m.Generate(context.Background(), Request{Prompt: "known prompt"})
	require.NoError(t, err)
	assert.Equal(t, "canned answer", resp.Text)

	resp, err = m.Generate(context.Background(), Request{Prompt: "unknown"})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: unknown", resp.Text)
}

func TestMockModel_StructuredValidatesAgainstSchema(t *testing.T) {
	m := NewMockModel("test")
	m.AddStructuredResponse("good", json.RawMessage(`{"is_sufficient": false, "reasoning": "thin"}`))
	m.AddStructuredResponse("bad", json.RawMessage(`{"is_sufficient": "yes"}`))

	raw, err := m.GenerateStructured(context.Background(), Request{Prompt: "good"}, testSchema)
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_sufficient": false, "reasoning": "thin"}`, string(raw))

	_, err = m.GenerateStructured(context.Background(), Request{Prompt: "bad"}, testSchema)
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))

	// Unmatched structured prompts behave like a model that ignored the schema.
	_, err = m.GenerateStructured(context.Background(), Request{Prompt: "unmatched"}, testSchema)
	require.True(t, errors.As(err, &decodeErr))
}

func TestMockModel_FailWith(t *testing.T) {
	m := NewMockModel("test")
	boom := errors.New("provider down")
	m.FailWith(boom)

	_, err := m.Generate(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, boom)

	_, err = m.GenerateStructured(context.Background(), Request{Prompt: "x"}, testSchema)
	assert.ErrorIs(t, err, boom)
}
