package model

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Request captures the normalized model input produced by agent steps.
type Request struct {
	// Instructions is the system prompt, may be empty.
	Instructions string `json:"instructions,omitempty"`
	// Prompt is the user message for this single-shot call.
	Prompt string `json:"prompt"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the final output of a free-text generation call.
type Response struct {
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason,omitempty"`
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// ResponseSchema describes the target shape of a structured generation call.
// Definition is a JSON Schema object, typically produced by
// internal/schema.FromStruct from the decode target type.
type ResponseSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Definition  map[string]any `json:"definition"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the reasoning capability consumed by the research agent. Both call
// shapes are single-shot: a failed call is reported once and never retried
// internally.
type Model interface {
	// Generate produces free-form text for the request.
	Generate(ctx context.Context, req Request) (*Response, error)

	// GenerateStructured produces JSON conforming to the supplied schema. A
	// response that cannot be validated against the schema yields a
	// *DecodeError.
	GenerateStructured(ctx context.Context, req Request, schema *ResponseSchema) (json.RawMessage, error)

	// Info returns information about the model implementation.
	Info() Info
}

// DecodeError reports that a provider's structured output did not conform to
// the requested schema. Callers recover from it locally with a per-step
// fallback value; it is never surfaced to end users.
type DecodeError struct {
	Schema string // schema name the response was validated against
	Raw    string // raw provider output
	Reason string // validation or parse failure description
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("structured output does not match schema %q: %s", e.Schema, e.Reason)
}

// ValidateStructured validates raw JSON against a response schema, returning
// a *DecodeError on any parse or conformance failure. Provider adapters call
// it before handing structured output back to the agent.
func ValidateStructured(raw json.RawMessage, s *ResponseSchema) error {
	if len(raw) == 0 {
		return &DecodeError{Schema: s.Name, Reason: "empty response"}
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(s.Definition),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return &DecodeError{Schema: s.Name, Raw: string(raw), Reason: err.Error()}
	}
	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			reasons = append(reasons, desc.String())
		}
		return &DecodeError{Schema: s.Name, Raw: string(raw), Reason: strings.Join(reasons, "; ")}
	}
	return nil
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Responses are keyed by exact prompt; unmatched free-text prompts get a
// deterministic placeholder, unmatched structured prompts fail decoding.
type MockModel struct {
	info       Info
	responses  map[string]string
	structured map[string]json.RawMessage
	err        error
}

// NewMockModel constructs an empty MockModel.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info:       Info{Name: name, Provider: "mock"},
		responses:  make(map[string]string),
		structured: make(map[string]json.RawMessage),
	}
}

// AddResponse registers a canned free-text completion for a prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// AddStructuredResponse registers canned structured output for a prompt.
func (m *MockModel) AddStructuredResponse(prompt string, raw json.RawMessage) {
	m.structured[prompt] = raw
}

// FailWith makes every subsequent call return err.
func (m *MockModel) FailWith(err error) { m.err = err }

// Generate implements Model.
func (m *MockModel) Generate(_ context.Context, req Request) (*Response, error) {
	if m.err != nil {
		return nil, m.err
	}
	text, ok := m.responses[req.Prompt]
	if !ok {
		text = fmt.Sprintf("Mock response to: %s", req.Prompt)
	}
	return &Response{Text: text, FinishReason: "stop"}, nil
}

// GenerateStructured implements Model.
func (m *MockModel) GenerateStructured(_ context.Context, req Request, s *ResponseSchema) (json.RawMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	raw, ok := m.structured[req.Prompt]
	if !ok {
		return nil, &DecodeError{Schema: s.Name, Reason: "no canned structured response"}
	}
	if err := ValidateStructured(raw, s); err != nil {
		return nil, err
	}
	return raw, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
