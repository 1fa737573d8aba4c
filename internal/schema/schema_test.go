package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePlan struct {
	ResearchPlan string   `json:"research_plan" description:"How the query will be researched."`
	SubQueries   []string `json:"sub_queries" description:"Search engine queries."`
	Notes        *string  `json:"notes,omitempty"`
	unexported   int
	Skipped      string   `json:"-"`
}

func TestFromStruct(t *testing.T) {
	s := FromStruct(samplePlan{unexported: 1})

	assert.Equal(t, "object", s["type"])

	props, ok := s["properties"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, props, 3)

	plan := props["research_plan"].(map[string]any)
	assert.Equal(t, "string", plan["type"])
	assert.Equal(t, "How the query will be researched.", plan["description"])

	queries := props["sub_queries"].(map[string]any)
	assert.Equal(t, "array", queries["type"])
	assert.Equal(t, map[string]any{"type": "string"}, queries["items"])

	// Pointer + omitempty fields are optional, everything else required.
	assert.ElementsMatch(t, []string{"research_plan", "sub_queries"}, s["required"])

	_, hasSkipped := props["Skipped"]
	assert.False(t, hasSkipped)
}

// Strict structured-output modes (OpenAI's among them) reject any object
// schema that does not forbid unlisted properties, so every generated object
// must carry additionalProperties: false.
func TestFromStruct_ClosesObjectSchemas(t *testing.T) {
	type inner struct {
		Name string `json:"name"`
	}
	type outer struct {
		Inner inner             `json:"inner"`
		Items []inner           `json:"items"`
		Meta  map[string]string `json:"meta"`
	}

	s := FromStruct(outer{})
	assert.Equal(t, false, s["additionalProperties"])

	props := s["properties"].(map[string]any)

	innerSchema := props["inner"].(map[string]any)
	assert.Equal(t, false, innerSchema["additionalProperties"])
	assert.Contains(t, innerSchema["properties"], "name")

	items := props["items"].(map[string]any)["items"].(map[string]any)
	assert.Equal(t, false, items["additionalProperties"])

	meta := props["meta"].(map[string]any)
	assert.Equal(t, false, meta["additionalProperties"])
}

func TestFromStruct_PointerTarget(t *testing.T) {
	s := FromStruct(&samplePlan{})
	assert.Equal(t, "object", s["type"])
}

func TestFromStruct_NonStruct(t *testing.T) {
	s := FromStruct("not a struct")
	assert.Equal(t, "object", s["type"])
	assert.Empty(t, s["properties"])
}
