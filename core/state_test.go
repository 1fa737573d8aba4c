package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_AppendResults(t *testing.T) {
	s := NewState("q")
	s.AppendResults("block one")
	s.AppendResults("block two", "block three")

	assert.Equal(t, []string{"block one", "block two", "block three"}, s.Results)
}

func TestState_JoinedResults(t *testing.T) {
	s := NewState("q")
	assert.Equal(t, "", s.JoinedResults())

	s.AppendResults("a", "b")
	assert.Equal(t, "a\n\nb", s.JoinedResults())
}
