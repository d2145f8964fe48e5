package editor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScript(t *testing.T) {
	src := `# bump the first lap
search object is 10 gateNo smallerThan 3

transform move all abs 0,100,0   # lift
Duplicate 2
`
	events, err := ParseScript(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "search", events[0].Command)
	assert.Equal(t, []string{"object", "is", "10", "gateNo", "smallerThan", "3"}, events[0].Args)
	assert.Equal(t, 2, events[0].Line)

	assert.Equal(t, "transform", events[1].Command)
	assert.Equal(t, []string{"move", "all", "abs", "0,100,0"}, events[1].Args)
	assert.Equal(t, 4, events[1].Line)

	assert.Equal(t, "duplicate", events[2].Command)
	assert.Equal(t, 5, events[2].Line)
}

func TestParseScript_Empty(t *testing.T) {
	events, err := ParseScript(strings.NewReader("\n# nothing\n   \n"))
	require.NoError(t, err)
	assert.Empty(t, events)
}
