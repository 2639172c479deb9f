package debug

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestLogWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	require.NoError(t, Enable(Options{Path: path, Level: "debug"}))

	Log("session", "frame %d", 7)
	Error("load", errors.New("boom"), "chords for %s", "abc")
	Disable()

	out := readLog(t, path)
	assert.Contains(t, out, `"msg":"frame 7"`)
	assert.Contains(t, out, `"category":"session"`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.False(t, Enabled())
}

func TestLogRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	require.NoError(t, Enable(Options{Path: path, Level: "error"}))

	Log("session", "hidden")
	Error("session", errors.New("shown"), "visible")
	Disable()

	out := readLog(t, path)
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
}

func TestLogEvery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	require.NoError(t, Enable(Options{Path: path}))

	for i := 0; i < 10; i++ {
		LogEvery(5, "frame", "tick")
	}
	Disable()

	assert.Equal(t, 2, strings.Count(readLog(t, path), "tick (every 5"))
}

func TestEnableNeedsDestination(t *testing.T) {
	assert.Error(t, Enable(Options{}))
	assert.False(t, Enabled())
}

func TestLogWhenDisabledIsNoop(t *testing.T) {
	Disable()
	Log("x", "nothing")
	assert.NotNil(t, Logger())
}
