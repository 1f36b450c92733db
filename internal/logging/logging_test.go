package logging

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "consultas.log")

	logger, cleanup := New("consultas", Options{File: path, Level: "debug"})
	logger.Debug().Str("screen", "list").Msg("screen change")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &line))
	assert.Equal(t, "consultas", line["service"])
	assert.Equal(t, "list", line["screen"])
	assert.Equal(t, "debug", line["level"])
}

func TestNew_LevelFallsBackToInfo(t *testing.T) {
	logger, cleanup := New("consultas", Options{Level: "chatty", File: filepath.Join(t.TempDir(), "x.log")})
	defer cleanup()

	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestDefaultFile(t *testing.T) {
	t.Setenv("HOME", "/home/clinic")

	assert.Equal(t, "/home/clinic/.local/state/consultas/consultas-tui.log", DefaultFile("consultas-tui"))
}

func TestOutput_UnopenableFileDiscards(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	out, cleanup := output(filepath.Join(blocker, "consultas.log"))
	defer cleanup()

	assert.Equal(t, io.Discard, out)
}

func TestOutput_NoFileUsesStderr(t *testing.T) {
	out, cleanup := output("")
	defer cleanup()

	assert.Equal(t, os.Stderr, out)
}

func TestNew_UnopenableFileDoesNotPanic(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	logger, cleanup := New("consultas", Options{File: filepath.Join(blocker, "consultas.log")})
	defer cleanup()

	assert.NotPanics(t, func() { logger.Info().Msg("dropped") })
}
