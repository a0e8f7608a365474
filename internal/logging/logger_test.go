package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", "json", false)

	log.Debug("hidden")
	log.Info("mailbox loaded", "mailbox", "inbox", "count", 2)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "mailbox loaded", line["msg"])
	assert.Equal(t, "inbox", line["mailbox"])
	assert.EqualValues(t, 2, line["count"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug", "text", false)

	log.Debug("email fetched", "id", 7)
	assert.Contains(t, buf.String(), "email fetched")
	assert.Contains(t, buf.String(), "id=7")
	assert.NotContains(t, buf.String(), "\x1b[", "no color codes when color is off")
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "webmail.log")

	f, err := OpenFile(path)
	require.NoError(t, err)
	_, err = f.WriteString("hello\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(raw))
}
