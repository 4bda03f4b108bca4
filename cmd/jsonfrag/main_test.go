package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func runCLI(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, strings.NewReader(input), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRunDefaults(t *testing.T) {
	out, _, err := runCLI(t, `{"b": [1, 2.5, null], "a": "x"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"b": [1, 2.5, null], "a": "x"}`+"\n", out)
}

func TestRunCompactSorted(t *testing.T) {
	out, _, err := runCLI(t, `{"b": true, "a": {"d": 1, "c": 2}}`, "--compact", "--sort-keys")
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"c":2,"d":1},"b":true}`+"\n", out)
}

func TestRunCustomSeparators(t *testing.T) {
	out, _, err := runCLI(t, `{"a": [1, 2]}`, "--item-separator", ";", "--key-separator", "=")
	require.NoError(t, err)
	assert.Equal(t, `{"a"=[1;2]}`+"\n", out)
}

func TestRunASCII(t *testing.T) {
	out, _, err := runCLI(t, `["café"]`, "--ascii")
	require.NoError(t, err)
	assert.Equal(t, `["caf\u00e9"]`+"\n", out)
}

func TestRunMaxDepth(t *testing.T) {
	_, _, err := runCLI(t, `[[[1]]]`, "--max-depth", "1")
	assert.ErrorContains(t, err, "maximum nesting depth exceeded")
}

func TestRunMsgPackInput(t *testing.T) {
	data, err := msgpack.Marshal(map[string]any{"n": 1})
	require.NoError(t, err)

	out, _, err := runCLI(t, string(data), "--format", "msgpack")
	require.NoError(t, err)
	assert.Equal(t, `{"n": 1}`+"\n", out)
}

func TestRunInputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`[true, false]`), 0o644))

	out, _, err := runCLI(t, "", "--input", path)
	require.NoError(t, err)
	assert.Equal(t, "[true, false]\n", out)
}

func TestRunMissingFile(t *testing.T) {
	_, _, err := runCLI(t, "", "--input", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "missing.json")
}

func TestRunInvalidJSON(t *testing.T) {
	_, _, err := runCLI(t, `{"a": `)
	assert.ErrorContains(t, err, "decode json")
}

func TestRunUnknownFormat(t *testing.T) {
	_, _, err := runCLI(t, `[]`, "--format", "yaml")
	assert.Error(t, err)
}

func TestRunDebugLogging(t *testing.T) {
	_, logs, err := runCLI(t, `[1]`, "--log.level", "debug")
	require.NoError(t, err)
	assert.Contains(t, logs, "level=debug")
	assert.Contains(t, logs, `msg="encoded document"`)
}

func TestRunInfoLoggingHidesDebug(t *testing.T) {
	_, logs, err := runCLI(t, `[1]`)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestOptionsConfig(t *testing.T) {
	opts := &options{allowNaN: false, checkCircular: false, maxDepth: -1, skipKeys: true}
	cfg := opts.config()

	assert.False(t, cfg.AllowNaN)
	assert.True(t, cfg.DisableCircularCheck)
	assert.True(t, cfg.SkipKeys)
	assert.Equal(t, -1, cfg.MaxDepth)
	assert.Equal(t, ", ", cfg.ItemSeparator)
	assert.NotNil(t, cfg.Default)
}
