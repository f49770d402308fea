package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/launchdarkly/hook-scoped-tests/framework"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadDefaults(t *testing.T) {
	var p commandParams
	require.True(t, p.Read([]string{"prog"}, &bytes.Buffer{}))

	assert.Equal(t, framework.DefaultTimeout, p.timeout)
	assert.Equal(t, 0, p.retries)
	assert.Equal(t, time.Second, p.asyncDelay)
	assert.False(t, p.filters.IsDefined())
}

func TestReadFlags(t *testing.T) {
	var p commandParams
	require.True(t, p.Read([]string{"prog", "-run", "^async/", "-skip", "b2", "-timeout", "5s",
		"-retries", "2", "-debug", "-no-color", "-json", "out.json"}, &bytes.Buffer{}))

	assert.Equal(t, []string{"^async/"}, p.filters.MustMatch.Patterns())
	assert.Equal(t, []string{"b2"}, p.filters.MustNotMatch.Patterns())
	assert.Equal(t, 5*time.Second, p.timeout)
	assert.Equal(t, 2, p.retries)
	assert.True(t, p.debug)
	assert.True(t, p.noColor)
	assert.Equal(t, "out.json", p.jsonReport)
}

func TestReadRejectsBadInput(t *testing.T) {
	for _, args := range [][]string{
		{"prog", "-run", "("},
		{"prog", "-timeout", "0s"},
		{"prog", "extra"},
		{"prog", "-unknown"},
	} {
		var p commandParams
		var errOut bytes.Buffer
		assert.False(t, p.Read(args, &errOut), "args: %v", args)
		assert.NotEmpty(t, errOut.String(), "args: %v", args)
	}
}

func TestReadConfigFile(t *testing.T) {
	path := writeConfigFile(t, `{"timeoutMs": 300, "retries": 3, "asyncDelayMs": 20, "run": ["^a/"], "skip": ["x"]}`)

	var p commandParams
	require.True(t, p.Read([]string{"prog", "-config", path}, &bytes.Buffer{}))

	assert.Equal(t, 300*time.Millisecond, p.timeout)
	assert.Equal(t, 3, p.retries)
	assert.Equal(t, 20*time.Millisecond, p.asyncDelay)
	assert.Equal(t, []string{"^a/"}, p.filters.MustMatch.Patterns())
	assert.Equal(t, []string{"x"}, p.filters.MustNotMatch.Patterns())
}

func TestCommandLineOverridesConfigFile(t *testing.T) {
	path := writeConfigFile(t, `{"timeoutMs": 300, "run": ["^a/"]}`)

	var p commandParams
	require.True(t, p.Read([]string{"prog", "-config", path, "-timeout", "1s", "-run", "^b/"}, &bytes.Buffer{}))

	assert.Equal(t, time.Second, p.timeout)
	assert.Equal(t, []string{"^b/"}, p.filters.MustMatch.Patterns())
}

func TestConfigFileErrors(t *testing.T) {
	var errOut bytes.Buffer
	var p commandParams
	assert.False(t, p.Read([]string{"prog", "-config", filepath.Join(t.TempDir(), "missing.json")}, &errOut))
	assert.Contains(t, errOut.String(), "can't read config file")

	errOut.Reset()
	p = commandParams{}
	assert.False(t, p.Read([]string{"prog", "-config", writeConfigFile(t, `{"retries": "many"}`)}, &errOut))
	assert.Contains(t, errOut.String(), "malformed config file")
}

func TestRerunCommand(t *testing.T) {
	failures := []framework.TestResult{
		{TestID: framework.TestID{Path: []string{"b", "b = nil"}}},
		{TestID: framework.TestID{Path: []string{"async", `c = "c"`}}},
	}

	assert.Equal(t,
		`prog -run '^b/b = nil$' -run '^async/c = "c"$'`,
		rerunCommand("prog", failures))
}
