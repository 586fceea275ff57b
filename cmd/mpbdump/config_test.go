// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mpbdump.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigDefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
strict = true
window_words = 4
log_level = "debug"
format = "cbor"
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Strict)
	assert.Equal(t, 4, cfg.WindowWords)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, formatCbor, cfg.Format)
	// Keys not in the file keep their defaults
	assert.Equal(t, defaultConfig().MaxDepth, cfg.MaxDepth)
	assert.False(t, cfg.DumpWords)
}

func TestLoadConfigErrors(t *testing.T) {
	testDefs := []struct {
		name    string
		content string
	}{
		{name: "syntax", content: "strict = "},
		{name: "unknown key", content: "verbose = true"},
		{name: "bad level", content: `log_level = "loud"`},
		{name: "bad format", content: `format = "json"`},
		{name: "bad depth", content: "max_depth = 0"},
		{name: "negative window", content: "window_words = -1"},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, testDef.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestFlagsOverrideConfig(t *testing.T) {
	path := writeConfig(t, `
strict = true
max_depth = 8
window_words = 2
`)
	f := newGlobalFlags("mpbdump", io.Discard)
	require.NoError(t, f.flagset.Parse([]string{"-config", path, "-max-depth", "3", "-strict=false"}))
	cfg, err := f.config()
	require.NoError(t, err)
	assert.False(t, cfg.Strict)
	assert.Equal(t, 3, cfg.MaxDepth)
	// Not given as a flag, so the file value stays
	assert.Equal(t, 2, cfg.WindowWords)
}

func TestFlagsWithoutConfig(t *testing.T) {
	f := newGlobalFlags("mpbdump", io.Discard)
	require.NoError(t, f.flagset.Parse([]string{"-log-level", "error", "-format", "cbor"}))
	cfg, err := f.config()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelError, cfg.LogLevel)
	assert.Equal(t, formatCbor, cfg.Format)
	assert.Equal(t, defaultConfig().WindowWords, cfg.WindowWords)

	f = newGlobalFlags("mpbdump", io.Discard)
	require.NoError(t, f.flagset.Parse([]string{"-format", "xml"}))
	_, err = f.config()
	assert.Error(t, err)
}
