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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blinklabs-io/mpbdump/cbor"
	"github.com/blinklabs-io/mpbdump/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInput(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shader.bin")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func runCommand(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"mpbdump"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunSampleProgram(t *testing.T) {
	path := writeInput(t, test.SampleProgram())
	code, stdout, stderr := runCommand(path)
	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)
	assert.True(t, strings.HasPrefix(stdout, "MPB1 (program binary) @0x00000000"), stdout)
	assert.Contains(t, stdout, "\t\t\t\t\tSTRI (string)")
	assert.Contains(t, stdout, "name = \"main\"")
	assert.NotContains(t, stdout, "decode failed")
}

func TestRunDecodeFailure(t *testing.T) {
	data := test.Concat(test.Block("VERT", 0x0), test.Block("ZZZZ", 0x0))
	code, stdout, stderr := runCommand("-window", "1", writeInput(t, data))
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "VERT (vertex stage) @0x00000000")
	assert.Contains(t, stdout, "decode failed: decode: unknown tag")
	assert.Contains(t, stdout, "->0x00000008 :0x5a5a5a5a: ZZZZ\n")
	assert.Contains(t, stderr, "decode failed")
	assert.Contains(t, stderr, "component=main")
}

func TestRunStrict(t *testing.T) {
	path := writeInput(t, test.Block("VEHW", 0x0, 0xc, 0x0, 0x0))
	code, _, stderr := runCommand(path)
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "provisional constant")

	code, stdout, _ := runCommand("-strict", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "invariant violation")
}

func TestRunDump(t *testing.T) {
	path := writeInput(t, test.Block("KERN", 0x0))
	code, stdout, _ := runCommand("-dump", path)
	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(stdout, "file size is 0x00000008\n"), stdout)
	assert.Contains(t, stdout, "KERN (kernel) @0x00000000")
}

func TestRunDumpCbor(t *testing.T) {
	path := writeInput(t, test.Block("KERN", 0x0))
	outPath := filepath.Join(t.TempDir(), "out.cbor")
	code, stdout, _ := runCommand("-dump", "-format", "cbor", "-out", outPath, path)
	require.Equal(t, 0, code)
	assert.Empty(t, stdout)
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "file size is")
	doc, err := cbor.DecodeDocument(data)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)
	assert.Equal(t, "KERN", doc.Blocks[0].Tag)
}

func TestRunCborOutput(t *testing.T) {
	path := writeInput(t, test.SampleProgram())
	outPath := filepath.Join(t.TempDir(), "out.cbor")
	code, stdout, _ := runCommand("-format", "cbor", "-out", outPath, path)
	require.Equal(t, 0, code)
	assert.Empty(t, stdout)
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	doc, err := cbor.DecodeDocument(data)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)
	assert.Equal(t, "MPB1", doc.Blocks[0].Tag)
}

func TestRunTags(t *testing.T) {
	code, stdout, _ := runCommand("-tags")
	assert.Equal(t, 0, code)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Len(t, lines, 35)
	assert.Contains(t, stdout, "STRI  heuristic  string")
}

func TestRunHelp(t *testing.T) {
	for _, flagName := range []string{"-h", "-help"} {
		code, stdout, stderr := runCommand(flagName)
		assert.Equal(t, 0, code, flagName)
		assert.Empty(t, stdout, flagName)
		assert.Contains(t, stderr, "-max-depth", flagName)
	}
}

func TestRunUsage(t *testing.T) {
	code, _, stderr := runCommand()
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Usage:")

	code, _, stderr = runCommand(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "failed to read file")
}

func TestRunSeveralFiles(t *testing.T) {
	good := writeInput(t, test.SampleProgram())
	bad := writeInput(t, test.Concat(test.Block("VERT", 0x0), test.Block("ZZZZ", 0x0)))
	missing := filepath.Join(t.TempDir(), "missing.bin")
	code, stdout, stderr := runCommand("-jobs", "2", "-log-level", "info", good, bad, missing)
	assert.Equal(t, 1, code)
	goodAt := strings.Index(stdout, "==> "+good+" <==")
	badAt := strings.Index(stdout, "==> "+bad+" <==")
	missingAt := strings.Index(stdout, "==> "+missing+" <==")
	require.NotEqual(t, -1, goodAt)
	// Results follow the argument order
	require.Less(t, goodAt, badAt)
	require.Less(t, badAt, missingAt)
	assert.Contains(t, stdout[goodAt:badAt], "MPB1 (program binary)")
	assert.Contains(t, stdout[badAt:missingAt], "decode failed: decode: unknown tag")
	assert.Contains(t, stdout[missingAt:], "load "+missing)
	assert.Contains(t, stderr, "msg=\"decoded files\"")
	assert.Contains(t, stderr, "failed=2")
}

func TestRunSeveralFilesSucceeds(t *testing.T) {
	first := writeInput(t, test.Block("KERN", 0x0))
	second := writeInput(t, test.SampleProgram())
	code, _, _ := runCommand(first, second)
	assert.Equal(t, 0, code)
}
