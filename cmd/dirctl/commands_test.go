package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/dirkit/internal/format"
	"github.com/joshuapare/dirkit/internal/testutil"
	"github.com/joshuapare/dirkit/internal/writer"
	"github.com/joshuapare/dirkit/pkg/types"
)

func TestInfoCommand(t *testing.T) {
	path := testArchive(t)

	tests := []struct {
		name        string
		json        bool
		wantContain []string
	}{
		{
			name:        "text",
			wantContain: []string{"Archive Information:", "Magic: RIFX (big-endian)", "Codec: MV93", "Director 8", "Linkage: key-table (3 key links)", "Cast libraries: 1 (4 members)", "Sounds: 1"},
		},
		{
			name:        "json",
			json:        true,
			wantContain: []string{`"path"`, `"director_version": 8`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			jsonOut = tt.json

			output, err := captureOutput(t, func() error {
				return runInfo(context.Background(), []string{path})
			})
			require.NoError(t, err)
			if tt.json {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
		})
	}
}

func TestInfoCommandReportsFailedFiles(t *testing.T) {
	resetFlags()
	jsonOut = true
	good := testArchive(t)
	bad := filepath.Join(t.TempDir(), "bad.dir")
	require.NoError(t, os.WriteFile(bad, []byte("JUNKJUNKJUNKJUNK"), 0o644))

	output, err := captureOutput(t, func() error {
		return runInfo(context.Background(), []string{good, bad})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")

	var results []struct {
		Path  string `json:"path"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &results))
	require.Len(t, results, 2)
	assert.Empty(t, results[0].Error)
	assert.Contains(t, results[1].Error, "magic")
}

func TestResourcesCommand(t *testing.T) {
	path := testArchive(t)

	resetFlags()
	output, err := captureOutput(t, func() error { return runResources([]string{path}) })
	require.NoError(t, err)
	assertContains(t, output, []string{"RIFX", "imap", "mmap", "KEY*", "CASt", "STXT"})

	resetFlags()
	jsonOut = true
	resourcesTag = "CASt"
	output, err = captureOutput(t, func() error { return runResources([]string{path}) })
	require.NoError(t, err)
	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &entries))
	assert.Len(t, entries, 4)
}

func TestLinksAndCastsCommands(t *testing.T) {
	path := testArchive(t)

	resetFlags()
	output, err := captureOutput(t, func() error { return runLinks([]string{path}) })
	require.NoError(t, err)
	assertContains(t, output, []string{"PNG", "STXT", "snd"})

	resetFlags()
	output, err = captureOutput(t, func() error { return runCasts([]string{path}) })
	require.NoError(t, err)
	assertContains(t, output, []string{"Cast 3 (4/4 slots used)", "logo", "frame", "title", "beep", "Shape", "Sound"})
}

func TestContentCommands(t *testing.T) {
	path := testArchive(t)

	tests := []struct {
		name        string
		run         func(string) error
		wantContain []string
	}{
		{"bitmaps", runBitmaps, []string{"Png"}},
		{"shapes", runShapes, []string{"Director4To10UnsignedColors", "frame"}},
		{"fields", runFields, []string{"Stxt", "STXT"}},
		{"sounds", runSounds, []string{"beep", "Snd"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			output, err := captureOutput(t, func() error { return tt.run(path) })
			require.NoError(t, err)
			assertContains(t, output, tt.wantContain)

			resetFlags()
			jsonOut = true
			output, err = captureOutput(t, func() error { return tt.run(path) })
			require.NoError(t, err)
			var rows []contentRow
			require.NoError(t, json.Unmarshal([]byte(output), &rows))
			require.Len(t, rows, 1)
			assert.NotEmpty(t, rows[0].Digest)
		})
	}
}

func TestFieldsVerboseShowsText(t *testing.T) {
	resetFlags()
	verbose = true
	output, err := captureOutput(t, func() error { return runFields(testArchive(t)) })
	require.NoError(t, err)
	assert.Contains(t, output, "Hello, Stage")
}

func TestDiagnosticsFlagWrapsJSON(t *testing.T) {
	resetFlags()
	jsonOut = true
	showDiag = true
	output, err := captureOutput(t, func() error { return runSounds(testArchive(t)) })
	require.NoError(t, err)

	var wrapped map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(output), &wrapped))
	assert.Contains(t, wrapped, "sounds")
	assert.Contains(t, wrapped, "diagnostics")
}

func TestExtractCommand(t *testing.T) {
	path := testArchive(t)
	out := filepath.Join(t.TempDir(), "out")

	resetFlags()
	quiet = true
	_, err := captureOutput(t, func() error { return runExtract([]string{path, out}) })
	require.NoError(t, err)

	text, err := os.ReadFile(filepath.Join(out, "9.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Hello, Stage", string(text))

	shape, err := os.ReadFile(filepath.Join(out, "7_frame.shape"))
	require.NoError(t, err)
	assert.Len(t, shape, 17)

	_, err = os.Stat(filepath.Join(out, "6.png"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "10_beep.snd"))
	require.NoError(t, err)

	resetFlags()
	jsonOut = true
	extractIDs = []int32{11}
	output, err := captureOutput(t, func() error { return runExtract([]string{path, out}) })
	require.NoError(t, err)
	assertJSON(t, output)
	raw, err := os.ReadFile(filepath.Join(out, "11.snd"))
	require.NoError(t, err)
	assert.Equal(t, "ID3", string(raw[:3]))

	resetFlags()
	extractKind = "movies"
	_, err = captureOutput(t, func() error { return runExtract([]string{path, out}) })
	require.Error(t, err)
}

func TestStrictLimitsSkipOversizedChunks(t *testing.T) {
	b := writer.NewBuilder(testutil.Director8)
	b.Add(format.TagKeyTable, writer.KeyTable(true))
	b.Add(format.TagBITD, make([]byte, types.StrictMaxChunkSize+1))
	path := testutil.WriteArchive(t, "large.dir", b.Bytes())

	resetFlags()
	jsonOut = true
	output, err := captureOutput(t, func() error { return runBitmaps(path) })
	require.NoError(t, err)
	var rows []contentRow
	require.NoError(t, json.Unmarshal([]byte(output), &rows))
	assert.Len(t, rows, 1)

	resetFlags()
	jsonOut = true
	strict = true
	opts, err := openOptions(path)
	require.NoError(t, err)
	require.NotNil(t, opts.Limits)
	assert.Equal(t, types.StrictLimits(), *opts.Limits)

	output, err = captureOutput(t, func() error { return runBitmaps(path) })
	require.NoError(t, err)
	rows = nil
	require.NoError(t, json.Unmarshal([]byte(output), &rows))
	assert.Empty(t, rows)
}

func TestInvalidFlags(t *testing.T) {
	path := testArchive(t)

	resetFlags()
	logLevel = "loud"
	_, err := captureOutput(t, func() error { return runCasts([]string{path}) })
	require.Error(t, err)

	resetFlags()
	nameEncoding = "ebcdic"
	_, err = captureOutput(t, func() error { return runCasts([]string{path}) })
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	resetFlags()
	output, err := captureOutput(t, func() error {
		versionCmd.Run(versionCmd, nil)
		return nil
	})
	require.NoError(t, err)
	assert.Contains(t, output, "dirctl dev")
}
