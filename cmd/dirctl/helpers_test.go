package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/dirkit/internal/format"
	"github.com/joshuapare/dirkit/internal/testutil"
	"github.com/joshuapare/dirkit/internal/writer"
)

// testArchive writes a Director 8 movie with a cast holding a bitmap, a
// shape, a field and a sound, and returns its path.
func testArchive(t *testing.T) string {
	t.Helper()
	v := testutil.Version(testutil.Director8)
	b := writer.NewBuilder(testutil.Director8)
	castList := b.Add(format.TagCastList, nil)
	keys := b.Add(format.TagKeyTable, nil)

	bitmap := b.Add(format.TagCastInfo, writer.Member(v.MemberLayout(), uint32(format.MemberTypeBitmap), nil, writer.MemberInfo("logo", "")))
	png := b.Add(format.TagPNG, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0})
	shape := b.Add(format.TagCastInfo, writer.ShapeMember(v, format.Shape{ShapeType: 1, Bottom: 20, Right: 30, ForeColor: 255}, "frame"))
	field := b.Add(format.TagCastInfo, writer.Member(v.MemberLayout(), uint32(format.MemberTypeField), nil, writer.MemberInfo("title", "")))
	text := b.Add(format.TagSTXT, writer.STXT("Hello, Stage", nil))
	sound := b.Add(format.TagCastInfo, writer.Member(v.MemberLayout(), uint32(format.MemberTypeSound), nil, writer.MemberInfo("beep", "")))
	audio := b.Add(format.TagSnd, []byte("ID3\x03\x00\x00\x00\x00\x00\x00"))

	require.NoError(t, b.Replace(castList, format.TagCastList, writer.CastList(bitmap, shape, field, sound)))
	require.NoError(t, b.Replace(keys, format.TagKeyTable, writer.KeyTable(true,
		format.KeyEntry{ChildID: png, OwnerID: bitmap, Tag: format.TagPNG},
		format.KeyEntry{ChildID: text, OwnerID: field, Tag: format.TagSTXT},
		format.KeyEntry{ChildID: audio, OwnerID: sound, Tag: format.TagSnd},
	)))

	return testutil.WriteArchive(t, "movie.dir", b.Bytes())
}

// resetFlags restores the global flags between tests.
func resetFlags() {
	verbose = false
	quiet = false
	jsonOut = false
	logLevel = ""
	showDiag = false
	strict = false
	concurrency = 0
	nameEncoding = ""
	resourcesTag = ""
	extractKind = "all"
	extractIDs = nil
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.Bytes()
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	out := <-done
	return string(out), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}
