// Package testutil holds helpers shared by tests that synthesize archives
// with internal/writer.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/joshuapare/dirkit/internal/format"
	"github.com/joshuapare/dirkit/internal/writer"
)

// Builder presets for the generations tests exercise most.
var (
	// Director8 is a big-endian MV93 movie with modern layouts.
	Director8 = writer.Options{BigEndian: true, Codec: format.CodecMovie, ArchiveVersion: 0x708}
	// Director6Cast is a little-endian MC95 cast file.
	Director6Cast = writer.Options{Codec: format.CodecCast, ArchiveVersion: 0x4C7}
	// Director3 is a big-endian RIFF-era movie with vintage layouts.
	Director3 = writer.Options{BigEndian: true, RIFF: true, Codec: format.CodecRIFFMovie, ArchiveVersion: 0x300}
)

// Version resolves the generation a builder configuration produces, so
// tests encode member payloads with the layout the reader will expect.
func Version(opts writer.Options) format.Version {
	magic := format.TagRIFX
	if !opts.BigEndian {
		magic = format.TagXFIR
	}
	codec := opts.Codec
	if codec == 0 {
		codec = format.CodecMovie
	}
	return format.NewVersion(
		format.Header{Magic: magic, BigEndian: opts.BigEndian, Codec: codec},
		format.IMap{ArchiveVersion: opts.ArchiveVersion, MapVersion: opts.MapVersion},
	)
}

// WriteArchive writes data to name inside a per-test temporary directory
// and returns the path.
//
// Example:
//
//	path := testutil.WriteArchive(t, "movie.dir", b.Bytes())
func WriteArchive(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	w := &writer.FileWriter{Path: path}
	if err := w.WriteBytes(data); err != nil {
		t.Fatalf("Failed to write test archive: %v", err)
	}
	return path
}
