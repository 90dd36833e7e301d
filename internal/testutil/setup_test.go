package testutil

import (
	"os"
	"testing"

	"github.com/joshuapare/dirkit/internal/writer"
)

func TestVersionPresets(t *testing.T) {
	cases := []struct {
		opts     writer.Options
		director int
	}{
		{Director8, 8},
		{Director6Cast, 6},
		{Director3, 3},
		{writer.Options{}, 4},
	}
	for _, tc := range cases {
		if got := Version(tc.opts).Director; got != tc.director {
			t.Fatalf("Version(%+v).Director = %d, want %d", tc.opts, got, tc.director)
		}
	}
}

func TestWriteArchive(t *testing.T) {
	data := writer.NewBuilder(Director8).Bytes()
	path := WriteArchive(t, "movie.dir", data)
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got) != len(data) {
		t.Fatalf("wrote %d bytes, read %d", len(data), len(got))
	}
}
