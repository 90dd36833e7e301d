package director

import (
	"fmt"

	"github.com/opencontainers/go-digest"

	"github.com/joshuapare/dirkit/internal/reader"
	"github.com/joshuapare/dirkit/pkg/types"
)

// Re-exported so callers need only this package for common use.
type (
	Archive     = types.Archive
	OpenOptions = types.OpenOptions
	ByteSource  = types.ByteSource
	Limits      = types.Limits
)

// Open maps the archive at path.
func Open(path string, opts OpenOptions) (Archive, error) {
	return reader.Open(path, opts)
}

// OpenBytes reads an archive from an in-memory buffer. The buffer must not
// be modified while the archive is in use.
func OpenBytes(b []byte, opts OpenOptions) (Archive, error) {
	return reader.OpenBytes(b, opts)
}

// OpenSource reads an archive from src. Close releases src unless
// opts.LeaveOpen is set; a failed open releases it under the same rule.
func OpenSource(src ByteSource, opts OpenOptions) (Archive, error) {
	return reader.OpenSource(src, opts)
}

// NewSource wraps b as a ByteSource whose Close calls release once.
// release may be nil.
func NewSource(b []byte, release func() error) ByteSource {
	return reader.NewFuncSource(b, release)
}

// Summary is everything Inspect learned about one archive.
type Summary struct {
	Container     types.Container         `json:"container"`
	KeyLinks      int                     `json:"key_links"`
	CastLibraries []types.CastLibrary     `json:"cast_libraries"`
	Bitmaps       int                     `json:"bitmaps"`
	Shapes        int                     `json:"shapes"`
	Fields        int                     `json:"fields"`
	Sounds        int                     `json:"sounds"`
	Diagnostics   *types.DiagnosticReport `json:"diagnostics,omitempty"`
}

// Inspect parses src once, runs every reader and releases src unless
// opts.LeaveOpen is set.
func Inspect(src ByteSource, opts OpenOptions) (Summary, error) {
	a, err := reader.OpenSource(src, opts)
	if err != nil {
		return Summary{}, err
	}
	defer a.Close()
	return summarize(a)
}

// InspectFile is Inspect over a mapped file.
func InspectFile(path string, opts OpenOptions) (Summary, error) {
	a, err := reader.Open(path, opts)
	if err != nil {
		return Summary{}, err
	}
	defer a.Close()
	return summarize(a)
}

func summarize(a Archive) (Summary, error) {
	var s Summary
	var err error
	if s.Container, err = a.ReadDirFilesContainer(); err != nil {
		return s, fmt.Errorf("read container: %w", err)
	}
	links, err := a.ReadKeyLinks()
	if err != nil {
		return s, fmt.Errorf("read key links: %w", err)
	}
	s.KeyLinks = len(links)
	if s.CastLibraries, err = a.ReadCastLibraries(); err != nil {
		return s, fmt.Errorf("read cast libraries: %w", err)
	}
	bitmaps, err := a.ReadBitmaps()
	if err != nil {
		return s, fmt.Errorf("read bitmaps: %w", err)
	}
	shapes, err := a.ReadShapes()
	if err != nil {
		return s, fmt.Errorf("read shapes: %w", err)
	}
	fields, err := a.ReadFields()
	if err != nil {
		return s, fmt.Errorf("read fields: %w", err)
	}
	sounds, err := a.ReadSounds()
	if err != nil {
		return s, fmt.Errorf("read sounds: %w", err)
	}
	s.Bitmaps, s.Shapes, s.Fields, s.Sounds = len(bitmaps), len(shapes), len(fields), len(sounds)
	s.Diagnostics = a.Diagnostics()
	return s, nil
}

// ResourceDigest returns the content digest of resource id's payload.
func ResourceDigest(a Archive, id int32) (digest.Digest, error) {
	data, err := a.ResourceData(id)
	if err != nil {
		return "", err
	}
	return digest.FromBytes(data), nil
}

// ParseDigest validates a digest string such as "sha256:...".
func ParseDigest(s string) (digest.Digest, error) {
	d, err := digest.Parse(s)
	if err != nil {
		return "", fmt.Errorf("parse digest %q: %w", s, err)
	}
	return d, nil
}
