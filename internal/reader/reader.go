// Package reader provides the concrete types.Archive implementation. The
// exported entry points are used by pkg/director and the CLI to obtain a
// types.Archive without exposing the parsing machinery directly.
package reader

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/joshuapare/dirkit/internal/format"
	"github.com/joshuapare/dirkit/internal/mmfile"
	"github.com/joshuapare/dirkit/pkg/types"
)

// mapFile loads archive files for Open.
var mapFile = mmfile.Map

// Open maps the archive at path and returns an implementation of
// types.Archive. The mapping belongs to the archive, so opts.LeaveOpen is
// ignored and Close always unmaps.
func Open(path string, opts types.OpenOptions) (types.Archive, error) {
	data, unmap, err := mapFile(path)
	if err != nil {
		return nil, wrapIOErr(fmt.Errorf("open archive: %w", err))
	}
	if opts.SourceName == "" {
		opts.SourceName = path
	}
	opts.LeaveOpen = false
	return OpenSource(NewFuncSource(data, unmap), opts)
}

// OpenBytes creates an archive backed by the provided buffer. The buffer is
// never modified and has nothing to release.
func OpenBytes(b []byte, opts types.OpenOptions) (types.Archive, error) {
	return OpenSource(NewFuncSource(b, nil), opts)
}

// OpenSource creates an archive over src. The container is parsed once up
// front so structural failures surface here. On failure src is closed
// unless opts.LeaveOpen is set.
func OpenSource(src types.ByteSource, opts types.OpenOptions) (types.Archive, error) {
	r, err := newReader(src, opts)
	if err != nil {
		if !opts.LeaveOpen {
			_ = src.Close()
		}
		return nil, err
	}
	return r, nil
}

type reader struct {
	src    types.ByteSource
	buf    []byte
	opts   types.OpenOptions
	limits types.Limits

	mu     sync.RWMutex // held for reading by every Read*, for writing by Close
	closed bool

	seen        *diagnosticSet
	diagnostics *diagnosticCollector // nil unless CollectDiagnostics=true
}

func newReader(src types.ByteSource, opts types.OpenOptions) (*reader, error) {
	limits := types.DefaultLimits()
	if opts.Limits != nil {
		limits = opts.Limits.Normalize()
	}
	r := &reader{
		src:    src,
		buf:    src.Bytes(),
		opts:   opts,
		limits: limits,
		seen:   newDiagnosticSet(),
	}
	if opts.CollectDiagnostics {
		r.diagnostics = newDiagnosticCollector(opts.SourceName, len(r.buf))
	}

	ctx, err := r.parse()
	if err != nil {
		r.log().Debug("open failed", "source", opts.SourceName, "err", err)
		return nil, err
	}
	r.log().Debug("opened archive",
		"source", opts.SourceName,
		"codec", ctx.version.Codec,
		"version", ctx.version.Label(),
		"resources", ctx.dir.Len(),
		"linkage", ctx.link.kind(),
	)
	return r, nil
}

func (r *reader) log() *slog.Logger {
	if r.opts.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.opts.Logger
}

// Close releases the byte source unless the archive was opened with
// LeaveOpen. Subsequent calls are no-ops.
func (r *reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if r.opts.LeaveOpen {
		return nil
	}
	if err := r.src.Close(); err != nil {
		return wrapIOErr(fmt.Errorf("release source: %w", err))
	}
	return nil
}

// begin takes the read lock and builds a fresh parse context. The returned
// func releases the lock.
func (r *reader) begin() (*parseContext, func(), error) {
	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return nil, nil, types.ErrClosed
	}
	ctx, err := r.parse()
	if err != nil {
		r.mu.RUnlock()
		return nil, nil, err
	}
	return ctx, r.mu.RUnlock, nil
}

func (r *reader) Diagnostics() *types.DiagnosticReport {
	return r.diagnostics.getReport()
}

func (r *reader) ReadDirFilesContainer() (types.Container, error) {
	ctx, done, err := r.begin()
	if err != nil {
		return types.Container{}, err
	}
	defer done()
	return ctx.container(), nil
}

func (r *reader) ReadKeyLinks() ([]types.ResourceKeyLink, error) {
	ctx, done, err := r.begin()
	if err != nil {
		return nil, err
	}
	defer done()
	return ctx.link.keyLinks(), nil
}

func (r *reader) ReadCastLibraries() ([]types.CastLibrary, error) {
	ctx, done, err := r.begin()
	if err != nil {
		return nil, err
	}
	defer done()
	return ctx.castLibraries(), nil
}

func (r *reader) ReadBitmaps() ([]types.BitmapRecord, error) {
	ctx, done, err := r.begin()
	if err != nil {
		return nil, err
	}
	defer done()
	return ctx.bitmaps(), nil
}

func (r *reader) ReadShapes() ([]types.ShapeRecord, error) {
	ctx, done, err := r.begin()
	if err != nil {
		return nil, err
	}
	defer done()
	return ctx.shapes(), nil
}

func (r *reader) ReadFields() ([]types.FieldRecord, error) {
	ctx, done, err := r.begin()
	if err != nil {
		return nil, err
	}
	defer done()
	return ctx.fields(), nil
}

func (r *reader) ReadSounds() ([]types.SoundRecord, error) {
	ctx, done, err := r.begin()
	if err != nil {
		return nil, err
	}
	defer done()
	return ctx.sounds(), nil
}

func (r *reader) ResourceData(id int32) ([]byte, error) {
	ctx, done, err := r.begin()
	if err != nil {
		return nil, err
	}
	defer done()
	e, ok := ctx.dir.Lookup(id)
	if !ok {
		return nil, &types.Error{Kind: types.ErrKindNotFound, Msg: fmt.Sprintf("resource %d", id)}
	}
	data, err := ctx.payload(e)
	if err != nil {
		return nil, err
	}
	return clone(data), nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func wrapIOErr(err error) error {
	return &types.Error{Kind: types.ErrKindState, Msg: err.Error(), Err: err}
}

func wrapFormatErr(err error) error {
	switch {
	case errors.Is(err, format.ErrUnknownMagic):
		return &types.Error{Kind: types.ErrKindUnknownMagic, Msg: "not a Director archive", Err: err}
	case errors.Is(err, format.ErrNoResourceMap):
		return &types.Error{Kind: types.ErrKindMissingResourceDirectory, Msg: "resource directory unreadable", Err: err}
	case errors.Is(err, format.ErrTruncated):
		return &types.Error{Kind: types.ErrKindTruncatedHeader, Msg: "archive truncated", Err: err}
	default:
		return &types.Error{Kind: types.ErrKindCorrupt, Msg: err.Error(), Err: err}
	}
}
