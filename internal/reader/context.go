package reader

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joshuapare/dirkit/internal/buf"
	"github.com/joshuapare/dirkit/internal/format"
	"github.com/joshuapare/dirkit/pkg/types"
)

// parseContext is the private state of one read: a cursor over the archive
// bytes plus everything derived from them. It is built per call and never
// shared.
type parseContext struct {
	r       *reader
	buf     []byte
	cur     *buf.Cursor
	header  format.Header
	imap    format.IMap
	version format.Version
	dir     types.ResourceDirectory
	link    linkage
}

// parse walks header, imap and mmap and resolves the linkage.
func (r *reader) parse() (*parseContext, error) {
	h, err := format.ParseHeader(r.buf)
	if err != nil {
		return nil, wrapFormatErr(err)
	}
	if h.Codec.Compressed() {
		return nil, &types.Error{
			Kind: types.ErrKindMissingResourceDirectory,
			Msg:  fmt.Sprintf("compressed %s archive", h.Codec),
			Err:  format.ErrUnsupported,
		}
	}

	c := buf.NewCursor(r.buf, h.BigEndian)
	im, err := format.ReadIMap(c, h.PayloadEnd)
	if err != nil {
		return nil, wrapFormatErr(err)
	}
	_, raw, err := format.ReadMMap(c, int(im.MapOffset), h.PayloadEnd, r.limits.MaxResources)
	if err != nil {
		return nil, wrapFormatErr(err)
	}

	entries := make([]types.ResourceEntry, 0, len(raw))
	for i, e := range raw {
		if format.IsFreeTag(e.Tag) {
			continue
		}
		entries = append(entries, types.ResourceEntry{
			ID:       int32(i),
			Tag:      e.Tag,
			Size:     e.Size,
			Offset:   e.Offset,
			Flags:    e.Flags,
			RefCount: e.RefCount,
			Next:     e.Next,
		})
	}

	ctx := &parseContext{
		r:       r,
		buf:     r.buf,
		cur:     c,
		header:  h,
		imap:    im,
		version: format.NewVersion(h, im),
		dir:     types.NewResourceDirectory(entries),
	}
	if !h.Codec.Known() {
		ctx.diag(diagCompat(types.ResourceEntry{Tag: format.Tag(h.Codec)}, types.ErrKindCompat,
			fmt.Sprintf("unrecognized codec %s, assuming %s", h.Codec, ctx.version.Label())))
	}
	ctx.link = ctx.resolveLinkage()
	return ctx, nil
}

// diag logs d and records it. Issues already reported by an earlier read
// are logged at Debug and not recorded again.
func (ctx *parseContext) diag(d types.Diagnostic) {
	first := ctx.r.seen.first(d)
	level := slog.LevelWarn
	switch {
	case !first:
		level = slog.LevelDebug
	case d.Severity == types.SevInfo:
		level = slog.LevelInfo
	case d.Severity == types.SevError:
		level = slog.LevelError
	}
	ctx.r.log().Log(context.Background(), level, d.Issue,
		"source", ctx.r.opts.SourceName,
		"resource", d.ResourceID,
		"tag", d.Tag,
		"offset", d.Offset,
		"err", d.Err,
	)
	if first {
		ctx.r.diagnostics.record(d)
	}
}

// payload returns a view of e's chunk payload, validated against the map.
func (ctx *parseContext) payload(e types.ResourceEntry) ([]byte, error) {
	limit := ctx.r.limits.MaxChunkSize
	if int64(e.Size) > int64(limit) {
		return nil, resourceErr(e, fmt.Errorf("size %d exceeds limit %d", e.Size, limit))
	}
	h, err := format.ReadChunkHeader(ctx.cur, int(e.Offset), ctx.header.PayloadEnd)
	if err != nil {
		return nil, resourceErr(e, err)
	}
	if h.Tag != e.Tag {
		return nil, resourceErr(e, fmt.Errorf("%w: map says %s, chunk says %s", format.ErrTagMismatch, e.Tag, h.Tag))
	}
	if int64(h.Length) > int64(limit) {
		return nil, resourceErr(e, fmt.Errorf("length %d exceeds limit %d", h.Length, limit))
	}
	return ctx.buf[h.PayloadOffset : h.PayloadOffset+int(h.Length)], nil
}

func resourceErr(e types.ResourceEntry, err error) error {
	return &types.Error{
		Kind: types.ErrKindCorrupt,
		Msg:  fmt.Sprintf("resource %d (%s) at 0x%X", e.ID, e.Tag, e.Offset),
		Err:  err,
	}
}

func (ctx *parseContext) container() types.Container {
	v := ctx.version
	return types.Container{
		Source: ctx.r.opts.SourceName,
		DataBlock: types.DataBlock{
			Magic:        ctx.header.Magic,
			PayloadStart: ctx.header.PayloadStart,
			DeclaredSize: ctx.header.DeclaredSize,
			PayloadEnd:   ctx.header.PayloadEnd,
			IsProjector:  v.Projector(),
			FormatDescriptor: types.FormatDescriptor{
				Codec:                v.Codec,
				ArchiveVersion:       v.ArchiveVersion,
				MapVersion:           v.MapVersion,
				IsBigEndian:          v.BigEndian,
				DirectorVersion:      v.Director,
				DirectorVersionLabel: v.Label(),
			},
		},
		Resources: ctx.dir,
		Linkage:   ctx.link.kind(),
	}
}
