package writer

import (
	"fmt"

	"github.com/joshuapare/dirkit/internal/buf"
	"github.com/joshuapare/dirkit/internal/format"
)

// Fixed layout of a built archive: header, imap at 12, mmap right after.
const (
	imapPayloadSize = format.IMapMinSize
	mmapOffset      = format.IMapOffset + format.ChunkHeaderSize + imapPayloadSize
)

// Options selects the envelope of a built archive.
type Options struct {
	BigEndian bool
	// RIFF selects the RIFF/FFIR magic instead of RIFX/XFIR.
	RIFF           bool
	Codec          format.Codec
	ArchiveVersion uint32
	MapVersion     uint32
}

type resource struct {
	tag  format.Tag
	data []byte
}

// Builder assembles an archive resource by resource. Ids are assigned in
// call order; 0, 1 and 2 are the container, imap and mmap.
type Builder struct {
	opts Options
	res  []resource
}

// NewBuilder returns a builder with the three structural entries reserved.
func NewBuilder(opts Options) *Builder {
	if opts.Codec == 0 {
		opts.Codec = format.CodecMovie
	}
	b := &Builder{opts: opts}
	b.res = append(b.res,
		resource{tag: format.TagRIFX},
		resource{tag: format.TagIMap},
		resource{tag: format.TagMMap},
	)
	return b
}

// Add appends a chunk and returns its resource id.
func (b *Builder) Add(tag format.Tag, data []byte) int32 {
	b.res = append(b.res, resource{tag: tag, data: data})
	return int32(len(b.res) - 1)
}

// AddFree appends an unused map slot and returns its id.
func (b *Builder) AddFree() int32 {
	b.res = append(b.res, resource{tag: format.TagFree})
	return int32(len(b.res) - 1)
}

// PadTo appends free slots until the next Add receives id.
func (b *Builder) PadTo(id int32) {
	for int32(len(b.res)) < id {
		b.AddFree()
	}
}

// NextID returns the id the next Add will receive.
func (b *Builder) NextID() int32 { return int32(len(b.res)) }

// Replace swaps the chunk stored under id.
func (b *Builder) Replace(id int32, tag format.Tag, data []byte) error {
	if id < 3 || int(id) >= len(b.res) {
		return fmt.Errorf("writer: cannot replace resource %d", id)
	}
	b.res[id] = resource{tag: tag, data: data}
	return nil
}

// MMapEntryOffset returns the absolute offset of id's map record in the
// built archive.
func MMapEntryOffset(id int32) int {
	return mmapOffset + format.ChunkHeaderSize + format.MMapMinHeaderSize + int(id)*format.MMapEntrySize
}

// Bytes lays out the archive. Chunks follow the map in id order, each padded
// to an even length.
func (b *Builder) Bytes() []byte {
	n := len(b.res)
	mmapLen := format.MMapMinHeaderSize + n*format.MMapEntrySize

	offsets := make([]int, n)
	pos := mmapOffset + format.ChunkHeaderSize + mmapLen
	for i := 3; i < n; i++ {
		if format.IsFreeTag(b.res[i].tag) {
			continue
		}
		offsets[i] = pos
		pos += format.ChunkHeaderSize + len(b.res[i].data)
		pos += pos & 1
	}
	total := pos

	out := make([]byte, total)
	c := buf.NewCursor(out, b.opts.BigEndian)
	magic := b.magic().Bytes()
	_ = c.PutBytes(magic[:])
	_ = c.PutU32(uint32(total - format.ChunkHeaderSize))
	_ = c.PutTag(uint32(b.opts.Codec))

	_ = c.PutTag(uint32(format.TagIMap))
	_ = c.PutU32(imapPayloadSize)
	_ = c.PutU32(b.opts.MapVersion)
	_ = c.PutU32(mmapOffset)
	_ = c.PutU32(b.opts.ArchiveVersion)

	_ = c.PutTag(uint32(format.TagMMap))
	_ = c.PutU32(uint32(mmapLen))
	_ = c.PutU16(format.MMapMinHeaderSize)
	_ = c.PutU16(format.MMapEntrySize)
	_ = c.PutU32(uint32(n))
	_ = c.PutU32(uint32(n))
	for i, r := range b.res {
		var size, off uint32
		next := int32(0)
		switch {
		case i == 0:
			r.tag = b.containerTag()
			size, off = uint32(total-format.ChunkHeaderSize), 0
		case i == 1:
			size, off = imapPayloadSize, format.IMapOffset
		case i == 2:
			size, off = uint32(mmapLen), mmapOffset
		case format.IsFreeTag(r.tag):
			next = -1
		default:
			size, off = uint32(len(r.data)), uint32(offsets[i])
		}
		_ = c.PutTag(uint32(r.tag))
		_ = c.PutU32(size)
		_ = c.PutU32(off)
		_ = c.PutU16(0)
		_ = c.PutU16(0)
		_ = c.PutI32(next)
	}

	for i := 3; i < n; i++ {
		r := b.res[i]
		if format.IsFreeTag(r.tag) {
			continue
		}
		_ = c.Seek(offsets[i])
		_ = c.PutTag(uint32(r.tag))
		_ = c.PutU32(uint32(len(r.data)))
		_ = c.PutBytes(r.data)
	}
	return out
}

// Emit writes the built archive to dst.
func (b *Builder) Emit(dst Sink) error {
	return dst.WriteBytes(b.Bytes())
}

func (b *Builder) magic() format.Tag {
	switch {
	case b.opts.RIFF && b.opts.BigEndian:
		return format.TagRIFF
	case b.opts.RIFF:
		return format.TagFFIR
	case b.opts.BigEndian:
		return format.TagRIFX
	default:
		return format.TagXFIR
	}
}

// containerTag is the magic as a chunk tag read in file order, which is how
// the reader sees the chunk at offset 0.
func (b *Builder) containerTag() format.Tag {
	m := b.magic()
	if b.opts.BigEndian {
		return m
	}
	v := uint32(m)
	return format.Tag(v>>24 | v>>8&0xFF00 | v<<8&0xFF0000 | v<<24)
}
