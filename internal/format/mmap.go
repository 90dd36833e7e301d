package format

import (
	"errors"
	"fmt"

	"github.com/joshuapare/dirkit/internal/buf"
)

// ChunkHeader is the tag + length prefix of a chunk and where its payload
// begins.
type ChunkHeader struct {
	Tag           Tag
	Length        uint32
	Offset        int // absolute offset of the chunk header
	PayloadOffset int
}

// ReadChunkHeader decodes the chunk header at the absolute offset at. The
// payload must fit before limit (normally the archive's payload end).
func ReadChunkHeader(c *buf.Cursor, at, limit int) (ChunkHeader, error) {
	if err := c.Seek(at); err != nil {
		return ChunkHeader{}, fmt.Errorf("chunk at %d: %w", at, ErrTruncated)
	}
	tag, err := c.ReadTag()
	if err != nil {
		return ChunkHeader{}, fmt.Errorf("chunk at %d tag: %w", at, ErrTruncated)
	}
	length, err := c.ReadU32()
	if err != nil {
		return ChunkHeader{}, fmt.Errorf("chunk %s at %d length: %w", Tag(tag), at, ErrTruncated)
	}
	payload := c.Pos()
	end, ok := buf.AddOverflowSafe(payload, int(length))
	if !ok || end > limit || end > c.Len() {
		return ChunkHeader{}, fmt.Errorf(
			"chunk %s at %d: %w (length %d past end %d)",
			Tag(tag), at, ErrTruncated, length, limit,
		)
	}
	return ChunkHeader{Tag: Tag(tag), Length: length, Offset: at, PayloadOffset: payload}, nil
}

// IMap is the initial map chunk: a pointer to the resource map plus the
// archive version code.
type IMap struct {
	HeaderSize     uint32 // chunk length
	MapVersion     uint32
	MapOffset      uint32
	ArchiveVersion uint32
}

// ReadIMap decodes the imap chunk at IMapOffset.
func ReadIMap(c *buf.Cursor, limit int) (IMap, error) {
	h, err := ReadChunkHeader(c, IMapOffset, limit)
	if err != nil {
		return IMap{}, fmt.Errorf("imap: %w: %w", ErrNoResourceMap, err)
	}
	if h.Tag != TagIMap {
		return IMap{}, fmt.Errorf("imap: %w (found %s at %d)", ErrNoResourceMap, h.Tag, IMapOffset)
	}
	if h.Length < IMapMinSize {
		return IMap{}, fmt.Errorf("imap: %w (length %d, need %d)", ErrNoResourceMap, h.Length, IMapMinSize)
	}
	m := IMap{HeaderSize: h.Length}
	// Bounds were validated by ReadChunkHeader.
	m.MapVersion, _ = c.ReadU32()
	m.MapOffset, _ = c.ReadU32()
	m.ArchiveVersion, _ = c.ReadU32()
	return m, nil
}

// MMapHeader is the fixed prefix of the resource map.
type MMapHeader struct {
	HeaderSize uint16
	EntrySize  uint16
	CountMax   uint32
	CountUsed  uint32
}

// MMapEntry is one raw resource map record. Its index in the map is its
// resource id.
type MMapEntry struct {
	Tag      Tag
	Size     uint32
	Offset   uint32
	Flags    uint16
	RefCount uint16
	Next     int32
}

// ReadMMap decodes the resource map chunk at offset and returns its header
// and every in-use record (free slots included; callers filter them).
// maxEntries guards against absurd counts before allocating.
func ReadMMap(c *buf.Cursor, offset, limit, maxEntries int) (MMapHeader, []MMapEntry, error) {
	h, err := ReadChunkHeader(c, offset, limit)
	if err != nil {
		return MMapHeader{}, nil, fmt.Errorf("mmap: %w: %w", ErrNoResourceMap, err)
	}
	if h.Tag != TagMMap {
		return MMapHeader{}, nil, fmt.Errorf("mmap: %w (found %s at %d)", ErrNoResourceMap, h.Tag, offset)
	}
	body, err := c.Sub(int(h.Length))
	if err != nil {
		return MMapHeader{}, nil, fmt.Errorf("mmap: %w: %w", ErrNoResourceMap, err)
	}

	var mh MMapHeader
	if mh, err = readTableHeader(body); err != nil {
		return MMapHeader{}, nil, fmt.Errorf("mmap header: %w: %w", ErrNoResourceMap, err)
	}
	if mh.HeaderSize < MMapMinHeaderSize {
		return mh, nil, fmt.Errorf("mmap: %w (header size %d)", ErrNoResourceMap, mh.HeaderSize)
	}
	if mh.EntrySize < MMapEntrySize {
		return mh, nil, fmt.Errorf("mmap: %w (entry size %d, need %d)", ErrNoResourceMap, mh.EntrySize, MMapEntrySize)
	}
	if mh.CountUsed > mh.CountMax {
		return mh, nil, fmt.Errorf("mmap: %w (used %d > max %d)", ErrNoResourceMap, mh.CountUsed, mh.CountMax)
	}
	if maxEntries > 0 && mh.CountUsed > uint32(maxEntries) {
		return mh, nil, fmt.Errorf("mmap: %w (%d entries exceeds limit %d)", ErrNoResourceMap, mh.CountUsed, maxEntries)
	}
	if _, err := buf.CheckListBounds(body.Len(), int(mh.HeaderSize), int(mh.CountUsed), int(mh.EntrySize)); err != nil {
		return mh, nil, fmt.Errorf("mmap entries: %w: %w", ErrNoResourceMap, err)
	}

	entries := make([]MMapEntry, mh.CountUsed)
	for i := range entries {
		if err := body.Seek(int(mh.HeaderSize) + i*int(mh.EntrySize)); err != nil {
			return mh, nil, fmt.Errorf("mmap entry %d: %w", i, err)
		}
		e, err := readMMapEntry(body)
		if err != nil {
			return mh, nil, fmt.Errorf("mmap entry %d: %w: %w", i, ErrNoResourceMap, err)
		}
		entries[i] = e
	}
	return mh, entries, nil
}

func readMMapEntry(c *buf.Cursor) (MMapEntry, error) {
	var e MMapEntry
	tag, err1 := c.ReadTag()
	size, err2 := c.ReadU32()
	off, err3 := c.ReadU32()
	flags, err4 := c.ReadU16()
	refs, err5 := c.ReadU16()
	next, err6 := c.ReadI32()
	if err := errors.Join(err1, err2, err3, err4, err5, err6); err != nil {
		return e, err
	}
	e = MMapEntry{Tag: Tag(tag), Size: size, Offset: off, Flags: flags, RefCount: refs, Next: next}
	return e, nil
}

// readTableHeader decodes the shared headerSize/entrySize/max/used prefix of
// the mmap and KEY* chunks.
func readTableHeader(c *buf.Cursor) (MMapHeader, error) {
	var h MMapHeader
	var err error
	if h.HeaderSize, err = c.ReadU16(); err != nil {
		return h, err
	}
	if h.EntrySize, err = c.ReadU16(); err != nil {
		return h, err
	}
	if h.CountMax, err = c.ReadU32(); err != nil {
		return h, err
	}
	if h.CountUsed, err = c.ReadU32(); err != nil {
		return h, err
	}
	return h, nil
}
