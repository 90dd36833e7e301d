package format

import (
	"errors"
	"testing"

	"github.com/joshuapare/dirkit/internal/buf"
)

// buildMaps lays out header, imap at 12 and an mmap at 32 holding entries.
func buildMaps(t *testing.T, big bool, entries []MMapEntry, countMax uint32) []byte {
	t.Helper()
	mmapLen := MMapMinHeaderSize + len(entries)*MMapEntrySize
	total := 32 + ChunkHeaderSize + mmapLen
	b := make([]byte, total)
	c := buf.NewCursor(b, big)
	magic := TagRIFX
	if !big {
		magic = TagXFIR
	}
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("build: %v", err)
		}
	}
	mb := magic.Bytes()
	copy(b, mb[:])
	_ = c.Seek(HeaderSizeOffset)
	must(c.PutU32(uint32(total - 8)))
	must(c.PutTag(uint32(CodecMovie)))
	must(c.PutTag(uint32(TagIMap)))
	must(c.PutU32(12))
	must(c.PutU32(1))
	must(c.PutU32(32))
	must(c.PutU32(0x708))
	must(c.PutTag(uint32(TagMMap)))
	must(c.PutU32(uint32(mmapLen)))
	must(c.PutU16(MMapMinHeaderSize))
	must(c.PutU16(MMapEntrySize))
	must(c.PutU32(countMax))
	must(c.PutU32(uint32(len(entries))))
	for _, e := range entries {
		must(c.PutTag(uint32(e.Tag)))
		must(c.PutU32(e.Size))
		must(c.PutU32(e.Offset))
		must(c.PutU16(e.Flags))
		must(c.PutU16(e.RefCount))
		must(c.PutI32(e.Next))
	}
	return b
}

func TestReadIMapAndMMap(t *testing.T) {
	entries := []MMapEntry{
		{Tag: TagRIFX, Size: 0, Offset: 0},
		{Tag: TagIMap, Size: 12, Offset: 12},
		{Tag: TagMMap, Size: 72, Offset: 32},
		{Tag: TagFree, Next: -1},
	}
	for _, big := range []bool{true, false} {
		b := buildMaps(t, big, entries, 8)
		h, err := ParseHeader(b)
		if err != nil {
			t.Fatalf("ParseHeader: %v", err)
		}
		c := buf.NewCursor(b, h.BigEndian)
		im, err := ReadIMap(c, h.PayloadEnd)
		if err != nil {
			t.Fatalf("ReadIMap: %v", err)
		}
		if im.MapOffset != 32 || im.ArchiveVersion != 0x708 || im.MapVersion != 1 {
			t.Fatalf("imap = %+v", im)
		}
		mh, got, err := ReadMMap(c, int(im.MapOffset), h.PayloadEnd, 0)
		if err != nil {
			t.Fatalf("ReadMMap: %v", err)
		}
		if mh.CountMax != 8 || len(got) != len(entries) {
			t.Fatalf("mmap header %+v, %d entries", mh, len(got))
		}
		for i := range entries {
			if got[i] != entries[i] {
				t.Fatalf("big=%v entry %d = %+v, want %+v", big, i, got[i], entries[i])
			}
		}
	}
}

func TestReadMMapRejectsBadCounts(t *testing.T) {
	entries := []MMapEntry{{Tag: TagRIFX}, {Tag: TagIMap}}
	b := buildMaps(t, true, entries, 1)
	c := buf.NewCursor(b, true)
	if _, _, err := ReadMMap(c, 32, len(b), 0); !errors.Is(err, ErrNoResourceMap) {
		t.Fatalf("used > max should fail, got %v", err)
	}

	b = buildMaps(t, true, entries, 4)
	c = buf.NewCursor(b, true)
	if _, _, err := ReadMMap(c, 32, len(b), 1); !errors.Is(err, ErrNoResourceMap) {
		t.Fatalf("limit should fail, got %v", err)
	}
	if _, _, err := ReadMMap(c, 12, len(b), 0); !errors.Is(err, ErrNoResourceMap) {
		t.Fatalf("wrong tag should fail, got %v", err)
	}
}

func TestReadIMapMissing(t *testing.T) {
	b := buildMaps(t, true, nil, 0)
	copy(b[12:], "junk")
	c := buf.NewCursor(b, true)
	if _, err := ReadIMap(c, len(b)); !errors.Is(err, ErrNoResourceMap) {
		t.Fatalf("expected ErrNoResourceMap, got %v", err)
	}
}

func TestReadChunkHeaderPastLimit(t *testing.T) {
	b := make([]byte, 16)
	c := buf.NewCursor(b, true)
	_ = c.PutTag(uint32(TagSTXT))
	_ = c.PutU32(100)
	if _, err := ReadChunkHeader(c, 0, len(b)); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestDecodeKeyTable(t *testing.T) {
	for _, big := range []bool{true, false} {
		b := make([]byte, KeyTableMinHeaderSize+2*KeyEntrySize)
		c := buf.NewCursor(b, big)
		_ = c.PutU16(KeyTableMinHeaderSize)
		_ = c.PutU16(KeyEntrySize)
		_ = c.PutU32(4)
		_ = c.PutU32(2)
		_ = c.PutI32(14)
		_ = c.PutI32(10)
		_ = c.PutTag(uint32(TagALFA))
		_ = c.PutI32(15)
		_ = c.PutI32(10)
		_ = c.PutTag(uint32(TagThumLower))

		got, err := DecodeKeyTable(b, big)
		if err != nil {
			t.Fatalf("DecodeKeyTable: %v", err)
		}
		want := []KeyEntry{{14, 10, TagALFA}, {15, 10, TagThumLower}}
		if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
			t.Fatalf("big=%v entries = %+v", big, got)
		}
		if _, err := DecodeKeyTable(b[:len(b)-1], big); !errors.Is(err, ErrTruncated) {
			t.Fatalf("truncated table should fail, got %v", err)
		}
	}
}

func TestDecodeCastList(t *testing.T) {
	got := DecodeCastList([]byte{0, 0, 0, 5, 0, 0, 0, 0, 0, 0, 1, 0, 9})
	if len(got) != 3 || got[0] != 5 || got[1] != 0 || got[2] != 256 {
		t.Fatalf("DecodeCastList = %v", got)
	}
}
