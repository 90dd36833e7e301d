package writer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/dirkit/internal/buf"
	"github.com/joshuapare/dirkit/internal/format"
)

func TestBuilderLayoutParses(t *testing.T) {
	for _, big := range []bool{true, false} {
		b := NewBuilder(Options{BigEndian: big, Codec: format.CodecCast, ArchiveVersion: 0x4C7})
		stxt := b.Add(format.TagSTXT, STXT("hello", nil))
		b.AddFree()
		b.PadTo(8)
		bitd := b.Add(format.TagBITD, []byte{1, 2, 3})
		require.Equal(t, int32(3), stxt)
		require.Equal(t, int32(8), bitd)

		data := b.Bytes()
		h, err := format.ParseHeader(data)
		require.NoError(t, err)
		assert.Equal(t, big, h.BigEndian)
		assert.Equal(t, len(data), h.PayloadEnd)

		c := buf.NewCursor(data, big)
		im, err := format.ReadIMap(c, h.PayloadEnd)
		require.NoError(t, err)
		assert.Equal(t, 6, format.NewVersion(h, im).Director)

		_, entries, err := format.ReadMMap(c, int(im.MapOffset), h.PayloadEnd, 0)
		require.NoError(t, err)
		require.Len(t, entries, 9)
		assert.Equal(t, format.TagRIFX, entries[0].Tag)
		assert.Equal(t, format.TagFree, entries[4].Tag)

		ch, err := format.ReadChunkHeader(c, int(entries[bitd].Offset), h.PayloadEnd)
		require.NoError(t, err)
		assert.Equal(t, format.TagBITD, ch.Tag)
		assert.Equal(t, []byte{1, 2, 3}, data[ch.PayloadOffset:ch.PayloadOffset+3])

		// The container entry points at a chunk the reader can follow.
		ch, err = format.ReadChunkHeader(c, 0, h.PayloadEnd)
		require.NoError(t, err)
		assert.Equal(t, entries[0].Tag, ch.Tag)

		// Map records sit where MMapEntryOffset says.
		require.NoError(t, c.Seek(MMapEntryOffset(bitd)))
		tag, err := c.ReadTag()
		require.NoError(t, err)
		assert.Equal(t, format.TagBITD, format.Tag(tag))
	}
}

func TestBuilderReplace(t *testing.T) {
	b := NewBuilder(Options{BigEndian: true})
	id := b.Add(format.TagSTXT, nil)
	require.NoError(t, b.Replace(id, format.TagBITD, []byte{9}))
	require.Error(t, b.Replace(1, format.TagBITD, nil))
	require.Error(t, b.Replace(99, format.TagBITD, nil))
}

func TestPayloadHelpersDecode(t *testing.T) {
	keys, err := format.DecodeKeyTable(KeyTable(false, format.KeyEntry{ChildID: 5, OwnerID: 4, Tag: format.TagALFA}), false)
	require.NoError(t, err)
	assert.Equal(t, []format.KeyEntry{{ChildID: 5, OwnerID: 4, Tag: format.TagALFA}}, keys)

	assert.Equal(t, []int32{3, 0, 7}, format.DecodeCastList(CastList(3, 0, 7)))

	for _, layout := range []format.MemberLayout{format.MemberLayoutLegacy, format.MemberLayoutModern} {
		m, err := format.DecodeMember(Member(layout, uint32(format.MemberTypeField), []byte{1}, MemberInfo("score", "")), layout)
		require.NoError(t, err)
		assert.Equal(t, format.MemberTypeField, m.Type)
		info, err := format.DecodeMemberInfo(m.Info)
		require.NoError(t, err)
		assert.Equal(t, "score", string(info.Name))
	}

	st, err := format.DecodeSTXT(STXT("abc", []byte{0, 0}))
	require.NoError(t, err)
	assert.Equal(t, "abc", string(st.Text))
}

func TestSinks(t *testing.T) {
	b := NewBuilder(Options{BigEndian: true})
	b.Add(format.TagSTXT, STXT("x", nil))

	var mem MemWriter
	require.NoError(t, b.Emit(&mem))
	assert.Equal(t, b.Bytes(), mem.Buf)

	path := filepath.Join(t.TempDir(), "fixture.dir")
	require.NoError(t, b.Emit(&FileWriter{Path: path}))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, mem.Buf, got)

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".dirkit-tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFileWriterMissingDir(t *testing.T) {
	w := &FileWriter{Path: filepath.Join(t.TempDir(), "nope", "out.dir")}
	require.Error(t, w.WriteBytes([]byte("x")))
}
