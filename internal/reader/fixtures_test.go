package reader

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/dirkit/internal/format"
	"github.com/joshuapare/dirkit/internal/testutil"
	"github.com/joshuapare/dirkit/internal/writer"
	"github.com/joshuapare/dirkit/pkg/types"
)

// versionOf resolves the generation a builder configuration produces.
func versionOf(opts writer.Options) format.Version { return testutil.Version(opts) }

func filled(prefix []byte, n int, fill byte) []byte {
	out := bytes.Repeat([]byte{fill}, n)
	copy(out, prefix)
	return out
}

var pngSignature = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

// bitmapCastFixture is a little-endian cast file whose bitmap member owns
// four bitmap-family chunks at ids 13-16.
func bitmapCastFixture(t *testing.T) []byte {
	t.Helper()
	opts := testutil.Director6Cast
	v := versionOf(opts)
	b := writer.NewBuilder(opts)

	castList := b.Add(format.TagCastList, writer.CastList(4))
	require.Equal(t, int32(3), castList)
	member := b.Add(format.TagCastInfo, writer.Member(v.MemberLayout(), uint32(format.MemberTypeBitmap),
		[]byte{0, 0, 0, 0}, writer.MemberInfo("logo", "")))
	keys := b.Add(format.TagKeyTable, nil)

	b.PadTo(13)
	png := b.Add(format.TagPNG, filled(pngSignature, 529, 0))
	bitd := b.Add(format.TagBITD, filled([]byte{0x81, 0x00}, 1001, 0x7F))
	alfa := b.Add(format.TagALFA, filled(nil, 125, 0xFF))
	thum := b.Add(format.TagThum, filled([]byte{0x02, 0x00}, 1303, 0x10))

	require.NoError(t, b.Replace(keys, format.TagKeyTable, writer.KeyTable(false,
		format.KeyEntry{ChildID: png, OwnerID: member, Tag: format.TagPNG},
		format.KeyEntry{ChildID: bitd, OwnerID: member, Tag: format.TagBITD},
		format.KeyEntry{ChildID: alfa, OwnerID: member, Tag: format.TagALFA},
		format.KeyEntry{ChildID: thum, OwnerID: member, Tag: format.TagThum},
		format.KeyEntry{ChildID: member, OwnerID: 1, Tag: format.TagCastInfo},
	)))
	return b.Bytes()
}

// mp3Frame looks like the start of an MP3 with an ID3v2 tag.
func mp3Frame(n int) []byte {
	return filled([]byte{'I', 'D', '3', 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x0A, 0xFF, 0xFB}, n, 0x55)
}

// soundMovieFixture is a big-endian Director 8 movie with three sound
// members and a field member.
func soundMovieFixture(t *testing.T) []byte {
	t.Helper()
	opts := testutil.Director8
	v := versionOf(opts)
	b := writer.NewBuilder(opts)

	castList := b.Add(format.TagCastList, nil)
	keys := b.Add(format.TagKeyTable, nil)

	var ids []int32
	var links []format.KeyEntry
	for i, name := range []string{"level_up", "go", "blockfall_1"} {
		cast := b.Add(format.TagCastInfo, writer.Member(v.MemberLayout(), uint32(format.MemberTypeSound),
			nil, writer.MemberInfo(name, "")))
		tag := format.TagMedia
		if i == 1 {
			tag = format.TagSnd
		}
		data := b.Add(tag, mp3Frame(200+i*50))
		ids = append(ids, cast)
		links = append(links, format.KeyEntry{ChildID: data, OwnerID: cast, Tag: tag})
	}
	field := b.Add(format.TagCastInfo, writer.Member(v.MemberLayout(), uint32(format.MemberTypeField),
		nil, writer.MemberInfo("score", "")))
	text := b.Add(format.TagSTXT, writer.STXT("Score: 0", []byte{0, 1}))
	ids = append(ids, 0, field)
	links = append(links, format.KeyEntry{ChildID: text, OwnerID: field, Tag: format.TagSTXT})

	require.NoError(t, b.Replace(castList, format.TagCastList, writer.CastList(ids...)))
	require.NoError(t, b.Replace(keys, format.TagKeyTable, writer.KeyTable(true, links...)))
	return b.Bytes()
}

var fixtureShape = format.Shape{
	ShapeType: 1, Top: 0, Left: 0, Bottom: 40, Right: 60,
	FillPattern: 1, ForeColor: 250, BackColor: 4, Flags: 1, PenThickness: 1, PatternDirection: 5,
}

// shapeMovieFixture builds an archive with n shape members in the given
// generation. Shape i is fixtureShape offset by i pixels.
func shapeMovieFixture(t *testing.T, opts writer.Options, n int) []byte {
	t.Helper()
	v := versionOf(opts)
	b := writer.NewBuilder(opts)
	castList := b.Add(format.TagCastList, nil)
	var ids []int32
	for i := 0; i < n; i++ {
		s := fixtureShape
		s.Left += int16(i)
		s.Right += int16(i)
		ids = append(ids, b.Add(format.TagCastInfo, writer.ShapeMember(v, s, "shape")))
	}
	require.NoError(t, b.Replace(castList, format.TagCastList, writer.CastList(ids...)))
	return b.Bytes()
}

func openBytes(t *testing.T, data []byte) types.Archive {
	t.Helper()
	a, err := OpenBytes(data, types.OpenOptions{CollectDiagnostics: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// countingSource counts releases.
type countingSource struct {
	mu     sync.Mutex
	data   []byte
	closes int
}

func (s *countingSource) Bytes() []byte { return s.data }

func (s *countingSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

func (s *countingSource) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}
