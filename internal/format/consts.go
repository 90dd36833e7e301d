// Package format houses low-level decoders for Director-style RIFX archives.
// Each decoder consumes a buf.Cursor (or a payload slice) and returns a
// plain struct; none of them keep references to the cursor after returning.
// Cross-chunk resolution lives in internal/reader.
package format

// Container signatures. The magic is always compared as a big-endian read of
// the first four bytes; a little-endian archive spells its magic backwards.
const (
	TagRIFX Tag = 'R'<<24 | 'I'<<16 | 'F'<<8 | 'X'
	TagXFIR Tag = 'X'<<24 | 'F'<<16 | 'I'<<8 | 'R'
	TagRIFF Tag = 'R'<<24 | 'I'<<16 | 'F'<<8 | 'F'
	TagFFIR Tag = 'F'<<24 | 'F'<<16 | 'I'<<8 | 'R'
)

// Structural chunks.
const (
	TagIMap     Tag = 'i'<<24 | 'm'<<16 | 'a'<<8 | 'p'
	TagMMap     Tag = 'm'<<24 | 'm'<<16 | 'a'<<8 | 'p'
	TagKeyTable Tag = 'K'<<24 | 'E'<<16 | 'Y'<<8 | '*'
	TagCastList Tag = 'C'<<24 | 'A'<<16 | 'S'<<8 | '*'
	TagCastInfo Tag = 'C'<<24 | 'A'<<16 | 'S'<<8 | 't'
	TagFree     Tag = 'f'<<24 | 'r'<<16 | 'e'<<8 | 'e'
	TagJunk     Tag = 'j'<<24 | 'u'<<16 | 'n'<<8 | 'k'
)

// Content chunks.
const (
	TagBITD      Tag = 'B'<<24 | 'I'<<16 | 'T'<<8 | 'D'
	TagDIB       Tag = 'D'<<24 | 'I'<<16 | 'B'<<8 | ' '
	TagPNG       Tag = 'P'<<24 | 'N'<<16 | 'G'<<8 | ' '
	TagALFA      Tag = 'A'<<24 | 'L'<<16 | 'F'<<8 | 'A'
	TagThum      Tag = 'T'<<24 | 'h'<<16 | 'u'<<8 | 'm'
	TagThumLower Tag = 't'<<24 | 'h'<<16 | 'u'<<8 | 'm'
	TagSTXT      Tag = 'S'<<24 | 'T'<<16 | 'X'<<8 | 'T'
	TagSnd       Tag = 's'<<24 | 'n'<<16 | 'd'<<8 | ' '
	TagSndS      Tag = 's'<<24 | 'n'<<16 | 'd'<<8 | 'S'
	TagMedia     Tag = 'e'<<24 | 'd'<<16 | 'i'<<8 | 'M'
)

// Container header layout.
//
//	Offset  Size  Field
//	0x00    4     Magic (RIFX/RIFF big-endian, XFIR/FFIR little-endian)
//	0x04    4     Size of everything after this field (codec included)
//	0x08    4     Codec tag (MV93, MC95, APPL, ...)
const (
	HeaderMagicOffset = 0x00
	HeaderSizeOffset  = 0x04
	HeaderCodecOffset = 0x08

	// HeaderSize is the fixed envelope size; the payload window starts here.
	HeaderSize = 12

	// ChunkHeaderSize is the tag + length prefix of every chunk.
	ChunkHeaderSize = 8

	// IMapOffset is where the initial map chunk lives in every archive.
	IMapOffset = HeaderSize
)

// imap payload layout (after the chunk header).
//
//	Offset  Size  Field
//	0x00    4     Map version
//	0x04    4     Absolute offset of the mmap chunk header
//	0x08    4     Archive version code
//	0x0C    ...   Reserved words (vary by map version, ignored)
const (
	IMapMapVersionOffset     = 0x00
	IMapMapOffsetOffset      = 0x04
	IMapArchiveVersionOffset = 0x08
	IMapMinSize              = 0x0C
)

// mmap layout (after the chunk header).
//
//	Offset  Size  Field
//	0x00    2     Header size (entries start here)
//	0x02    2     Entry size
//	0x04    4     Entry capacity
//	0x08    4     Entries in use
//	0x0C    ...   Free-list heads (header size covers them)
//
// Each entry:
//
//	0x00  4  Tag
//	0x04  4  Chunk length
//	0x08  4  Absolute offset of the chunk header
//	0x0C  2  Flags
//	0x0E  2  Reference count
//	0x10  4  Next free entry (reserved)
const (
	MMapMinHeaderSize = 0x0C
	MMapEntrySize     = 20
)

// KEY* layout (after the chunk header), file byte order.
//
//	0x00  2  Header size
//	0x02  2  Entry size
//	0x04  4  Entry capacity
//	0x08  4  Entries in use
//
// Each entry: child resource id (4), owner id (4), child tag (4).
const (
	KeyTableMinHeaderSize = 0x0C
	KeyEntrySize          = 12
)

// ShapeRecordSize is the size of the canonical QuickDraw-style shape record.
const ShapeRecordSize = 17

// STXTHeaderSize is the fixed STXT prefix: header length, text length, style length.
const STXTHeaderSize = 12

// IsFreeTag reports whether a resource map entry tag marks an unused slot.
func IsFreeTag(t Tag) bool {
	return t == TagFree || t == TagJunk
}

// IsStructuralTag reports whether the tag names one of the archive's own
// bookkeeping chunks rather than member content.
func IsStructuralTag(t Tag) bool {
	switch t {
	case TagRIFX, TagXFIR, TagRIFF, TagFFIR, TagIMap, TagMMap, TagKeyTable, TagCastList:
		return true
	}
	return false
}

// IsBitmapTag reports whether the tag belongs to the bitmap family.
func IsBitmapTag(t Tag) bool {
	switch t {
	case TagBITD, TagDIB, TagPNG, TagALFA, TagThum, TagThumLower:
		return true
	}
	return false
}

// IsSoundTag reports whether the tag carries sound sample data.
func IsSoundTag(t Tag) bool {
	switch t {
	case TagSnd, TagSndS, TagMedia:
		return true
	}
	return false
}
