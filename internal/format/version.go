package format

import "strconv"

// Codec is the post-header tag naming the archive's encoding family. Values
// outside the known set are kept as-is so directory extraction can still be
// attempted on unseen codecs.
type Codec Tag

const (
	CodecMovie     Codec = 'M'<<24 | 'V'<<16 | '9'<<8 | '3' // MV93
	CodecCast      Codec = 'M'<<24 | 'C'<<16 | '9'<<8 | '5' // MC95
	CodecProjector Codec = 'A'<<24 | 'P'<<16 | 'P'<<8 | 'L' // APPL
	CodecRIFFMovie Codec = 'R'<<24 | 'M'<<16 | 'M'<<8 | 'P' // RMMP
	CodecCompMovie Codec = 'F'<<24 | 'G'<<16 | 'D'<<8 | 'M' // FGDM
	CodecCompCast  Codec = 'F'<<24 | 'G'<<16 | 'D'<<8 | 'C' // FGDC
)

// Known reports whether c is part of the recognized codec set.
func (c Codec) Known() bool {
	switch c {
	case CodecMovie, CodecCast, CodecProjector, CodecRIFFMovie, CodecCompMovie, CodecCompCast:
		return true
	}
	return false
}

// Compressed reports whether the codec names an Afterburner archive, whose
// resource map is compressed and is not expanded by this package.
func (c Codec) Compressed() bool {
	return c == CodecCompMovie || c == CodecCompCast
}

func (c Codec) String() string { return Tag(c).String() }

// MarshalText renders the codec for JSON output.
func (c Codec) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// versionBreakpoint maps the lowest archive version code of a generation to
// its Director major version.
type versionBreakpoint struct {
	min      uint32
	director int
}

// Breakpoints reconstructed from archives in the wild. Lookup takes the
// nearest lower bound, so a version code newer than the last entry still
// resolves to the newest known generation.
var modernBreakpoints = []versionBreakpoint{
	{0x000, 4},
	{0x4C1, 5},
	{0x4C7, 6},
	{0x708, 8},
	{0x742, 10},
}

// RIFF-era movies predate the modern version codes.
var riffBreakpoints = []versionBreakpoint{
	{0x000, 2},
	{0x300, 3},
}

// minCastDirector is the first generation that wrote standalone cast files.
const minCastDirector = 5

func lookupBreakpoint(table []versionBreakpoint, v uint32) int {
	director := table[0].director
	for _, bp := range table {
		if v < bp.min {
			break
		}
		director = bp.director
	}
	return director
}

// DetectVersion maps a codec and archive version code to a Director major
// version. It is total: every input yields a generation.
func DetectVersion(codec Codec, archiveVersion uint32) int {
	if codec == CodecRIFFMovie {
		return lookupBreakpoint(riffBreakpoints, archiveVersion)
	}
	director := lookupBreakpoint(modernBreakpoints, archiveVersion)
	if codec == CodecCast && director < minCastDirector {
		director = minCastDirector
	}
	return director
}

// MemberLayout selects how a CASt payload frames its sections.
type MemberLayout int

const (
	// MemberLayoutLegacy: specificLen u16, infoLen u32, type u8, specific, info.
	MemberLayoutLegacy MemberLayout = iota
	// MemberLayoutModern: type u32, infoLen u32, specificLen u32, info, specific.
	MemberLayoutModern
)

func (l MemberLayout) String() string {
	if l == MemberLayoutModern {
		return "modern"
	}
	return "legacy"
}

// ShapeLayout selects how a shape member frames its 17-byte record.
type ShapeLayout int

const (
	// ShapeLayoutVintage is a bare record with signed colors (Director 2-3).
	ShapeLayoutVintage ShapeLayout = iota
	// ShapeLayoutTransitional may prefix the record with a flags byte (Director 4-6).
	ShapeLayoutTransitional
	// ShapeLayoutModern trails the record with version info bytes (Director 7+).
	ShapeLayoutModern
)

func (l ShapeLayout) String() string {
	switch l {
	case ShapeLayoutVintage:
		return "vintage"
	case ShapeLayoutTransitional:
		return "transitional"
	default:
		return "modern"
	}
}

// Version is the resolved format descriptor of one archive. It is computed
// once from the header and imap and never changes afterwards.
type Version struct {
	Codec          Codec
	ArchiveVersion uint32
	MapVersion     uint32
	BigEndian      bool
	Director       int
}

// NewVersion derives the descriptor from the raw header and imap fields.
func NewVersion(h Header, m IMap) Version {
	return Version{
		Codec:          h.Codec,
		ArchiveVersion: m.ArchiveVersion,
		MapVersion:     m.MapVersion,
		BigEndian:      h.BigEndian,
		Director:       DetectVersion(h.Codec, m.ArchiveVersion),
	}
}

// Label is the diagnostic name of the generation, e.g. "Director 8".
func (v Version) Label() string {
	return "Director " + strconv.Itoa(v.Director)
}

// Projector reports whether the archive is a projector/Shockwave variant.
func (v Version) Projector() bool {
	return v.Codec == CodecProjector
}

// MemberLayout returns the CASt framing used by this generation.
func (v Version) MemberLayout() MemberLayout {
	if v.Director >= 5 {
		return MemberLayoutModern
	}
	return MemberLayoutLegacy
}

// ShapeLayout returns the shape framing used by this generation.
func (v Version) ShapeLayout() ShapeLayout {
	switch {
	case v.Director <= 3:
		return ShapeLayoutVintage
	case v.Director <= 6:
		return ShapeLayoutTransitional
	default:
		return ShapeLayoutModern
	}
}

// ExpectsKeyTable reports whether this generation links member children
// through a KEY* chunk rather than by adjacency.
func (v Version) ExpectsKeyTable() bool {
	return v.Director >= 4
}
