package types

import (
	"encoding/json"

	"github.com/opencontainers/go-digest"

	"github.com/joshuapare/dirkit/internal/format"
)

// ChunkTag is a four-character chunk identifier ("CASt", "KEY*", ...).
type ChunkTag = format.Tag

// MakeChunkTag builds a tag from up to four characters, space padded.
func MakeChunkTag(s string) ChunkTag { return format.MakeTag(s) }

// Codec is the archive's encoding family tag (MV93, MC95, APPL, ...).
type Codec = format.Codec

// MemberType is the kind of a cast member.
type MemberType = format.MemberType

const (
	MemberUnknown      = format.MemberTypeUnknown
	MemberBitmap       = format.MemberTypeBitmap
	MemberFilmLoop     = format.MemberTypeFilmLoop
	MemberField        = format.MemberTypeField
	MemberPalette      = format.MemberTypePalette
	MemberPicture      = format.MemberTypePicture
	MemberSound        = format.MemberTypeSound
	MemberButton       = format.MemberTypeButton
	MemberShape        = format.MemberTypeShape
	MemberMovie        = format.MemberTypeMovie
	MemberDigitalVideo = format.MemberTypeDigitalVideo
	MemberScript       = format.MemberTypeScript
	MemberText         = format.MemberTypeText
	MemberOLE          = format.MemberTypeOLE
	MemberTransition   = format.MemberTypeTransition
	MemberXtra         = format.MemberTypeXtra
)

// BitmapFormat classifies a bitmap payload.
type BitmapFormat = format.BitmapFormat

const (
	BitmapBitd      = format.BitmapFormatBitd
	BitmapPng       = format.BitmapFormatPng
	BitmapDib       = format.BitmapFormatDib
	BitmapAlphaMask = format.BitmapFormatAlphaMask
	BitmapThumbnail = format.BitmapFormatThumbnail
)

// ShapeFormat names the color convention a shape was stored with.
type ShapeFormat = format.ShapeFormat

const (
	ShapeDirector2To3SignedColors    = format.ShapeFormatDirector2To3SignedColors
	ShapeDirector4To10UnsignedColors = format.ShapeFormatDirector4To10UnsignedColors
)

// Shape is the logical view of a canonical shape record.
type Shape = format.Shape

// FormatDescriptor is the resolved version/codec of an archive.
type FormatDescriptor struct {
	Codec                Codec  `json:"codec"`
	ArchiveVersion       uint32 `json:"archive_version"`
	MapVersion           uint32 `json:"map_version"`
	IsBigEndian          bool   `json:"big_endian"`
	DirectorVersion      int    `json:"director_version"`
	DirectorVersionLabel string `json:"director_version_label"`
}

// DataBlock is the archive envelope: magic, payload window and descriptor.
type DataBlock struct {
	Magic        ChunkTag `json:"magic"`
	PayloadStart int      `json:"payload_start"`
	DeclaredSize uint32   `json:"declared_size"`
	PayloadEnd   int      `json:"payload_end"`
	IsProjector  bool     `json:"projector"`
	FormatDescriptor
}

// ResourceEntry is one live resource map record. ID is its map index.
type ResourceEntry struct {
	ID       int32    `json:"id"`
	Tag      ChunkTag `json:"tag"`
	Size     uint32   `json:"size"`
	Offset   uint32   `json:"offset"`
	Flags    uint16   `json:"flags,omitempty"`
	RefCount uint16   `json:"ref_count,omitempty"`
	Next     int32    `json:"next,omitempty"`
}

// ResourceDirectory is the ordered set of live resources of an archive.
type ResourceDirectory struct {
	entries []ResourceEntry
	index   map[int32]int
}

// NewResourceDirectory indexes entries (kept in the given order). Later
// duplicates of an id are ignored.
func NewResourceDirectory(entries []ResourceEntry) ResourceDirectory {
	d := ResourceDirectory{
		entries: make([]ResourceEntry, 0, len(entries)),
		index:   make(map[int32]int, len(entries)),
	}
	for _, e := range entries {
		if _, dup := d.index[e.ID]; dup {
			continue
		}
		d.index[e.ID] = len(d.entries)
		d.entries = append(d.entries, e)
	}
	return d
}

// Len returns the number of live resources.
func (d ResourceDirectory) Len() int { return len(d.entries) }

// Entries returns a copy of the entries in map order.
func (d ResourceDirectory) Entries() []ResourceEntry {
	out := make([]ResourceEntry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Lookup returns the entry with the given id.
func (d ResourceDirectory) Lookup(id int32) (ResourceEntry, bool) {
	i, ok := d.index[id]
	if !ok {
		return ResourceEntry{}, false
	}
	return d.entries[i], true
}

// Contains reports whether id names a live resource.
func (d ResourceDirectory) Contains(id int32) bool {
	_, ok := d.index[id]
	return ok
}

// ByTag returns every entry with the given tag, in map order.
func (d ResourceDirectory) ByTag(tag ChunkTag) []ResourceEntry {
	var out []ResourceEntry
	for _, e := range d.entries {
		if e.Tag == tag {
			out = append(out, e)
		}
	}
	return out
}

// MarshalJSON renders the directory as its entry list.
func (d ResourceDirectory) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.entries)
}

// ResourceKeyLink is one KEY* record: ChildID is owned by OwnerSlot (the
// owning CASt resource id, or a cast library number for CAS* children).
type ResourceKeyLink struct {
	ChildID   int32    `json:"child_id"`
	OwnerSlot int32    `json:"owner_slot"`
	ChildTag  ChunkTag `json:"child_tag"`
}

// LinkageKind reports how member children were resolved.
type LinkageKind int

const (
	// LinkageDirect infers children from resource id adjacency.
	LinkageDirect LinkageKind = iota
	// LinkageKeyTable uses the archive's KEY* chunk.
	LinkageKeyTable
)

func (k LinkageKind) String() string {
	if k == LinkageKeyTable {
		return "key-table"
	}
	return "direct"
}

// MarshalText renders the linkage for JSON output.
func (k LinkageKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Container is the structural view of an archive.
type Container struct {
	Source    string            `json:"source,omitempty"`
	DataBlock DataBlock         `json:"data_block"`
	Resources ResourceDirectory `json:"resources"`
	Linkage   LinkageKind       `json:"linkage"`
}

// CastMember is one occupied slot of a cast library.
type CastMember struct {
	ResourceID int32      `json:"resource_id"`
	Slot       int        `json:"slot"`
	Name       string     `json:"name"`
	MemberType MemberType `json:"type"`
	RawType    uint32     `json:"raw_type"`
}

// CastLibrary is the member list of one CAS* resource. EntryCount counts
// slots, empty ones included, so len(Members) <= EntryCount.
type CastLibrary struct {
	ResourceID int32        `json:"resource_id"`
	EntryCount int          `json:"entry_count"`
	Members    []CastMember `json:"members"`
}

// BitmapRecord is a classified bitmap-family payload.
type BitmapRecord struct {
	ResourceID int32        `json:"resource_id"`
	OwnerID    int32        `json:"owner_id,omitempty"`
	Tag        ChunkTag     `json:"tag"`
	Format     BitmapFormat `json:"format"`
	Bytes      []byte       `json:"-"`
}

// Digest returns the content digest of the payload.
func (r BitmapRecord) Digest() digest.Digest { return digest.FromBytes(r.Bytes) }

// ShapeRecord is a normalized shape. ResourceID is the shape's CASt and
// OwnerID the CAS* resource listing it.
type ShapeRecord struct {
	ResourceID int32       `json:"resource_id"`
	OwnerID    int32       `json:"owner_id,omitempty"`
	Name       string      `json:"name,omitempty"`
	Format     ShapeFormat `json:"format"`
	Bytes      []byte      `json:"-"`
}

// Shape decodes the canonical record.
func (r ShapeRecord) Shape() (Shape, error) { return format.DecodeShape(r.Bytes) }

// Digest returns the content digest of the canonical record.
func (r ShapeRecord) Digest() digest.Digest { return digest.FromBytes(r.Bytes) }

// FieldFormat classifies a field payload. STXT is the only one read.
type FieldFormat int

const FieldStxt FieldFormat = 0

func (FieldFormat) String() string { return "Stxt" }

// MarshalText renders the format for JSON output.
func (f FieldFormat) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// FieldRecord is an STXT payload kept opaque; Text extracts its text run.
type FieldRecord struct {
	ResourceID int32       `json:"resource_id"`
	OwnerID    int32       `json:"owner_id,omitempty"`
	Format     FieldFormat `json:"format"`
	Bytes      []byte      `json:"-"`
}

// Text returns the raw text run of the STXT payload.
func (r FieldRecord) Text() ([]byte, error) {
	st, err := format.DecodeSTXT(r.Bytes)
	if err != nil {
		return nil, err
	}
	return st.Text, nil
}

// Digest returns the content digest of the payload.
func (r FieldRecord) Digest() digest.Digest { return digest.FromBytes(r.Bytes) }

// SoundFormat names the chunk a sound payload came from.
type SoundFormat int

const (
	// SoundSnd is a "snd " chunk.
	SoundSnd SoundFormat = iota
	// SoundMedia is an "ediM" or "sndS" chunk.
	SoundMedia
)

func (f SoundFormat) String() string {
	if f == SoundMedia {
		return "Media"
	}
	return "Snd"
}

// MarshalText renders the format for JSON output.
func (f SoundFormat) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// SoundRecord is the audio payload of a sound member. ResourceID is the
// member's CASt, OwnerID the CAS* listing it and DataID the chunk the bytes
// came from.
type SoundRecord struct {
	ResourceID int32       `json:"resource_id"`
	OwnerID    int32       `json:"owner_id,omitempty"`
	DataID     int32       `json:"data_id"`
	Name       string      `json:"name"`
	Format     SoundFormat `json:"format"`
	Bytes      []byte      `json:"-"`
}

// Digest returns the content digest of the payload.
func (r SoundRecord) Digest() digest.Digest { return digest.FromBytes(r.Bytes) }
