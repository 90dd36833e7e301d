package writer

import (
	"github.com/joshuapare/dirkit/internal/buf"
	"github.com/joshuapare/dirkit/internal/format"
)

// KeyTable encodes a KEY* payload in the archive's byte order.
func KeyTable(bigEndian bool, entries ...format.KeyEntry) []byte {
	out := make([]byte, format.KeyTableMinHeaderSize+len(entries)*format.KeyEntrySize)
	c := buf.NewCursor(out, bigEndian)
	_ = c.PutU16(format.KeyTableMinHeaderSize)
	_ = c.PutU16(format.KeyEntrySize)
	_ = c.PutU32(uint32(len(entries)))
	_ = c.PutU32(uint32(len(entries)))
	for _, e := range entries {
		_ = c.PutI32(e.ChildID)
		_ = c.PutI32(e.OwnerID)
		_ = c.PutTag(uint32(e.Tag))
	}
	return out
}

// CastList encodes a CAS* payload; 0 marks an empty slot.
func CastList(ids ...int32) []byte {
	out := make([]byte, 4*len(ids))
	c := buf.NewCursor(out, true)
	for _, id := range ids {
		_ = c.PutI32(id)
	}
	return out
}

// MemberInfo encodes a CASt info list holding script text and a name.
func MemberInfo(name, script string) []byte {
	const dataOffset = 8 // offset word + one reserved word
	items := make([]byte, 0, len(script)+1+len(name))
	items = append(items, script...)
	items = append(items, byte(len(name)))
	items = append(items, name...)

	out := make([]byte, dataOffset+2+2*4+4+len(items))
	c := buf.NewCursor(out, true)
	_ = c.PutU32(dataOffset)
	_ = c.PutU32(0)
	_ = c.PutU16(2)
	_ = c.PutU32(0)
	_ = c.PutU32(uint32(len(script)))
	_ = c.PutU32(uint32(len(items)))
	_ = c.PutBytes(items)
	return out
}

// Member encodes a CASt payload in the given framing. CASt payloads are
// big-endian in every archive.
func Member(layout format.MemberLayout, memberType uint32, specific, info []byte) []byte {
	if layout == format.MemberLayoutModern {
		out := make([]byte, 12+len(info)+len(specific))
		c := buf.NewCursor(out, true)
		_ = c.PutU32(memberType)
		_ = c.PutU32(uint32(len(info)))
		_ = c.PutU32(uint32(len(specific)))
		_ = c.PutBytes(info)
		_ = c.PutBytes(specific)
		return out
	}
	out := make([]byte, 7+len(specific)+len(info))
	c := buf.NewCursor(out, true)
	_ = c.PutU16(uint16(len(specific) + 1))
	_ = c.PutU32(uint32(len(info)))
	_ = c.PutU8(uint8(memberType))
	_ = c.PutBytes(specific)
	_ = c.PutBytes(info)
	return out
}

// ShapeMember encodes a named shape CASt for a Director generation.
func ShapeMember(v format.Version, s format.Shape, name string) []byte {
	return Member(v.MemberLayout(), uint32(format.MemberTypeShape),
		format.EncodeShape(s, v.ShapeLayout()), MemberInfo(name, ""))
}

// STXT encodes a styled-text payload.
func STXT(text string, style []byte) []byte {
	out := make([]byte, format.STXTHeaderSize+len(text)+len(style))
	c := buf.NewCursor(out, true)
	_ = c.PutU32(format.STXTHeaderSize)
	_ = c.PutU32(uint32(len(text)))
	_ = c.PutU32(uint32(len(style)))
	_ = c.PutBytes([]byte(text))
	_ = c.PutBytes(style)
	return out
}
