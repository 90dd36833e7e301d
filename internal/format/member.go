package format

import (
	"fmt"

	"github.com/joshuapare/dirkit/internal/buf"
)

// MemberType is the cast member kind stored in a CASt header.
type MemberType int

const (
	MemberTypeUnknown      MemberType = 0
	MemberTypeBitmap       MemberType = 1
	MemberTypeFilmLoop     MemberType = 2
	MemberTypeField        MemberType = 3
	MemberTypePalette      MemberType = 4
	MemberTypePicture      MemberType = 5
	MemberTypeSound        MemberType = 6
	MemberTypeButton       MemberType = 7
	MemberTypeShape        MemberType = 8
	MemberTypeMovie        MemberType = 9
	MemberTypeDigitalVideo MemberType = 10
	MemberTypeScript       MemberType = 11
	MemberTypeText         MemberType = 12
	MemberTypeOLE          MemberType = 13
	MemberTypeTransition   MemberType = 14
	MemberTypeXtra         MemberType = 15
)

var memberTypeNames = [...]string{
	MemberTypeUnknown:      "Unknown",
	MemberTypeBitmap:       "Bitmap",
	MemberTypeFilmLoop:     "FilmLoop",
	MemberTypeField:        "Field",
	MemberTypePalette:      "Palette",
	MemberTypePicture:      "Picture",
	MemberTypeSound:        "Sound",
	MemberTypeButton:       "Button",
	MemberTypeShape:        "Shape",
	MemberTypeMovie:        "Movie",
	MemberTypeDigitalVideo: "DigitalVideo",
	MemberTypeScript:       "Script",
	MemberTypeText:         "Text",
	MemberTypeOLE:          "OLE",
	MemberTypeTransition:   "Transition",
	MemberTypeXtra:         "Xtra",
}

// MemberTypeFromCode maps a raw type code to a MemberType. Unrecognized codes
// map to MemberTypeUnknown with ok = false.
func MemberTypeFromCode(code uint32) (MemberType, bool) {
	if code == 0 || code >= uint32(len(memberTypeNames)) {
		return MemberTypeUnknown, false
	}
	return MemberType(code), true
}

func (t MemberType) String() string {
	if t < 0 || int(t) >= len(memberTypeNames) {
		return memberTypeNames[MemberTypeUnknown]
	}
	return memberTypeNames[t]
}

// MarshalText renders the member type for JSON output.
func (t MemberType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Member is a decoded CASt payload. Specific and Info alias the payload.
type Member struct {
	Type     MemberType
	RawType  uint32
	Specific []byte
	Info     []byte
}

// DecodeMember splits a CASt payload into its type, type-specific data, and
// info list. CASt payloads are big-endian in every archive.
//
// Legacy framing:
//
//	0x00  2  specific length (type byte included)
//	0x02  4  info length
//	0x06  1  type
//	0x07     specific (specific length - 1 bytes), then info
//
// Modern framing:
//
//	0x00  4  type
//	0x04  4  info length
//	0x08  4  specific length
//	0x0C     info, then specific
func DecodeMember(payload []byte, layout MemberLayout) (Member, error) {
	c := buf.NewCursor(payload, true)
	var (
		m           Member
		specificLen int
		infoLen     int
	)
	if layout == MemberLayoutModern {
		typ, err := c.ReadU32()
		if err != nil {
			return m, fmt.Errorf("CASt type: %w", ErrTruncated)
		}
		il, err := c.ReadU32()
		if err != nil {
			return m, fmt.Errorf("CASt info length: %w", ErrTruncated)
		}
		sl, err := c.ReadU32()
		if err != nil {
			return m, fmt.Errorf("CASt specific length: %w", ErrTruncated)
		}
		m.RawType, infoLen, specificLen = typ, int(il), int(sl)
		if m.Info, err = c.View(infoLen); err != nil {
			return m, fmt.Errorf("CASt info (%d bytes): %w", infoLen, ErrTruncated)
		}
		if m.Specific, err = c.View(specificLen); err != nil {
			return m, fmt.Errorf("CASt specific (%d bytes): %w", specificLen, ErrTruncated)
		}
	} else {
		sl, err := c.ReadU16()
		if err != nil {
			return m, fmt.Errorf("CASt specific length: %w", ErrTruncated)
		}
		il, err := c.ReadU32()
		if err != nil {
			return m, fmt.Errorf("CASt info length: %w", ErrTruncated)
		}
		if sl == 0 {
			return m, fmt.Errorf("CASt: %w (legacy header without type byte)", ErrTruncated)
		}
		typ, err := c.ReadU8()
		if err != nil {
			return m, fmt.Errorf("CASt type: %w", ErrTruncated)
		}
		m.RawType, infoLen, specificLen = uint32(typ), int(il), int(sl)-1
		if m.Specific, err = c.View(specificLen); err != nil {
			return m, fmt.Errorf("CASt specific (%d bytes): %w", specificLen, ErrTruncated)
		}
		if m.Info, err = c.View(infoLen); err != nil {
			return m, fmt.Errorf("CASt info (%d bytes): %w", infoLen, ErrTruncated)
		}
	}
	m.Type, _ = MemberTypeFromCode(m.RawType)
	return m, nil
}

// MemberInfo holds the items of a CASt info list the reader cares about.
// Name is the raw Pascal string body; charset decoding is left to the caller.
type MemberInfo struct {
	Script []byte
	Name   []byte
	Items  int
}

// DecodeMemberInfo walks a CASt info list:
//
//	0x00  4  offset of the item table (reserved words fill the gap)
//
// and at that offset:
//
//	count u16, item offsets u32 x count, items length u32, items
//
// Item 0 is script text and item 1 the name as a Pascal string. An empty
// info section yields an empty MemberInfo.
func DecodeMemberInfo(info []byte) (MemberInfo, error) {
	var mi MemberInfo
	if len(info) == 0 {
		return mi, nil
	}
	c := buf.NewCursor(info, true)
	dataOffset, err := c.ReadU32()
	if err != nil {
		return mi, fmt.Errorf("info list offset: %w", ErrTruncated)
	}
	if err := c.Seek(int(dataOffset)); err != nil {
		return mi, fmt.Errorf("info list offset %d: %w", dataOffset, ErrTruncated)
	}
	count, err := c.ReadU16()
	if err != nil {
		return mi, fmt.Errorf("info list count: %w", ErrTruncated)
	}
	if _, err := buf.CheckListBounds(c.Len(), c.Pos(), int(count), 4); err != nil {
		return mi, fmt.Errorf("info list offsets: %w: %w", ErrTruncated, err)
	}
	offsets := make([]uint32, count)
	for i := range offsets {
		offsets[i], _ = c.ReadU32()
	}
	itemsLen, err := c.ReadU32()
	if err != nil {
		return mi, fmt.Errorf("info list items length: %w", ErrTruncated)
	}
	items, err := c.View(int(itemsLen))
	if err != nil {
		return mi, fmt.Errorf("info list items (%d bytes): %w", itemsLen, ErrTruncated)
	}
	mi.Items = int(count)

	item := func(i int) ([]byte, error) {
		start := offsets[i]
		end := itemsLen
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		if start > end || end > itemsLen {
			return nil, fmt.Errorf("info item %d [%d:%d] of %d: %w", i, start, end, itemsLen, ErrTruncated)
		}
		return items[start:end], nil
	}

	if count > 0 {
		if mi.Script, err = item(0); err != nil {
			return mi, err
		}
	}
	if count > 1 {
		raw, err := item(1)
		if err != nil {
			return mi, err
		}
		if len(raw) > 0 {
			n := int(raw[0])
			if n > len(raw)-1 {
				return mi, fmt.Errorf("member name length %d exceeds item (%d): %w", n, len(raw)-1, ErrTruncated)
			}
			mi.Name = raw[1 : 1+n]
		}
	}
	return mi, nil
}
