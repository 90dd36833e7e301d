package format

import (
	"fmt"

	"github.com/joshuapare/dirkit/internal/buf"
)

// ShapeFormat names the color convention a shape record was stored with.
type ShapeFormat int

const (
	ShapeFormatDirector2To3SignedColors ShapeFormat = iota
	ShapeFormatDirector4To10UnsignedColors
)

func (f ShapeFormat) String() string {
	if f == ShapeFormatDirector2To3SignedColors {
		return "Director2To3SignedColors"
	}
	return "Director4To10UnsignedColors"
}

// MarshalText renders the format for JSON output.
func (f ShapeFormat) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// Canonical shape record (big-endian, 17 bytes).
//
//	0x00  2  shape type
//	0x02  2  top
//	0x04  2  left
//	0x06  2  bottom
//	0x08  2  right
//	0x0A  2  fill pattern
//	0x0C  1  foreground color
//	0x0D  1  background color
//	0x0E  1  flags (filled, line direction)
//	0x0F  1  pen thickness
//	0x10  1  pattern direction
const (
	shapeForeColorOffset = 0x0C
	shapeBackColorOffset = 0x0D
)

// Shape is the logical view of a canonical shape record.
type Shape struct {
	ShapeType        uint16
	Top              int16
	Left             int16
	Bottom           int16
	Right            int16
	FillPattern      uint16
	ForeColor        uint8
	BackColor        uint8
	Flags            uint8
	PenThickness     uint8
	PatternDirection uint8
}

// Width returns Right - Left.
func (s Shape) Width() int { return int(s.Right) - int(s.Left) }

// Height returns Bottom - Top.
func (s Shape) Height() int { return int(s.Bottom) - int(s.Top) }

// NormalizeShape extracts the canonical 17-byte record from a shape member's
// specific data. Bytes after the record are dropped. Vintage records store palette indices as signed bytes; they
// are shifted into the unsigned range so every generation yields the same
// canonical bytes for the same shape. The returned slice is a fresh copy.
func NormalizeShape(specific []byte, layout ShapeLayout) ([]byte, ShapeFormat, error) {
	if len(specific) < ShapeRecordSize {
		return nil, 0, fmt.Errorf("shape record: %w (have %d, need %d)", ErrTruncated, len(specific), ShapeRecordSize)
	}
	src := specific
	format := ShapeFormatDirector4To10UnsignedColors
	switch layout {
	case ShapeLayoutVintage:
		format = ShapeFormatDirector2To3SignedColors
	case ShapeLayoutTransitional:
		// Trailing info bytes come in pairs; an odd excess is the leading
		// flags byte.
		if (len(specific)-ShapeRecordSize)%2 == 1 {
			src = specific[1:]
		}
	}

	out := make([]byte, ShapeRecordSize)
	copy(out, src[:ShapeRecordSize])
	if format == ShapeFormatDirector2To3SignedColors {
		out[shapeForeColorOffset] = unsignedColor(out[shapeForeColorOffset])
		out[shapeBackColorOffset] = unsignedColor(out[shapeBackColorOffset])
	}
	return out, format, nil
}

// unsignedColor maps a signed palette index to its unsigned counterpart:
// (s + 128) & 0xFF.
func unsignedColor(b byte) byte {
	return byte((int(int8(b)) + 128) & 0xFF)
}

// signedColor is the inverse of unsignedColor.
func signedColor(u byte) byte {
	return byte(int8(int(u) - 128))
}

// DecodeShape parses a canonical record.
func DecodeShape(rec []byte) (Shape, error) {
	if len(rec) < ShapeRecordSize {
		return Shape{}, fmt.Errorf("shape record: %w (have %d, need %d)", ErrTruncated, len(rec), ShapeRecordSize)
	}
	c := buf.NewCursor(rec, true)
	var s Shape
	s.ShapeType, _ = c.ReadU16()
	s.Top, _ = c.ReadI16()
	s.Left, _ = c.ReadI16()
	s.Bottom, _ = c.ReadI16()
	s.Right, _ = c.ReadI16()
	s.FillPattern, _ = c.ReadU16()
	s.ForeColor, _ = c.ReadU8()
	s.BackColor, _ = c.ReadU8()
	s.Flags, _ = c.ReadU8()
	s.PenThickness, _ = c.ReadU8()
	s.PatternDirection, _ = c.ReadU8()
	return s, nil
}

// EncodeShape renders s as shape specific data for the given layout, the
// inverse of NormalizeShape. Transitional output carries the leading flags
// byte; modern output carries two trailing version bytes.
func EncodeShape(s Shape, layout ShapeLayout) []byte {
	rec := make([]byte, ShapeRecordSize)
	c := buf.NewCursor(rec, true)
	_ = c.PutU16(s.ShapeType)
	_ = c.PutI16(s.Top)
	_ = c.PutI16(s.Left)
	_ = c.PutI16(s.Bottom)
	_ = c.PutI16(s.Right)
	_ = c.PutU16(s.FillPattern)
	_ = c.PutU8(s.ForeColor)
	_ = c.PutU8(s.BackColor)
	_ = c.PutU8(s.Flags)
	_ = c.PutU8(s.PenThickness)
	_ = c.PutU8(s.PatternDirection)

	switch layout {
	case ShapeLayoutVintage:
		rec[shapeForeColorOffset] = signedColor(rec[shapeForeColorOffset])
		rec[shapeBackColorOffset] = signedColor(rec[shapeBackColorOffset])
		return rec
	case ShapeLayoutTransitional:
		return append([]byte{0}, rec...)
	default:
		return append(rec, 0, 0)
	}
}
