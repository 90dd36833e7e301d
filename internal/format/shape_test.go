package format

import (
	"bytes"
	"errors"
	"testing"
)

var sampleShape = Shape{
	ShapeType:        1,
	Top:              10,
	Left:             -4,
	Bottom:           90,
	Right:            120,
	FillPattern:      1,
	ForeColor:        255,
	BackColor:        0,
	Flags:            1,
	PenThickness:     2,
	PatternDirection: 5,
}

func TestNormalizeShapeAcrossGenerations(t *testing.T) {
	vintage, vf, err := NormalizeShape(EncodeShape(sampleShape, ShapeLayoutVintage), ShapeLayoutVintage)
	if err != nil {
		t.Fatalf("vintage: %v", err)
	}
	transitional, tf, err := NormalizeShape(EncodeShape(sampleShape, ShapeLayoutTransitional), ShapeLayoutTransitional)
	if err != nil {
		t.Fatalf("transitional: %v", err)
	}
	modern, mf, err := NormalizeShape(EncodeShape(sampleShape, ShapeLayoutModern), ShapeLayoutModern)
	if err != nil {
		t.Fatalf("modern: %v", err)
	}
	if !bytes.Equal(vintage, modern) || !bytes.Equal(transitional, modern) {
		t.Fatalf("canonical bytes differ:\n% x\n% x\n% x", vintage, transitional, modern)
	}
	if vf != ShapeFormatDirector2To3SignedColors || mf != ShapeFormatDirector4To10UnsignedColors || tf != mf {
		t.Fatalf("formats: %s %s %s", vf, tf, mf)
	}
	if len(modern) != ShapeRecordSize {
		t.Fatalf("canonical length %d", len(modern))
	}

	s, err := DecodeShape(modern)
	if err != nil {
		t.Fatalf("DecodeShape: %v", err)
	}
	if s != sampleShape {
		t.Fatalf("decoded %+v, want %+v", s, sampleShape)
	}
	if s.Width() != 124 || s.Height() != 80 {
		t.Fatalf("size %dx%d", s.Width(), s.Height())
	}
}

func TestNormalizeShapeTransitionalFraming(t *testing.T) {
	want, _, err := NormalizeShape(EncodeShape(sampleShape, ShapeLayoutModern), ShapeLayoutModern)
	if err != nil {
		t.Fatalf("modern: %v", err)
	}
	rec := EncodeShape(sampleShape, ShapeLayoutVintage)
	rec[shapeForeColorOffset] = sampleShape.ForeColor
	rec[shapeBackColorOffset] = sampleShape.BackColor

	cases := []struct {
		name     string
		specific []byte
	}{
		{"bare", rec},
		{"flags", append([]byte{0x80}, rec...)},
		{"trailer", append(append([]byte{}, rec...), 0x00, 0x02)},
		{"flags and trailer", append(append([]byte{0x80}, rec...), 0x00, 0x02)},
	}
	for _, tc := range cases {
		got, f, err := NormalizeShape(tc.specific, ShapeLayoutTransitional)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("%s: got % x, want % x", tc.name, got, want)
		}
		if f != ShapeFormatDirector4To10UnsignedColors {
			t.Fatalf("%s: format %s", tc.name, f)
		}
	}
}

func TestNormalizeShapeSignedColors(t *testing.T) {
	rec := make([]byte, ShapeRecordSize)
	rec[shapeForeColorOffset] = 0x80 // -128
	rec[shapeBackColorOffset] = 0x7F // 127
	out, _, err := NormalizeShape(rec, ShapeLayoutVintage)
	if err != nil {
		t.Fatalf("NormalizeShape: %v", err)
	}
	if out[shapeForeColorOffset] != 0 || out[shapeBackColorOffset] != 255 {
		t.Fatalf("colors %d %d", out[shapeForeColorOffset], out[shapeBackColorOffset])
	}
	if rec[shapeForeColorOffset] != 0x80 {
		t.Fatalf("input must not be modified")
	}
}

func TestNormalizeShapeTooShort(t *testing.T) {
	for _, layout := range []ShapeLayout{ShapeLayoutVintage, ShapeLayoutTransitional, ShapeLayoutModern} {
		if _, _, err := NormalizeShape(make([]byte, 16), layout); !errors.Is(err, ErrTruncated) {
			t.Fatalf("%s: expected ErrTruncated, got %v", layout, err)
		}
	}
}
