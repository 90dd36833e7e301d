package format

import (
	"bytes"

	"github.com/joshuapare/dirkit/internal/buf"
)

// BitmapFormat classifies a bitmap-family payload.
type BitmapFormat int

const (
	BitmapFormatBitd BitmapFormat = iota
	BitmapFormatPng
	BitmapFormatDib
	BitmapFormatAlphaMask
	BitmapFormatThumbnail
)

var bitmapFormatNames = [...]string{
	BitmapFormatBitd:      "Bitd",
	BitmapFormatPng:       "Png",
	BitmapFormatDib:       "Dib",
	BitmapFormatAlphaMask: "AlphaMask",
	BitmapFormatThumbnail: "Thumbnail",
}

func (f BitmapFormat) String() string {
	if f < 0 || int(f) >= len(bitmapFormatNames) {
		return bitmapFormatNames[BitmapFormatBitd]
	}
	return bitmapFormatNames[f]
}

// MarshalText renders the format for JSON output.
func (f BitmapFormat) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

var pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

// dibHeaderSize is biSize of a BITMAPINFOHEADER.
const dibHeaderSize = 40

// SniffBitmap classifies payload. Byte signatures win over the key link
// tag; linkTag is the child tag of the payload's key link, or 0 when it has
// none. Anything unrecognized is Bitd.
func SniffBitmap(payload []byte, linkTag Tag) BitmapFormat {
	if bytes.HasPrefix(payload, pngMagic) {
		return BitmapFormatPng
	}
	if len(payload) >= dibHeaderSize && buf.U32LE(payload) == dibHeaderSize {
		return BitmapFormatDib
	}
	switch linkTag {
	case TagALFA:
		return BitmapFormatAlphaMask
	case TagThum, TagThumLower:
		return BitmapFormatThumbnail
	}
	return BitmapFormatBitd
}
