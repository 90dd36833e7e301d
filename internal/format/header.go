package format

import (
	"fmt"

	"github.com/joshuapare/dirkit/internal/buf"
)

// Header is the decoded 12-byte archive envelope.
//
// The raw size field follows the RIFF convention and counts every byte after
// itself, the codec included. DeclaredSize is the payload length after the
// codec, so PayloadEnd = PayloadStart + DeclaredSize lands on the physical end
// of a well-formed file.
type Header struct {
	Magic        Tag
	BigEndian    bool
	RawSize      uint32
	DeclaredSize uint32
	Codec        Codec
	PayloadStart int
	PayloadEnd   int
}

// ByteOrderForMagic reports the byte order signalled by a container magic.
func ByteOrderForMagic(magic Tag) (bigEndian bool, ok bool) {
	switch magic {
	case TagRIFX, TagRIFF:
		return true, true
	case TagXFIR, TagFFIR:
		return false, true
	}
	return false, false
}

// ParseHeader validates the envelope of b and returns its fields. Length is
// checked before the magic: a short buffer is truncated, never "unknown".
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("header: %w (have %d, need %d)", ErrTruncated, len(b), HeaderSize)
	}
	magic := Tag(buf.U32BE(b[HeaderMagicOffset:]))
	big, ok := ByteOrderForMagic(magic)
	if !ok {
		return Header{}, fmt.Errorf("header: %w (%s)", ErrUnknownMagic, magic)
	}

	c := buf.NewCursor(b, big)
	if err := c.Seek(HeaderSizeOffset); err != nil {
		return Header{}, fmt.Errorf("header: %w", ErrTruncated)
	}
	raw, err := c.ReadU32()
	if err != nil {
		return Header{}, fmt.Errorf("header size: %w", ErrTruncated)
	}
	codec, err := c.ReadTag()
	if err != nil {
		return Header{}, fmt.Errorf("header codec: %w", ErrTruncated)
	}
	if raw < HeaderSize-HeaderCodecOffset {
		return Header{}, fmt.Errorf("header: %w (size field %d smaller than codec)", ErrTruncated, raw)
	}

	declared := raw - (HeaderSize - HeaderCodecOffset)
	end, ok := buf.AddOverflowSafe(HeaderSize, int(declared))
	if !ok || end > len(b) {
		return Header{}, fmt.Errorf(
			"header: %w (declared payload %d exceeds buffer %d)",
			ErrTruncated, declared, len(b)-HeaderSize,
		)
	}

	return Header{
		Magic:        magic,
		BigEndian:    big,
		RawSize:      raw,
		DeclaredSize: declared,
		Codec:        Codec(codec),
		PayloadStart: HeaderSize,
		PayloadEnd:   end,
	}, nil
}
