package format

import (
	"fmt"

	"github.com/joshuapare/dirkit/internal/buf"
)

// STXT is a decoded styled-text payload. Text and Style alias the payload.
type STXT struct {
	HeaderLen uint32
	Text      []byte
	Style     []byte
}

// DecodeSTXT splits an STXT payload (big-endian header: header length, text
// length, style length) into its text and style runs.
func DecodeSTXT(payload []byte) (STXT, error) {
	c := buf.NewCursor(payload, true)
	hl, err1 := c.ReadU32()
	tl, err2 := c.ReadU32()
	sl, err3 := c.ReadU32()
	if err1 != nil || err2 != nil || err3 != nil {
		return STXT{}, fmt.Errorf("STXT header: %w (have %d, need %d)", ErrTruncated, len(payload), STXTHeaderSize)
	}
	if hl < STXTHeaderSize {
		return STXT{}, fmt.Errorf("STXT: %w (header length %d)", ErrTruncated, hl)
	}
	text, ok := buf.Slice(payload, int(hl), int(tl))
	if !ok {
		return STXT{}, fmt.Errorf("STXT text [%d+%d] of %d: %w", hl, tl, len(payload), ErrTruncated)
	}
	styleStart, ok := buf.AddOverflowSafe(int(hl), int(tl))
	if !ok {
		return STXT{}, fmt.Errorf("STXT style offset: %w", ErrTruncated)
	}
	style, ok := buf.Slice(payload, styleStart, int(sl))
	if !ok {
		// Some writers leave the style run short; keep what is there.
		style = payload[styleStart:]
	}
	return STXT{HeaderLen: hl, Text: text, Style: style}, nil
}
