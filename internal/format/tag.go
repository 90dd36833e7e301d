package format

import (
	"fmt"
	"strings"
)

// Tag is a four-character chunk identifier stored as a big-endian uint32, so
// MakeTag("imap") == 0x696D6170. Tags compare structurally and are used as
// map keys throughout the reader.
type Tag uint32

// MakeTag builds a tag from the first four bytes of s, padding with spaces.
func MakeTag(s string) Tag {
	var b [4]byte
	for i := range b {
		if i < len(s) {
			b[i] = s[i]
		} else {
			b[i] = ' '
		}
	}
	return Tag(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
}

// Bytes returns the four tag bytes in reading order.
func (t Tag) Bytes() [4]byte {
	return [4]byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)}
}

// String renders printable tags as text and anything else as hex.
func (t Tag) String() string {
	b := t.Bytes()
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("0x%08X", uint32(t))
		}
	}
	return string(b[:])
}

// MarshalText renders the tag for JSON output.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Trimmed returns String without trailing padding spaces ("snd " -> "snd").
func (t Tag) Trimmed() string {
	return strings.TrimRight(t.String(), " ")
}
