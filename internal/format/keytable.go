package format

import (
	"errors"
	"fmt"

	"github.com/joshuapare/dirkit/internal/buf"
)

// KeyEntry is one KEY* record: child resource id, owning id, child tag.
type KeyEntry struct {
	ChildID int32
	OwnerID int32
	Tag     Tag
}

// DecodeKeyTable decodes a KEY* payload in the archive's byte order and
// returns its records in file order.
func DecodeKeyTable(payload []byte, bigEndian bool) ([]KeyEntry, error) {
	c := buf.NewCursor(payload, bigEndian)
	h, err := readTableHeader(c)
	if err != nil {
		return nil, fmt.Errorf("KEY* header: %w", ErrTruncated)
	}
	if h.HeaderSize < KeyTableMinHeaderSize {
		return nil, fmt.Errorf("KEY*: %w (header size %d)", ErrTruncated, h.HeaderSize)
	}
	if h.EntrySize < KeyEntrySize {
		return nil, fmt.Errorf("KEY*: %w (entry size %d, need %d)", ErrUnsupported, h.EntrySize, KeyEntrySize)
	}
	if h.CountUsed > h.CountMax {
		return nil, fmt.Errorf("KEY*: %w (used %d > max %d)", ErrTruncated, h.CountUsed, h.CountMax)
	}
	if _, err := buf.CheckListBounds(c.Len(), int(h.HeaderSize), int(h.CountUsed), int(h.EntrySize)); err != nil {
		return nil, fmt.Errorf("KEY* entries: %w: %w", ErrTruncated, err)
	}

	out := make([]KeyEntry, 0, h.CountUsed)
	for i := 0; i < int(h.CountUsed); i++ {
		_ = c.Seek(int(h.HeaderSize) + i*int(h.EntrySize))
		child, err1 := c.ReadI32()
		owner, err2 := c.ReadI32()
		tag, err3 := c.ReadTag()
		if err := errors.Join(err1, err2, err3); err != nil {
			return nil, fmt.Errorf("KEY* entry %d: %w", i, err)
		}
		out = append(out, KeyEntry{ChildID: child, OwnerID: owner, Tag: Tag(tag)})
	}
	return out, nil
}

// DecodeCastList decodes a CAS* payload: big-endian member resource ids, one
// per slot, zero for an empty slot. Trailing bytes short of a full id are
// ignored.
func DecodeCastList(payload []byte) []int32 {
	ids := make([]int32, len(payload)/4)
	for i := range ids {
		ids[i] = int32(buf.U32BE(payload[i*4:]))
	}
	return ids
}
