package reader

import (
	"fmt"

	"github.com/joshuapare/dirkit/internal/format"
	"github.com/joshuapare/dirkit/pkg/types"
)

// bitmaps classifies every bitmap-family resource in map order.
func (ctx *parseContext) bitmaps() []types.BitmapRecord {
	out := []types.BitmapRecord{}
	for _, e := range ctx.dir.Entries() {
		if !format.IsBitmapTag(e.Tag) {
			continue
		}
		payload, err := ctx.payload(e)
		if err != nil {
			ctx.diag(diagData(types.SevError, e, "bitmap unreadable", err))
			continue
		}
		linkTag, _ := ctx.link.childTag(e.ID)
		owner, _ := ctx.link.owner(e.ID)
		out = append(out, types.BitmapRecord{
			ResourceID: e.ID,
			OwnerID:    owner,
			Tag:        e.Tag,
			Format:     format.SniffBitmap(payload, linkTag),
			Bytes:      clone(payload),
		})
	}
	return out
}

// shapes normalizes the record of every shape member in map order.
func (ctx *parseContext) shapes() []types.ShapeRecord {
	out := []types.ShapeRecord{}
	owners := ctx.castOwners()
	layout := ctx.version.ShapeLayout()
	for _, m := range ctx.members() {
		if m.cast.Type != format.MemberTypeShape {
			continue
		}
		rec, f, err := format.NormalizeShape(m.cast.Specific, layout)
		if err != nil {
			ctx.diag(diagData(types.SevError, m.entry,
				fmt.Sprintf("shape %q has no %s record", m.name, layout), resourceErr(m.entry, err)))
			continue
		}
		if layout == format.ShapeLayoutTransitional && len(m.cast.Specific) > format.ShapeRecordSize+1 {
			ctx.diag(diagCompat(m.entry, types.ErrKindCompat,
				fmt.Sprintf("shape %q has %d bytes of %s data, trailing bytes dropped", m.name, len(m.cast.Specific), layout)))
		}
		out = append(out, types.ShapeRecord{
			ResourceID: m.entry.ID,
			OwnerID:    owners[m.entry.ID],
			Name:       m.name,
			Format:     f,
			Bytes:      rec,
		})
	}
	return out
}

// fields returns every STXT resource with its owner resolved through the
// linkage.
func (ctx *parseContext) fields() []types.FieldRecord {
	out := []types.FieldRecord{}
	for _, e := range ctx.dir.ByTag(format.TagSTXT) {
		payload, err := ctx.payload(e)
		if err != nil {
			ctx.diag(diagData(types.SevError, e, "field text unreadable", err))
			continue
		}
		owner, _ := ctx.link.owner(e.ID)
		out = append(out, types.FieldRecord{
			ResourceID: e.ID,
			OwnerID:    owner,
			Format:     types.FieldStxt,
			Bytes:      clone(payload),
		})
	}
	return out
}

// sounds returns the audio payload of every sound member in map order. The
// payload is the first child linked under a sound tag.
func (ctx *parseContext) sounds() []types.SoundRecord {
	out := []types.SoundRecord{}
	owners := ctx.castOwners()
	for _, m := range ctx.members() {
		if m.cast.Type != format.MemberTypeSound {
			continue
		}
		child, ok := ctx.soundChild(m.entry.ID)
		if !ok {
			ctx.diag(diagRelationship(types.SevWarning, m.entry,
				fmt.Sprintf("sound %q has no linked audio chunk", m.name)))
			continue
		}
		payload, err := ctx.payload(child)
		if err != nil {
			ctx.diag(diagData(types.SevError, child, fmt.Sprintf("sound %q data unreadable", m.name), err))
			continue
		}
		if len(payload) == 0 {
			ctx.diag(diagData(types.SevError, child, fmt.Sprintf("sound %q data is empty", m.name),
				resourceErr(child, format.ErrTruncated)))
			continue
		}
		f := types.SoundMedia
		if child.Tag == format.TagSnd {
			f = types.SoundSnd
		}
		out = append(out, types.SoundRecord{
			ResourceID: m.entry.ID,
			OwnerID:    owners[m.entry.ID],
			DataID:     child.ID,
			Name:       m.name,
			Format:     f,
			Bytes:      clone(payload),
		})
	}
	return out
}

func (ctx *parseContext) soundChild(owner int32) (types.ResourceEntry, bool) {
	for _, l := range ctx.link.children(owner) {
		if !format.IsSoundTag(l.ChildTag) {
			continue
		}
		if e, ok := ctx.dir.Lookup(l.ChildID); ok {
			return e, true
		}
	}
	return types.ResourceEntry{}, false
}
