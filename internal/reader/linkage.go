package reader

import (
	"fmt"

	"github.com/joshuapare/dirkit/internal/format"
	"github.com/joshuapare/dirkit/pkg/types"
)

// linkage answers owner/child questions about resources. It is chosen once
// per parse: keyTableLinkage when the archive carries a KEY* chunk,
// directLinkage otherwise.
type linkage interface {
	kind() types.LinkageKind
	// children returns the resources owned by owner, in link order.
	children(owner int32) []types.ResourceKeyLink
	// owner returns the resource that owns child.
	owner(child int32) (int32, bool)
	// childTag returns the tag child was linked under, when a link exists.
	childTag(child int32) (format.Tag, bool)
	// keyLinks returns the raw relationships (empty for direct linkage).
	keyLinks() []types.ResourceKeyLink
}

func (ctx *parseContext) resolveLinkage() linkage {
	direct := directLinkage{dir: ctx.dir}
	keys := ctx.dir.ByTag(format.TagKeyTable)
	if len(keys) == 0 {
		if ctx.version.ExpectsKeyTable() {
			ctx.diag(diagCompat(types.ResourceEntry{}, types.ErrKindCompat,
				fmt.Sprintf("%s archive has no KEY* table, using id adjacency", ctx.version.Label())))
		}
		return direct
	}
	if len(keys) > 1 {
		ctx.diag(diagRelationship(types.SevWarning, keys[1],
			fmt.Sprintf("%d KEY* tables, using the first", len(keys))))
	}

	e := keys[0]
	payload, err := ctx.payload(e)
	if err != nil {
		ctx.diag(diagStructure(types.SevWarning, e, "KEY* table unreadable, using id adjacency", err))
		return direct
	}
	entries, err := format.DecodeKeyTable(payload, ctx.header.BigEndian)
	if err != nil {
		ctx.diag(diagStructure(types.SevWarning, e, "KEY* table unreadable, using id adjacency", resourceErr(e, err)))
		return direct
	}

	kt := &keyTableLinkage{
		byOwner: make(map[int32][]types.ResourceKeyLink),
		byChild: make(map[int32]types.ResourceKeyLink),
	}
	for _, ke := range entries {
		if !ctx.dir.Contains(ke.ChildID) {
			ctx.diag(diagRelationship(types.SevWarning, e,
				fmt.Sprintf("KEY* child %d (%s) of owner %d is not in the resource map", ke.ChildID, ke.Tag, ke.OwnerID)))
			continue
		}
		kt.add(types.ResourceKeyLink{ChildID: ke.ChildID, OwnerSlot: ke.OwnerID, ChildTag: ke.Tag})
	}
	return kt
}

// keyTableLinkage resolves relationships from KEY* records.
type keyTableLinkage struct {
	links   []types.ResourceKeyLink
	byOwner map[int32][]types.ResourceKeyLink
	byChild map[int32]types.ResourceKeyLink // first link wins
}

func (k *keyTableLinkage) add(l types.ResourceKeyLink) {
	k.links = append(k.links, l)
	k.byOwner[l.OwnerSlot] = append(k.byOwner[l.OwnerSlot], l)
	if _, ok := k.byChild[l.ChildID]; !ok {
		k.byChild[l.ChildID] = l
	}
}

func (k *keyTableLinkage) kind() types.LinkageKind { return types.LinkageKeyTable }

func (k *keyTableLinkage) children(owner int32) []types.ResourceKeyLink {
	return k.byOwner[owner]
}

func (k *keyTableLinkage) owner(child int32) (int32, bool) {
	l, ok := k.byChild[child]
	return l.OwnerSlot, ok
}

func (k *keyTableLinkage) childTag(child int32) (format.Tag, bool) {
	l, ok := k.byChild[child]
	return l.ChildTag, ok
}

func (k *keyTableLinkage) keyLinks() []types.ResourceKeyLink {
	out := make([]types.ResourceKeyLink, len(k.links))
	copy(out, k.links)
	return out
}

// directLinkage infers relationships from id adjacency: the children of a
// CASt are the ids that follow it up to the next gap, CASt, or structural
// chunk.
type directLinkage struct {
	dir types.ResourceDirectory
}

func (directLinkage) kind() types.LinkageKind { return types.LinkageDirect }

// adjacent reports whether e can belong to a preceding member.
func adjacent(e types.ResourceEntry) bool {
	return e.Tag != format.TagCastInfo && !format.IsStructuralTag(e.Tag)
}

func (d directLinkage) children(owner int32) []types.ResourceKeyLink {
	var out []types.ResourceKeyLink
	for id := owner + 1; id > owner; id++ {
		e, ok := d.dir.Lookup(id)
		if !ok || !adjacent(e) {
			break
		}
		out = append(out, types.ResourceKeyLink{ChildID: id, OwnerSlot: owner, ChildTag: e.Tag})
	}
	return out
}

func (d directLinkage) owner(child int32) (int32, bool) {
	e, ok := d.dir.Lookup(child)
	if !ok || !adjacent(e) {
		return 0, false
	}
	for id := child - 1; id >= 0; id-- {
		e, ok := d.dir.Lookup(id)
		if !ok {
			return 0, false
		}
		if e.Tag == format.TagCastInfo {
			return id, true
		}
		if !adjacent(e) {
			return 0, false
		}
	}
	return 0, false
}

func (directLinkage) childTag(int32) (format.Tag, bool) { return 0, false }

func (directLinkage) keyLinks() []types.ResourceKeyLink { return []types.ResourceKeyLink{} }
