package reader

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/joshuapare/dirkit/internal/format"
	"github.com/joshuapare/dirkit/pkg/types"
)

// member is a decoded CASt resource.
type member struct {
	entry types.ResourceEntry
	cast  format.Member
	name  string
}

// decodeMember reads and decodes the CASt resource e. Failures are recorded
// as diagnostics and reported with ok = false.
func (ctx *parseContext) decodeMember(e types.ResourceEntry) (member, bool) {
	payload, err := ctx.payload(e)
	if err != nil {
		ctx.diag(diagData(types.SevError, e, "cast member unreadable", err))
		return member{}, false
	}
	m, err := format.DecodeMember(payload, ctx.version.MemberLayout())
	if err != nil {
		ctx.diag(diagData(types.SevWarning, e, "cast member header malformed", resourceErr(e, err)))
		return member{}, false
	}
	if _, known := format.MemberTypeFromCode(m.RawType); !known {
		ctx.diag(diagCompat(e, types.ErrKindUnsupportedMemberType,
			fmt.Sprintf("member type %d not recognized", m.RawType)))
	}

	out := member{entry: e, cast: m}
	info, err := format.DecodeMemberInfo(m.Info)
	if err != nil {
		ctx.diag(diagData(types.SevWarning, e, "member info list malformed, name dropped", resourceErr(e, err)))
		return out, true
	}
	out.name = ctx.decodeName(info.Name)
	return out, true
}

// members decodes every CASt in map order.
func (ctx *parseContext) members() []member {
	var out []member
	for _, e := range ctx.dir.ByTag(format.TagCastInfo) {
		if m, ok := ctx.decodeMember(e); ok {
			out = append(out, m)
		}
	}
	return out
}

// nameEncoding picks the member name charset: Mac OS Roman for big-endian
// archives, Windows-1252 for little-endian ones, unless overridden.
func (ctx *parseContext) nameEncoding() encoding.Encoding {
	switch ctx.r.opts.NameEncoding {
	case types.NameEncodingMacintosh:
		return charmap.Macintosh
	case types.NameEncodingWindows1252:
		return charmap.Windows1252
	}
	if ctx.header.BigEndian {
		return charmap.Macintosh
	}
	return charmap.Windows1252
}

func (ctx *parseContext) decodeName(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	b, err := ctx.nameEncoding().NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(b)
}

// castLibraries reads every CAS* resource in map order.
func (ctx *parseContext) castLibraries() []types.CastLibrary {
	libs := []types.CastLibrary{}
	for _, e := range ctx.dir.ByTag(format.TagCastList) {
		payload, err := ctx.payload(e)
		if err != nil {
			ctx.diag(diagStructure(types.SevWarning, e, "cast list unreadable", err))
			continue
		}
		ids := format.DecodeCastList(payload)
		lib := types.CastLibrary{ResourceID: e.ID, EntryCount: len(ids), Members: []types.CastMember{}}
		for slot, id := range ids {
			if id == 0 {
				continue
			}
			me, ok := ctx.castEntry(e, id)
			if !ok {
				continue
			}
			m, ok := ctx.decodeMember(me)
			if !ok {
				continue
			}
			lib.Members = append(lib.Members, types.CastMember{
				ResourceID: id,
				Slot:       slot + 1,
				Name:       m.name,
				MemberType: m.cast.Type,
				RawType:    m.cast.RawType,
			})
		}
		libs = append(libs, lib)
	}
	return libs
}

// castEntry resolves a CAS* slot to its CASt entry.
func (ctx *parseContext) castEntry(list types.ResourceEntry, id int32) (types.ResourceEntry, bool) {
	me, ok := ctx.dir.Lookup(id)
	switch {
	case !ok:
		ctx.diag(diagRelationship(types.SevWarning, list,
			fmt.Sprintf("cast list names resource %d, which is not in the resource map", id)))
		return me, false
	case me.Tag != format.TagCastInfo:
		ctx.diag(diagRelationship(types.SevWarning, list,
			fmt.Sprintf("cast list names resource %d, which is %s, not CASt", id, me.Tag)))
		return me, false
	}
	return me, true
}

// castOwners maps each CASt id to the CAS* resource listing it.
func (ctx *parseContext) castOwners() map[int32]int32 {
	owners := make(map[int32]int32)
	for _, e := range ctx.dir.ByTag(format.TagCastList) {
		payload, err := ctx.payload(e)
		if err != nil {
			continue
		}
		for _, id := range format.DecodeCastList(payload) {
			if _, seen := owners[id]; id != 0 && !seen {
				owners[id] = e.ID
			}
		}
	}
	return owners
}
