package types

import (
	"fmt"

	"fortio.org/safecast"

	"zenc/internal/source"
)

// TypeParamInfo stores metadata about a generic type parameter. Owner is the
// declaring entity (an ast.DeclID widened to uint32); Index is the position
// in the owner's parameter list.
type TypeParamInfo struct {
	Name  source.StringID
	Owner uint32
	Index uint32
}

// RegisterTypeParam allocates a new generic parameter descriptor. The same
// (owner, index) pair always maps to the same TypeID.
func (in *Interner) RegisterTypeParam(name source.StringID, owner, index uint32) TypeID {
	candidate := Type{Kind: KindGenericParam, Elem: NoTypeID, Payload: 0}
	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindGenericParam {
			continue
		}
		info := in.params[tt.Payload]
		if info.Owner == owner && info.Index == index {
			return id
		}
	}
	slot := in.appendTypeParamInfo(TypeParamInfo{Name: name, Owner: owner, Index: index})
	candidate.Payload = slot
	return in.internRaw(candidate)
}

// TypeParamInfo returns metadata for the provided generic parameter.
func (in *Interner) TypeParamInfo(id TypeID) (*TypeParamInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindGenericParam {
		return nil, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.params) {
		return nil, false
	}
	return &in.params[tt.Payload], true
}

func (in *Interner) appendTypeParamInfo(info TypeParamInfo) uint32 {
	in.mutable("register type param")
	in.params = append(in.params, info)
	slot, err := safecast.Conv[uint32](len(in.params) - 1)
	if err != nil {
		panic(fmt.Errorf("type param overflow: %w", err))
	}
	return slot
}
