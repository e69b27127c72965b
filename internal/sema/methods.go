package sema

import (
	"zenc/internal/source"
	"zenc/internal/types"
)

// MethodKey identifies one inherent-method bucket: the owning nominal type
// (always the generic definition for generic owners) plus the method name.
type MethodKey struct {
	Recv types.TypeID
	Name source.StringID
}

// MethodEntry is one candidate inside a bucket.
type MethodEntry struct {
	Sig *FuncSig
}

// MethodTable maps (receiver type, name) to candidate methods. Buckets with
// more than one entry surface as ambiguity at resolution time rather than at
// registration, so a single bad declaration cannot hide later ones.
type MethodTable struct {
	entries map[MethodKey][]MethodEntry
}

func NewMethodTable() *MethodTable {
	return &MethodTable{entries: make(map[MethodKey][]MethodEntry)}
}

// Register appends a candidate. Duplicates are kept; Lookup exposes all of
// them so the caller can report ambiguity.
func (mt *MethodTable) Register(recv types.TypeID, name source.StringID, entry MethodEntry) {
	if recv == types.NoTypeID {
		return
	}
	key := MethodKey{Recv: recv, Name: name}
	mt.entries[key] = append(mt.entries[key], entry)
}

// Lookup returns every candidate registered for (recv, name). Monomorphized
// instances are normalized to their generic definition, with the instance's
// type arguments returned so the caller can substitute the signature.
func (mt *MethodTable) Lookup(in *types.Interner, recv types.TypeID, name source.StringID) ([]MethodEntry, []types.TypeID) {
	if recv == types.NoTypeID {
		return nil, nil
	}
	if es, ok := mt.entries[MethodKey{Recv: recv, Name: name}]; ok {
		return es, nil
	}
	def, args := genericOrigin(in, recv)
	if def == types.NoTypeID {
		return nil, nil
	}
	if es, ok := mt.entries[MethodKey{Recv: def, Name: name}]; ok {
		return es, args
	}
	return nil, nil
}

// Names lists every method name registered for the receiver, definition
// fallback included. Used by IDE completion.
func (mt *MethodTable) Names(in *types.Interner, recv types.TypeID) []source.StringID {
	seen := make(map[source.StringID]struct{})
	var out []source.StringID
	add := func(t types.TypeID) {
		for key := range mt.entries {
			if key.Recv != t {
				continue
			}
			if _, dup := seen[key.Name]; dup {
				continue
			}
			seen[key.Name] = struct{}{}
			out = append(out, key.Name)
		}
	}
	add(recv)
	if def, _ := genericOrigin(in, recv); def != types.NoTypeID && def != recv {
		add(def)
	}
	return out
}

// Len reports the number of distinct (receiver, name) buckets.
func (mt *MethodTable) Len() int {
	return len(mt.entries)
}

// genericOrigin maps an instance back to its generic definition and the
// arguments it was built with. Non-instances yield NoTypeID.
func genericOrigin(in *types.Interner, t types.TypeID) (types.TypeID, []types.TypeID) {
	switch in.KindOf(t) {
	case types.KindStruct:
		if info, ok := in.StructInfo(t); ok && info.Def != types.NoTypeID {
			return info.Def, info.TypeArgs
		}
	case types.KindEnum:
		if info, ok := in.EnumInfo(t); ok && info.Def != types.NoTypeID {
			return info.Def, info.TypeArgs
		}
	}
	return types.NoTypeID, nil
}
