package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Unresolved TypeID
	Unit       TypeID
	Bool       TypeID
	String     TypeID
	Int        TypeID
	Uint       TypeID
	Float      TypeID
}

// Interner is the type registry: it owns every resolved descriptor and hands
// out stable TypeIDs by hashing structural keys. It has a single mutation
// phase; after Freeze it only serves reads.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins

	structs   []StructInfo
	enums     []EnumInfo
	fns       []FnInfo
	params    []TypeParamInfo
	instances map[InstanceKey]TypeID

	frozen bool
}

// NewInterner constructs a registry seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index:     make(map[typeKey]TypeID, 64),
		instances: make(map[InstanceKey]TypeID),
	}
	in.structs = append(in.structs, StructInfo{}) // reserve 0 as invalid sentinel
	in.enums = append(in.enums, EnumInfo{})
	in.fns = append(in.fns, FnInfo{})
	in.params = append(in.params, TypeParamInfo{})
	in.builtins.Unresolved = in.internRaw(Type{Kind: KindUnresolved})
	in.builtins.Unit = in.Intern(Type{Kind: KindUnit})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	in.builtins.Int = in.Intern(MakeInt(WidthAny))
	in.builtins.Uint = in.Intern(MakeUint(WidthAny))
	in.builtins.Float = in.Intern(MakeFloat(WidthAny))
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Freeze flips the registry read-only. Any mutation afterwards is an
// internal-consistency fault and panics.
func (in *Interner) Freeze() {
	in.frozen = true
}

// Frozen reports whether the registry still accepts mutations.
func (in *Interner) Frozen() bool {
	return in.frozen
}

func (in *Interner) mutable(op string) {
	if in.frozen {
		panic(fmt.Sprintf("types: %s on frozen registry", op))
	}
}

// Intern ensures the provided descriptor has a stable TypeID. Two requests
// for structurally identical descriptors return the same ID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindUnresolved {
		return NoTypeID
	}
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	in.mutable("intern")
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[typeKey(t)] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Len reports the number of interned descriptors, unresolved slot included.
func (in *Interner) Len() int {
	return len(in.types)
}

// NominalTypes returns every struct and enum TypeID in interning order.
func (in *Interner) NominalTypes() []TypeID {
	var out []TypeID
	for i := 1; i < len(in.types); i++ {
		switch in.types[i].Kind {
		case KindStruct, KindEnum:
			out = append(out, TypeID(i))
		}
	}
	return out
}

// KindOf is a convenience for Lookup(...).Kind; NoTypeID yields
// KindUnresolved.
func (in *Interner) KindOf(id TypeID) Kind {
	tt, ok := in.Lookup(id)
	if !ok {
		return KindUnresolved
	}
	return tt.Kind
}

// Deref strips any number of pointer/reference layers.
func (in *Interner) Deref(id TypeID) TypeID {
	for {
		tt, ok := in.Lookup(id)
		if !ok {
			return id
		}
		switch tt.Kind {
		case KindPointer, KindReference:
			if tt.Elem == NoTypeID {
				return id
			}
			id = tt.Elem
		default:
			return id
		}
	}
}

// typeKey is the comparable structural identity of a descriptor.
type typeKey struct {
	Kind    Kind
	Elem    TypeID
	Width   Width
	Mutable bool
	Payload uint32
}
