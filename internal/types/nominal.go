package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"zenc/internal/source"
)

// StructField describes a single field inside a nominal struct type.
type StructField struct {
	Name source.StringID
	Type TypeID
}

// StructInfo stores metadata for a struct type. Def points at the generic
// definition a monomorphized instance was produced from; it is NoTypeID for
// the definition itself.
type StructInfo struct {
	Name     source.StringID
	Decl     source.Span
	Fields   []StructField
	TypeArgs []TypeID
	Def      TypeID
}

// RegisterStruct allocates a nominal struct type slot and returns its TypeID.
func (in *Interner) RegisterStruct(name source.StringID, decl source.Span) TypeID {
	slot := in.appendStructInfo(StructInfo{Name: name, Decl: decl})
	return in.internRaw(Type{Kind: KindStruct, Payload: slot})
}

// RegisterStructInstance allocates a monomorphized struct with concrete type
// arguments. Callers must memoize through RememberInstance first.
func (in *Interner) RegisterStructInstance(def TypeID, args []TypeID) TypeID {
	info := in.structInfo(def)
	if info == nil {
		return NoTypeID
	}
	slot := in.appendStructInfo(StructInfo{
		Name:     info.Name,
		Decl:     info.Decl,
		TypeArgs: slices.Clone(args),
		Def:      def,
	})
	return in.internRaw(Type{Kind: KindStruct, Payload: slot})
}

// SetStructFields stores the resolved field descriptors for the struct type.
func (in *Interner) SetStructFields(typeID TypeID, fields []StructField) {
	in.mutable("set struct fields")
	info := in.structInfo(typeID)
	if info == nil {
		return
	}
	info.Fields = slices.Clone(fields)
}

// StructInfo returns metadata for the provided struct TypeID.
func (in *Interner) StructInfo(typeID TypeID) (*StructInfo, bool) {
	info := in.structInfo(typeID)
	if info == nil {
		return nil, false
	}
	return info, true
}

// StructFieldByName resolves one field of a struct by name. This is the
// single hop used by recursive field-chain resolution.
func (in *Interner) StructFieldByName(typeID TypeID, name source.StringID) (StructField, int, bool) {
	info := in.structInfo(typeID)
	if info == nil {
		return StructField{}, -1, false
	}
	for i, f := range info.Fields {
		if f.Name == name {
			return f, i, true
		}
	}
	return StructField{}, -1, false
}

func (in *Interner) structInfo(typeID TypeID) *StructInfo {
	if typeID == NoTypeID {
		return nil
	}
	tt, ok := in.Lookup(typeID)
	if !ok || tt.Kind != KindStruct {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.structs) {
		return nil
	}
	return &in.structs[tt.Payload]
}

func (in *Interner) appendStructInfo(info StructInfo) uint32 {
	in.mutable("register struct")
	in.structs = append(in.structs, info)
	slot, err := safecast.Conv[uint32](len(in.structs) - 1)
	if err != nil {
		panic(fmt.Errorf("struct info overflow: %w", err))
	}
	return slot
}
