package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"zenc/internal/source"
)

// EnumVariant describes a single tagged variant. Payload is NoTypeID for
// bare tags.
type EnumVariant struct {
	Name    source.StringID
	Payload TypeID
	Span    source.Span
}

// EnumInfo stores metadata for a tagged sum type. Variant order is
// declaration order and is what codegen branches on.
type EnumInfo struct {
	Name     source.StringID
	Decl     source.Span
	Variants []EnumVariant
	TypeArgs []TypeID
	Def      TypeID
}

// RegisterEnum allocates a nominal enum type slot and returns its TypeID.
func (in *Interner) RegisterEnum(name source.StringID, decl source.Span) TypeID {
	slot := in.appendEnumInfo(EnumInfo{Name: name, Decl: decl})
	return in.internRaw(Type{Kind: KindEnum, Payload: slot})
}

// RegisterEnumInstance allocates a monomorphized enum with concrete type
// arguments.
func (in *Interner) RegisterEnumInstance(def TypeID, args []TypeID) TypeID {
	info := in.enumInfo(def)
	if info == nil {
		return NoTypeID
	}
	slot := in.appendEnumInfo(EnumInfo{
		Name:     info.Name,
		Decl:     info.Decl,
		TypeArgs: slices.Clone(args),
		Def:      def,
	})
	return in.internRaw(Type{Kind: KindEnum, Payload: slot})
}

// SetEnumVariants stores the resolved variants for the enum type.
func (in *Interner) SetEnumVariants(typeID TypeID, variants []EnumVariant) {
	in.mutable("set enum variants")
	info := in.enumInfo(typeID)
	if info == nil {
		return
	}
	info.Variants = slices.Clone(variants)
}

// EnumInfo returns metadata for the provided enum TypeID.
func (in *Interner) EnumInfo(typeID TypeID) (*EnumInfo, bool) {
	info := in.enumInfo(typeID)
	if info == nil {
		return nil, false
	}
	return info, true
}

// EnumVariantByName resolves one variant and its declaration index.
func (in *Interner) EnumVariantByName(typeID TypeID, name source.StringID) (EnumVariant, int, bool) {
	info := in.enumInfo(typeID)
	if info == nil {
		return EnumVariant{}, -1, false
	}
	for i, v := range info.Variants {
		if v.Name == name {
			return v, i, true
		}
	}
	return EnumVariant{}, -1, false
}

func (in *Interner) enumInfo(typeID TypeID) *EnumInfo {
	if typeID == NoTypeID {
		return nil
	}
	tt, ok := in.Lookup(typeID)
	if !ok || tt.Kind != KindEnum {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.enums) {
		return nil
	}
	return &in.enums[tt.Payload]
}

func (in *Interner) appendEnumInfo(info EnumInfo) uint32 {
	in.mutable("register enum")
	in.enums = append(in.enums, info)
	slot, err := safecast.Conv[uint32](len(in.enums) - 1)
	if err != nil {
		panic(fmt.Errorf("enum info overflow: %w", err))
	}
	return slot
}
