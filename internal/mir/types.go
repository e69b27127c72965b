package mir

import (
	"zenc/internal/source"
	"zenc/internal/symbols"
	"zenc/internal/types"
)

type FuncID int32
type BlockID int32
type LocalID int32

const (
	NoFuncID  FuncID  = -1
	NoBlockID BlockID = -1
	NoLocalID LocalID = -1
)

type LocalFlags uint8

const (
	LocalFlagParam LocalFlags = 1 << iota
	LocalFlagMut
	LocalFlagTemp
)

// Local is one stack slot of a lowered function.
type Local struct {
	Sym   symbols.SymbolID
	Type  types.TypeID
	Flags LocalFlags
	Name  string
	Span  source.Span
}

type PlaceProjKind uint8

const (
	// PlaceProjDeref loads through a pointer or reference.
	PlaceProjDeref PlaceProjKind = iota
	// PlaceProjField selects one field of the current hop's struct type.
	PlaceProjField
)

// PlaceProj is one projection hop. A field hop carries the field's index and
// the struct type it was selected from; byte offsets are never stored here.
// The backend asks the layout engine per hop, so a layout change cannot
// desynchronize lowered code.
type PlaceProj struct {
	Kind PlaceProjKind

	FieldName string
	FieldIdx  int
	// Base is the struct type the field was selected from, after any
	// dereference on this hop's left.
	Base types.TypeID
}

// Place is a memory location: a local plus zero or more projection hops.
type Place struct {
	Local LocalID
	Proj  []PlaceProj
}

func (p Place) IsValid() bool {
	return p.Local != NoLocalID
}

// Field extends the place by one field hop.
func (p Place) Field(base types.TypeID, name string, idx int) Place {
	proj := make([]PlaceProj, len(p.Proj), len(p.Proj)+1)
	copy(proj, p.Proj)
	return Place{
		Local: p.Local,
		Proj: append(proj, PlaceProj{
			Kind:      PlaceProjField,
			FieldName: name,
			FieldIdx:  idx,
			Base:      base,
		}),
	}
}

// Deref extends the place by one dereference hop.
func (p Place) Deref() Place {
	proj := make([]PlaceProj, len(p.Proj), len(p.Proj)+1)
	copy(proj, p.Proj)
	return Place{
		Local: p.Local,
		Proj:  append(proj, PlaceProj{Kind: PlaceProjDeref}),
	}
}
