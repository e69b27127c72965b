package diag

import (
	"fmt"
)

// Code is a stable diagnostic identifier. The numeric blocks partition codes
// by pipeline phase; Name() yields the wire-stable string form.
type Code uint16

const (
	UnknownCode Code = 0

	// Resolution errors (type checking).
	SemaInfo               Code = 3000
	SemaUnknownType        Code = 3001
	SemaTypeMismatch       Code = 3002
	SemaUnresolvedMethod   Code = 3003
	SemaAmbiguousMethod    Code = 3004
	SemaNonExhaustiveMatch Code = 3005
	SemaDuplicateSymbol    Code = 3006
	SemaUnresolvedSymbol   Code = 3007
	SemaUnknownField       Code = 3008
	SemaUnknownVariant     Code = 3009
	SemaArityMismatch      Code = 3010
	SemaNotCallable        Code = 3011
	SemaImmutableWrite     Code = 3012
	SemaMissingField       Code = 3013

	// Layout errors.
	LayoutRecursive Code = 4001
	LayoutOverflow  Code = 4002

	// Codegen errors.
	GenUnsupportedConstruct Code = 5001
)

var codeName = map[Code]string{
	UnknownCode:             "Unknown",
	SemaInfo:                "Info",
	SemaUnknownType:         "UnknownType",
	SemaTypeMismatch:        "TypeMismatch",
	SemaUnresolvedMethod:    "UnresolvedMethod",
	SemaAmbiguousMethod:     "AmbiguousMethod",
	SemaNonExhaustiveMatch:  "NonExhaustiveMatch",
	SemaDuplicateSymbol:     "DuplicateSymbol",
	SemaUnresolvedSymbol:    "UnresolvedSymbol",
	SemaUnknownField:        "UnknownField",
	SemaUnknownVariant:      "UnknownVariant",
	SemaArityMismatch:       "ArityMismatch",
	SemaNotCallable:         "NotCallable",
	SemaImmutableWrite:      "ImmutableWrite",
	SemaMissingField:        "MissingField",
	LayoutRecursive:         "RecursiveLayout",
	LayoutOverflow:          "LayoutOverflow",
	GenUnsupportedConstruct: "UnsupportedConstruct",
}

// ID returns the phase-prefixed numeric form, e.g. "SEM3002".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("LAY%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("GEN%04d", ic)
	}
	return "E0000"
}

// Name returns the stable symbolic name used on the wire.
func (c Code) Name() string {
	name, ok := codeName[c]
	if !ok {
		return codeName[UnknownCode]
	}
	return name
}

func (c Code) String() string {
	return fmt.Sprintf("[%s] %s", c.ID(), c.Name())
}
