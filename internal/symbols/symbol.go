package symbols

import (
	"zenc/internal/ast"
	"zenc/internal/source"
	"zenc/internal/types"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolType
	SymbolFunction
	SymbolParam
	SymbolLet
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolType:
		return "type"
	case SymbolFunction:
		return "function"
	case SymbolParam:
		return "param"
	case SymbolLet:
		return "let"
	default:
		return "invalid"
	}
}

// Symbol is one named declaration: a type, function, parameter, or local.
type Symbol struct {
	ID      SymbolID
	Kind    SymbolKind
	Name    source.StringID
	Span    source.Span // declaration site
	Decl    ast.DeclID  // for types and functions
	Type    types.TypeID
	Mutable bool
}
