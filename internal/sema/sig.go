package sema

import (
	"zenc/internal/ast"
	"zenc/internal/source"
	"zenc/internal/symbols"
	"zenc/internal/types"
)

// FuncSig is the resolved signature of one function declaration. For
// inherent methods Owner is the receiver definition type and Params[SelfPos]
// is the self parameter.
type FuncSig struct {
	Decl ast.DeclID
	Sym  symbols.SymbolID
	Name source.StringID

	TypeParams []types.TypeID
	Params     []types.TypeID
	Result     types.TypeID

	Owner     types.TypeID
	OwnerArgs []types.TypeID
	SelfPos   int
}

// IsGeneric reports whether the function needs monomorphization.
func (s *FuncSig) IsGeneric() bool {
	return s != nil && len(s.TypeParams) > 0
}

// IsMethod reports whether the function has an inherent receiver.
func (s *FuncSig) IsMethod() bool {
	return s != nil && s.Owner != types.NoTypeID
}
