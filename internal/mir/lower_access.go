package mir

import (
	"zenc/internal/ast"
	"zenc/internal/types"
)

// lowerPlace lowers an expression that denotes a memory location. Field
// access through a pointer or reference inserts explicit deref hops, one
// indirection per hop, so every field projection records the exact struct
// type it selects from.
func (fl *funcLowerer) lowerPlace(id ast.ExprID) (Place, bool) {
	e := fl.mod.Expr(id)
	if e == nil {
		return Place{Local: NoLocalID}, false
	}
	switch e.Kind {
	case ast.ExprIdent:
		sym, ok := fl.lw.Res.Symbols.ExprSymbols[id]
		if !ok {
			return Place{Local: NoLocalID}, false
		}
		local, ok := fl.locals[sym]
		if !ok {
			return Place{Local: NoLocalID}, false
		}
		return Place{Local: local}, true
	case ast.ExprField:
		data := fl.mod.FieldData(e)
		if data == nil {
			return Place{Local: NoLocalID}, false
		}
		place, ok := fl.lowerPlace(data.Object)
		if !ok {
			place = fl.spill(data.Object)
		}
		base := fl.typeOf(data.Object)
		in := fl.lw.Res.Types
		// One projection per indirection layer; Deref would strip them all.
		for {
			tt, ok := in.Lookup(base)
			if !ok || (tt.Kind != types.KindPointer && tt.Kind != types.KindReference) {
				break
			}
			if tt.Elem == types.NoTypeID {
				break
			}
			place = place.Deref()
			base = tt.Elem
		}
		_, idx, ok := in.StructFieldByName(base, data.Name)
		if !ok {
			return Place{Local: NoLocalID}, false
		}
		return place.Field(base, fl.mod.StringOf(data.Name), idx), true
	case ast.ExprUnary:
		data := fl.mod.UnaryData(e)
		if data == nil || data.Op != ast.UnaryDeref {
			return Place{Local: NoLocalID}, false
		}
		place, ok := fl.lowerPlace(data.Operand)
		if !ok {
			place = fl.spill(data.Operand)
		}
		return place.Deref(), true
	default:
		return Place{Local: NoLocalID}, false
	}
}
