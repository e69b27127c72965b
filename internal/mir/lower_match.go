package mir

import (
	"sort"

	"zenc/internal/ast"
	"zenc/internal/symbols"
	"zenc/internal/types"
)

// lowerMatch lowers a match expression to a tag switch. The subject is
// evaluated once into a temporary; each variant arm becomes one case block
// and a catch-all arm becomes the default block. Payload bindings read the
// payload with a tag-guarded extraction in their arm's block.
func (fl *funcLowerer) lowerMatch(id ast.ExprID, e *ast.Expr, t types.TypeID) Operand {
	data := fl.mod.MatchData(e)
	if data == nil {
		return Operand{Kind: OperandConst, Const: Const{Kind: ConstUnit}}
	}
	in := fl.lw.Res.Types

	subject := fl.lowerExpr(data.Subject)
	enumType := in.Deref(subject.Type)
	if _, isEnum := in.EnumInfo(enumType); !isEnum {
		return fl.unsupported(id, "match subject is not an enum")
	}

	// Load through any indirection so tag tests see the enum value itself.
	if subject.Type != enumType {
		place := subject.Place
		if subject.Kind == OperandConst {
			place = fl.spill(data.Subject)
		}
		for cur := subject.Type; cur != enumType; {
			tt, ok := in.Lookup(cur)
			if !ok || (tt.Kind != types.KindPointer && tt.Kind != types.KindReference) {
				break
			}
			place = place.Deref()
			cur = tt.Elem
		}
		subject = Operand{Kind: OperandCopy, Type: enumType, Place: place}
	}

	hasResult := t != types.NoTypeID && in.KindOf(t) != types.KindUnit
	var result LocalID
	if hasResult {
		result = fl.newTemp(t)
	}

	origin := fl.cur
	joinBB := fl.f.NewBlock()
	var cases []SwitchTagCase
	defaultBB := NoBlockID

	for _, arm := range data.Arms {
		p := fl.mod.Pattern(arm.Pattern)
		if p == nil {
			continue
		}
		var armBB BlockID
		switch p.Kind {
		case ast.PatternVariant:
			variant, idx, ok := in.EnumVariantByName(enumType, p.Name)
			if !ok {
				continue
			}
			armBB = fl.f.NewBlock()
			cases = append(cases, SwitchTagCase{
				Tag:     idx,
				TagName: fl.mod.StringOf(p.Name),
				Target:  armBB,
			})
			fl.cur = armBB
			if sym, bound := fl.lw.Res.Symbols.PatternSymbols[arm.Pattern]; bound {
				binding := fl.newLocalFor(sym, variant.Payload)
				fl.f.Append(fl.cur, Instr{Kind: InstrAssign, Assign: AssignInstr{
					Dst: Place{Local: binding},
					Src: RValue{Kind: RValueTagPayload, TagPayload: TagPayload{
						Value:   subject,
						Tag:     idx,
						TagName: fl.mod.StringOf(p.Name),
						Type:    variant.Payload,
					}},
				}})
			}
		case ast.PatternBinding:
			armBB = fl.f.NewBlock()
			defaultBB = armBB
			fl.cur = armBB
			if sym, bound := fl.lw.Res.Symbols.PatternSymbols[arm.Pattern]; bound {
				binding := fl.newLocalFor(sym, enumType)
				fl.f.Append(fl.cur, Instr{Kind: InstrAssign, Assign: AssignInstr{
					Dst: Place{Local: binding},
					Src: RValue{Kind: RValueUse, Use: subject},
				}})
			}
		case ast.PatternWildcard:
			armBB = fl.f.NewBlock()
			defaultBB = armBB
			fl.cur = armBB
		default:
			continue
		}

		value := fl.lowerExpr(arm.Body)
		if hasResult {
			fl.f.Append(fl.cur, Instr{Kind: InstrAssign, Assign: AssignInstr{
				Dst: Place{Local: result},
				Src: RValue{Kind: RValueUse, Use: value},
			}})
		}
		fl.f.SetTerm(fl.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: joinBB}})
	}

	// Cases land in variant declaration order regardless of source order.
	sort.Slice(cases, func(i, j int) bool { return cases[i].Tag < cases[j].Tag })

	fl.f.SetTerm(origin, Terminator{Kind: TermSwitchTag, SwitchTag: SwitchTagTerm{
		Value:   subject,
		Cases:   cases,
		Default: defaultBB,
	}})
	fl.cur = joinBB

	if hasResult {
		return Operand{Kind: OperandCopy, Type: t, Place: Place{Local: result}}
	}
	return Operand{Kind: OperandConst, Type: t, Const: Const{Kind: ConstUnit}}
}

// newLocalFor allocates a named local for a binding symbol.
func (fl *funcLowerer) newLocalFor(sym symbols.SymbolID, t types.TypeID) LocalID {
	s := fl.lw.Res.Symbols.Get(sym)
	name := ""
	if s != nil {
		name = fl.lw.Res.Symbols.Strings.MustLookup(s.Name)
	}
	local := fl.f.NewLocal(Local{Sym: sym, Type: t, Name: name})
	fl.locals[sym] = local
	return local
}
