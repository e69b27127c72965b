package mir

import (
	"strings"

	"zenc/internal/ast"
	"zenc/internal/diag"
	"zenc/internal/mono"
	"zenc/internal/sema"
	"zenc/internal/symbols"
	"zenc/internal/types"
)

// Lowerer turns a checked module into MIR: one Func per non-generic
// function, plus one specialized Func per recorded instantiation key.
type Lowerer struct {
	Res      *sema.Result
	Insts    *mono.InstantiationMap
	Reporter diag.Reporter
}

// Lower produces the MIR module. Nodes left unresolved by the checker lower
// to no-ops; constructs the backend cannot express surface as diagnostics,
// never as aborts.
func Lower(res *sema.Result, insts *mono.InstantiationMap, reporter diag.Reporter) *Module {
	lw := &Lowerer{Res: res, Insts: insts, Reporter: reporter}
	out := NewModule(res.Module.Name)

	mod := res.Module
	for i := uint32(1); i <= mod.Decls.Len(); i++ {
		declID := ast.DeclID(i)
		decl := mod.Decl(declID)
		if decl.Kind != ast.DeclFunc {
			continue
		}
		sig := res.Sigs[declID]
		if sig == nil || len(sig.TypeParams) > 0 || len(sig.OwnerArgs) > 0 {
			continue
		}
		f := lw.lowerFunc(declID, sig, "", res.ExprTypes, res.CallKeys)
		if f != nil {
			out.AddFunc(f)
		}
	}

	// One specialized body per instantiation key; identical keys were
	// already collapsed by the instantiation map.
	for _, entry := range insts.FnEntries() {
		sym := res.Symbols.Get(entry.Key.Sym)
		if sym == nil {
			continue
		}
		instKey := sema.InstKey{Decl: sym.Decl, ArgsKey: entry.Key.ArgsKey}
		nodeTypes := res.FnInstTypes[instKey]
		instSig := res.InstSigs[instKey]
		if nodeTypes == nil || instSig == nil {
			// The checker bailed out of this instantiation; its diagnostics
			// already explain why.
			continue
		}
		f := lw.lowerFunc(sym.Decl, instSig, entry.Key.ArgsKey, nodeTypes, res.FnInstCallKeys[instKey])
		if f != nil {
			f.Name = specializedName(res, f.Name, entry.TypeArgs)
			out.AddFunc(f)
		}
	}
	return out
}

func specializedName(res *sema.Result, base string, args []types.TypeID) string {
	if len(args) == 0 {
		return base
	}
	labels := make([]string, len(args))
	for i, a := range args {
		labels[i] = types.Label(res.Types, res.Module.Strings, a)
	}
	return base + "<" + strings.Join(labels, ", ") + ">"
}

// funcLowerer carries per-body lowering state.
type funcLowerer struct {
	lw  *Lowerer
	mod *ast.Module
	f   *Func

	nodeTypes map[ast.ExprID]types.TypeID
	callKeys  map[ast.ExprID]string

	locals map[symbols.SymbolID]LocalID
	cur    BlockID
}

func (lw *Lowerer) lowerFunc(declID ast.DeclID, sig *sema.FuncSig, key string, nodeTypes map[ast.ExprID]types.TypeID, callKeys map[ast.ExprID]string) *Func {
	mod := lw.Res.Module
	decl := mod.Decl(declID)
	data := mod.FuncDeclData(decl)
	if data == nil || !data.Body.IsValid() {
		return nil
	}

	f := &Func{
		Sym:    sig.Sym,
		Key:    key,
		Name:   mod.StringOf(decl.Name),
		Span:   decl.Span,
		Result: sig.Result,
	}
	fl := &funcLowerer{
		lw:        lw,
		mod:       mod,
		f:         f,
		nodeTypes: nodeTypes,
		callKeys:  callKeys,
		locals:    make(map[symbols.SymbolID]LocalID),
	}

	paramSyms := lw.Res.Symbols.ParamSymbols[declID]
	for i, p := range data.Params {
		var t types.TypeID
		if i < len(sig.Params) {
			t = sig.Params[i]
		}
		id := f.NewLocal(Local{
			Type:  t,
			Flags: LocalFlagParam,
			Name:  mod.StringOf(p.Name),
			Span:  p.Span,
		})
		if i < len(paramSyms) {
			f.Locals[id].Sym = paramSyms[i]
			fl.locals[paramSyms[i]] = id
		}
	}

	f.Entry = f.NewBlock()
	fl.cur = f.Entry
	fl.lowerStmt(data.Body)

	// Fall-through off the end returns unit; a non-unit function that falls
	// through is unreachable by construction once flow checks exist.
	if !f.Block(fl.cur).Terminated() {
		f.SetTerm(fl.cur, Terminator{Kind: TermReturn})
	}
	return f
}

// typeOf reads the checker's resolved type for a node.
func (fl *funcLowerer) typeOf(id ast.ExprID) types.TypeID {
	return fl.nodeTypes[id]
}

// newTemp allocates an anonymous slot.
func (fl *funcLowerer) newTemp(t types.TypeID) LocalID {
	return fl.f.NewLocal(Local{Type: t, Flags: LocalFlagTemp, Name: ""})
}

// unsupported flags a construct the backend cannot express yet; lowering
// continues so later functions still lower.
func (fl *funcLowerer) unsupported(id ast.ExprID, msg string) Operand {
	if fl.lw.Reporter != nil {
		fl.lw.Reporter.Report(diag.GenUnsupportedConstruct, diag.SevError,
			fl.mod.ExprSpan(id), msg, nil)
	}
	return Operand{Kind: OperandConst, Const: Const{Kind: ConstUnit}}
}
