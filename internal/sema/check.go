package sema

import (
	"fmt"

	"zenc/internal/ast"
	"zenc/internal/diag"
	"zenc/internal/layout"
	"zenc/internal/source"
	"zenc/internal/symbols"
	"zenc/internal/types"
)

// InstantiationRecorder receives every generic instantiation the checker
// performs; the mono package implements it.
type InstantiationRecorder interface {
	RecordFnInstantiation(fn symbols.SymbolID, typeArgs []types.TypeID, site source.Span, caller symbols.SymbolID)
	RecordTypeInstantiation(typeSym symbols.SymbolID, typeArgs []types.TypeID, site source.Span, caller symbols.SymbolID)
}

// Options configure a semantic pass over a module.
type Options struct {
	Reporter diag.Reporter
	Types    *types.Interner
	Layout   *layout.Engine
	Insts    InstantiationRecorder
}

// InstKey identifies one checked generic-function instantiation.
type InstKey struct {
	Decl    ast.DeclID
	ArgsKey string
}

// Result stores the semantic artefacts produced by the checker. After Check
// returns, the registry inside is frozen and the result is read-only.
type Result struct {
	Module *ast.Module
	Types  *types.Interner

	// ExprTypes keys per-node resolved types by node identity.
	ExprTypes map[ast.ExprID]types.TypeID
	// FnInstTypes holds per-node types for each checked generic-function
	// instantiation, keyed by (decl, type-arg key).
	FnInstTypes map[InstKey]map[ast.ExprID]types.TypeID

	// CallKeys maps call nodes that resolved to a generic function onto the
	// instantiation key of the specialized body they invoke.
	CallKeys map[ast.ExprID]string
	// FnInstCallKeys is CallKeys per checked generic-function instantiation.
	FnInstCallKeys map[InstKey]map[ast.ExprID]string

	Symbols *symbols.Table
	Methods *MethodTable
	Sigs    map[ast.DeclID]*FuncSig
	// InstSigs holds the fully substituted signature of each checked
	// generic-function instantiation.
	InstSigs map[InstKey]*FuncSig
}

// Check performs semantic analysis: the declaration pass, the resolution
// pass, and function-body inference. It never aborts on a single error;
// unresolved nodes keep the NoTypeID sentinel so later phases can skip them.
func Check(mod *ast.Module, opts Options) Result {
	res := Result{
		Module:         mod,
		ExprTypes:      make(map[ast.ExprID]types.TypeID),
		FnInstTypes:    make(map[InstKey]map[ast.ExprID]types.TypeID),
		CallKeys:       make(map[ast.ExprID]string),
		FnInstCallKeys: make(map[InstKey]map[ast.ExprID]string),
		Sigs:           make(map[ast.DeclID]*FuncSig),
		InstSigs:       make(map[InstKey]*FuncSig),
	}
	if opts.Types != nil {
		res.Types = opts.Types
	} else {
		res.Types = types.NewInterner()
	}
	le := opts.Layout
	if le == nil {
		le = layout.New(layout.X86_64LinuxGNU(), res.Types)
	}
	res.Symbols = symbols.NewTable(mod.Strings)
	res.Methods = NewMethodTable()
	if mod == nil {
		return res
	}

	tc := &typeChecker{
		mod:          mod,
		reporter:     opts.Reporter,
		types:        res.Types,
		layout:       le,
		table:        res.Symbols,
		methods:      res.Methods,
		insts:        opts.Insts,
		result:       &res,
		curTypes:     res.ExprTypes,
		curCallKeys:  res.CallKeys,
		declType:     make(map[ast.DeclID]types.TypeID),
		declOfType:   make(map[types.TypeID]ast.DeclID),
		typeSyms:     make(map[ast.DeclID]symbols.SymbolID),
		freeFuncs:    make(map[source.StringID][]ast.DeclID),
		checkedInsts: make(map[InstKey]struct{}),
	}
	tc.run()
	res.Types.Freeze()
	return res
}

type typeChecker struct {
	mod      *ast.Module
	reporter diag.Reporter
	types    *types.Interner
	layout   *layout.Engine
	table    *symbols.Table
	methods  *MethodTable
	insts    InstantiationRecorder
	result   *Result

	moduleScope *symbols.Scope
	scope       *symbols.Scope

	// curTypes is the per-node type map currently being written: the shared
	// one, or a per-instantiation map during a generic body check.
	curTypes map[ast.ExprID]types.TypeID
	// curCallKeys follows the same discipline for call-site instantiation
	// keys.
	curCallKeys map[ast.ExprID]string

	declType       map[ast.DeclID]types.TypeID
	declOfType     map[types.TypeID]ast.DeclID
	typeSyms       map[ast.DeclID]symbols.SymbolID
	freeFuncs      map[source.StringID][]ast.DeclID
	declTypeParams map[ast.DeclID][]types.TypeID

	// typeParamScope maps generic parameter names to their TypeIDs while
	// resolving type expressions inside a generic declaration.
	typeParamScope map[source.StringID]types.TypeID

	checkedInsts map[InstKey]struct{}

	// activeSubst maps generic-param TypeIDs to concrete TypeIDs while a
	// generic body is checked under an instantiation.
	activeSubst map[types.TypeID]types.TypeID

	curFunc   *FuncSig
	curCaller symbols.SymbolID
}

func (tc *typeChecker) run() {
	tc.moduleScope = symbols.NewScope(symbols.ScopeModule, nil)
	tc.scope = tc.moduleScope

	tc.declarePass()
	tc.resolvePass()
	tc.checkBodies()
}

// report emits a diagnostic without aborting the pass.
func (tc *typeChecker) report(code diag.Code, span source.Span, format string, args ...any) {
	if tc.reporter == nil {
		return
	}
	sev := diag.SevError
	if code == diag.SemaInfo {
		sev = diag.SevInfo
	}
	tc.reporter.Report(code, sev, span, fmt.Sprintf(format, args...), nil)
}

func (tc *typeChecker) label(id types.TypeID) string {
	return types.Label(tc.types, tc.mod.Strings, id)
}

func (tc *typeChecker) name(id source.StringID) string {
	return tc.mod.StringOf(id)
}

// setType records the resolved type for an expression node.
func (tc *typeChecker) setType(id ast.ExprID, t types.TypeID) types.TypeID {
	if id.IsValid() {
		tc.curTypes[id] = t
	}
	return t
}

// pushScope opens a child scope and returns a closer.
func (tc *typeChecker) pushScope(kind symbols.ScopeKind) func() {
	parent := tc.scope
	tc.scope = symbols.NewScope(kind, parent)
	return func() { tc.scope = parent }
}
