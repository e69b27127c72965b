package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"zenc/internal/ast"
	"zenc/internal/source"
)

// Table owns every symbol of one compilation unit plus the per-node
// resolution maps the IDE layer queries after freezing.
type Table struct {
	Strings *source.Interner

	symbols []Symbol

	// ExprSymbols maps identifier/call nodes to the symbol they resolved to.
	ExprSymbols map[ast.ExprID]SymbolID
	// LetSymbols maps let statements to the binding they introduce.
	LetSymbols map[ast.StmtID]SymbolID
	// ParamSymbols maps function declarations to their parameter symbols in
	// declaration order.
	ParamSymbols map[ast.DeclID][]SymbolID
	// PatternSymbols maps match patterns to the binding they introduce.
	PatternSymbols map[ast.PatternID]SymbolID
	// Refs collects every reference span per symbol, declaration included.
	Refs map[SymbolID][]source.Span
}

// NewTable builds a fresh table sharing the module's string interner.
func NewTable(strings *source.Interner) *Table {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Table{
		Strings:        strings,
		symbols:        make([]Symbol, 1), // reserve slot 0 for NoSymbolID
		ExprSymbols:    make(map[ast.ExprID]SymbolID),
		LetSymbols:     make(map[ast.StmtID]SymbolID),
		ParamSymbols:   make(map[ast.DeclID][]SymbolID),
		PatternSymbols: make(map[ast.PatternID]SymbolID),
		Refs:           make(map[SymbolID][]source.Span),
	}
}

// BindLet notes the binding a let statement introduces. Re-checks of a
// generic body overwrite it; the final pairing stays internally consistent.
func (t *Table) BindLet(stmt ast.StmtID, sym SymbolID) {
	if stmt.IsValid() && sym.IsValid() {
		t.LetSymbols[stmt] = sym
	}
}

// BindParams notes the parameter symbols of one function declaration.
func (t *Table) BindParams(decl ast.DeclID, syms []SymbolID) {
	if decl.IsValid() {
		t.ParamSymbols[decl] = syms
	}
}

// BindPattern notes the binding a match pattern introduces.
func (t *Table) BindPattern(pat ast.PatternID, sym SymbolID) {
	if pat.IsValid() && sym.IsValid() {
		t.PatternSymbols[pat] = sym
	}
}

// Insert allocates a new symbol and returns its ID.
func (t *Table) Insert(sym Symbol) SymbolID {
	lenSyms, err := safecast.Conv[uint32](len(t.symbols))
	if err != nil {
		panic(fmt.Errorf("symbol overflow: %w", err))
	}
	id := SymbolID(lenSyms)
	sym.ID = id
	t.symbols = append(t.symbols, sym)
	if !sym.Span.Empty() || sym.Span.File != 0 {
		t.Refs[id] = append(t.Refs[id], sym.Span)
	}
	return id
}

// Get returns the symbol for an ID, or nil.
func (t *Table) Get(id SymbolID) *Symbol {
	if id == NoSymbolID || int(id) >= len(t.symbols) {
		return nil
	}
	return &t.symbols[id]
}

// RecordRef notes that expr resolved to sym at span.
func (t *Table) RecordRef(expr ast.ExprID, sym SymbolID, span source.Span) {
	if !sym.IsValid() {
		return
	}
	if expr.IsValid() {
		t.ExprSymbols[expr] = sym
	}
	t.Refs[sym] = append(t.Refs[sym], span)
}

// ReferencesTo returns every recorded span for a symbol.
func (t *Table) ReferencesTo(sym SymbolID) []source.Span {
	return t.Refs[sym]
}

// Len reports the number of symbols, sentinel included.
func (t *Table) Len() int {
	return len(t.symbols)
}
