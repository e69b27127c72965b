// Package ide answers editor queries over a frozen checking result. Every
// query is read-only; a Query may be shared by concurrent readers because
// the registry is frozen and the bag is never mutated after Check.
package ide

import (
	"fmt"
	"sort"
	"strings"

	"zenc/internal/ast"
	"zenc/internal/diag"
	"zenc/internal/layout"
	"zenc/internal/sema"
	"zenc/internal/source"
	"zenc/internal/symbols"
	"zenc/internal/types"
)

// Query wraps one checked unit for editor consumption.
type Query struct {
	res *sema.Result
	bag *diag.Bag
	eng *layout.Engine
}

// NewQuery builds a query surface over a checked unit. The result's registry
// must already be frozen; Check freezes it before returning.
func NewQuery(res *sema.Result, bag *diag.Bag, eng *layout.Engine) *Query {
	if eng == nil {
		eng = layout.New(layout.X86_64LinuxGNU(), res.Types)
	}
	return &Query{res: res, bag: bag, eng: eng}
}

// TypeOf returns the resolved type of an expression, NoTypeID when the
// checker could not resolve it.
func (q *Query) TypeOf(id ast.ExprID) types.TypeID {
	return q.res.ExprTypes[id]
}

// LayoutOf returns size, alignment and field offsets of a type.
func (q *Query) LayoutOf(t types.TypeID) (layout.StructLayout, error) {
	return q.eng.LayoutOf(t)
}

// DefinitionSite returns the declaration span of whatever the expression
// resolved to. The empty span means the expression names nothing.
func (q *Query) DefinitionSite(id ast.ExprID) source.Span {
	sym, ok := q.res.Symbols.ExprSymbols[id]
	if !ok {
		return source.Span{}
	}
	s := q.res.Symbols.Get(sym)
	if s == nil {
		return source.Span{}
	}
	return s.Span
}

// SymbolAt returns the symbol an expression resolved to.
func (q *Query) SymbolAt(id ast.ExprID) (symbols.SymbolID, bool) {
	sym, ok := q.res.Symbols.ExprSymbols[id]
	return sym, ok
}

// ReferencesTo returns every recorded reference span of a symbol, the
// declaration site included.
func (q *Query) ReferencesTo(sym symbols.SymbolID) []source.Span {
	return q.res.Symbols.ReferencesTo(sym)
}

// Diagnostics returns the unit's accumulated diagnostics.
func (q *Query) Diagnostics() []diag.Diagnostic {
	if q.bag == nil {
		return nil
	}
	return q.bag.Items()
}

// HoverText renders a short description of an expression: its resolved
// symbol, type label, and size when layout is computable.
func (q *Query) HoverText(id ast.ExprID) string {
	t := q.TypeOf(id)
	if t == types.NoTypeID {
		return ""
	}
	label := types.Label(q.res.Types, q.res.Module.Strings, t)

	var b strings.Builder
	if sym, ok := q.SymbolAt(id); ok {
		if s := q.res.Symbols.Get(sym); s != nil {
			fmt.Fprintf(&b, "%s: ", q.res.Symbols.Strings.MustLookup(s.Name))
		}
	}
	b.WriteString(label)
	if l, err := q.eng.LayoutOf(t); err == nil && l.Size > 0 {
		fmt.Fprintf(&b, " (%d bytes, align %d)", l.Size, l.Align)
	}
	return b.String()
}

// MethodNames returns the methods callable on a receiver type, sorted, for
// completion after a dot.
func (q *Query) MethodNames(recv types.TypeID) []string {
	ids := q.res.Methods.Names(q.res.Types, recv)
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, q.res.Symbols.Strings.MustLookup(id))
	}
	sort.Strings(out)
	return out
}
