package symbols

import (
	"zenc/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid ScopeKind = iota
	// ScopeModule holds top-level declarations.
	ScopeModule
	// ScopeFunction holds parameters and generic parameters.
	ScopeFunction
	// ScopeBlock holds locals.
	ScopeBlock
)

// Scope maps identifiers to symbols within one lexical region. Scopes form a
// chain through Parent; lookup walks outward.
type Scope struct {
	Kind   ScopeKind
	Parent *Scope
	names  map[source.StringID]SymbolID
}

// NewScope opens a scope under parent (nil for the module root).
func NewScope(kind ScopeKind, parent *Scope) *Scope {
	return &Scope{
		Kind:   kind,
		Parent: parent,
		names:  make(map[source.StringID]SymbolID, 8),
	}
}

// Insert binds name in this scope. Returns the previous binding of the same
// name in THIS scope, if any (shadowing outer scopes is legal).
func (s *Scope) Insert(name source.StringID, sym SymbolID) (SymbolID, bool) {
	prev, clash := s.names[name]
	s.names[name] = sym
	return prev, clash
}

// LookupLocal resolves name in this scope only.
func (s *Scope) LookupLocal(name source.StringID) (SymbolID, bool) {
	sym, ok := s.names[name]
	return sym, ok
}

// Lookup resolves name walking the scope chain outward.
func (s *Scope) Lookup(name source.StringID) (SymbolID, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if sym, ok := cur.names[name]; ok {
			return sym, true
		}
	}
	return NoSymbolID, false
}
