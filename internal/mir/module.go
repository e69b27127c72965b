package mir

import (
	"sort"

	"zenc/internal/symbols"
)

// FuncKey addresses one lowered body: the function symbol plus the
// instantiation key (empty for non-generic functions).
type FuncKey struct {
	Sym symbols.SymbolID
	Key string
}

// Module is one lowered compilation unit.
type Module struct {
	Name      string
	Funcs     map[FuncID]*Func
	FuncByKey map[FuncKey]FuncID

	nextID FuncID
}

func NewModule(name string) *Module {
	return &Module{
		Name:      name,
		Funcs:     make(map[FuncID]*Func),
		FuncByKey: make(map[FuncKey]FuncID),
	}
}

// AddFunc registers a lowered body. A second body for the same key is an
// internal fault: the instantiation map must have deduplicated already.
func (m *Module) AddFunc(f *Func) FuncID {
	key := FuncKey{Sym: f.Sym, Key: f.Key}
	if _, dup := m.FuncByKey[key]; dup {
		panic("mir: duplicate lowered body for " + f.Name)
	}
	id := m.nextID
	m.nextID++
	f.ID = id
	m.Funcs[id] = f
	m.FuncByKey[key] = id
	return id
}

// Lookup finds the lowered body for a symbol and instantiation key.
func (m *Module) Lookup(sym symbols.SymbolID, key string) (*Func, bool) {
	id, ok := m.FuncByKey[FuncKey{Sym: sym, Key: key}]
	if !ok {
		return nil, false
	}
	return m.Funcs[id], true
}

// SortedFuncs returns bodies ordered by ID for deterministic output.
func (m *Module) SortedFuncs() []*Func {
	out := make([]*Func, 0, len(m.Funcs))
	for _, f := range m.Funcs {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
