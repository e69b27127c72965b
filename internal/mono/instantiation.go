package mono

import (
	"slices"
	"sort"

	"zenc/internal/source"
	"zenc/internal/symbols"
	"zenc/internal/types"
)

// InstantiationKind identifies the kind of entity being instantiated.
type InstantiationKind uint8

const (
	// InstFn represents a function instantiation.
	InstFn InstantiationKind = iota
	// InstType represents a type instantiation.
	InstType
)

// InstantiationKey is a comparable key for instantiations.
//
// Go maps cannot use slices as keys, so the normalized TypeArgs are folded
// into a stable ArgsKey string; the slice itself lives in InstEntry.
type InstantiationKey struct {
	Sym     symbols.SymbolID
	ArgsKey string
}

// UseSite records a location where an instantiation occurs.
type UseSite struct {
	Span   source.Span
	Caller symbols.SymbolID
}

// InstEntry captures all instantiations of a particular generic symbol.
type InstEntry struct {
	Kind InstantiationKind
	Key  InstantiationKey

	TypeArgs []types.TypeID
	UseSites []UseSite
}

// InstantiationMap tracks all generic instantiations across a unit. Codegen
// lowers exactly one specialized body per entry.
type InstantiationMap struct {
	Entries map[InstantiationKey]*InstEntry
}

// NewInstantiationMap creates a new empty InstantiationMap.
func NewInstantiationMap() *InstantiationMap {
	return &InstantiationMap{Entries: make(map[InstantiationKey]*InstEntry)}
}

// Record registers a generic instantiation at a specific site. Identical
// keys collapse into one entry.
func (m *InstantiationMap) Record(kind InstantiationKind, sym symbols.SymbolID, typeArgs []types.TypeID, site source.Span, caller symbols.SymbolID) {
	if m == nil || !sym.IsValid() || len(typeArgs) == 0 {
		return
	}
	if m.Entries == nil {
		m.Entries = make(map[InstantiationKey]*InstEntry)
	}

	key := InstantiationKey{Sym: sym, ArgsKey: types.ArgsKey(typeArgs)}
	entry := m.Entries[key]
	if entry == nil {
		entry = &InstEntry{
			Kind:     kind,
			Key:      key,
			TypeArgs: slices.Clone(typeArgs),
		}
		m.Entries[key] = entry
	}

	if site != (source.Span{}) {
		us := UseSite{Span: site, Caller: caller}
		for _, existing := range entry.UseSites {
			if existing == us {
				return
			}
		}
		entry.UseSites = append(entry.UseSites, us)
	}
}

// FnEntries returns function instantiations in a deterministic order.
func (m *InstantiationMap) FnEntries() []*InstEntry {
	if m == nil {
		return nil
	}
	out := make([]*InstEntry, 0, len(m.Entries))
	for _, e := range m.Entries {
		if e.Kind == InstFn {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.Sym != out[j].Key.Sym {
			return out[i].Key.Sym < out[j].Key.Sym
		}
		return out[i].Key.ArgsKey < out[j].Key.ArgsKey
	})
	return out
}

// Len reports the number of distinct instantiation keys.
func (m *InstantiationMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Entries)
}
