package layout

import (
	"fmt"

	"zenc/internal/source"
	"zenc/internal/types"
)

// FieldSlot is one field's place inside a struct layout.
type FieldSlot struct {
	Name   source.StringID
	Type   types.TypeID
	Offset int
}

// StructLayout is the concrete offset/size/alignment plan for a type.
// Fields is populated for structs only; enum types fill the tag fields.
type StructLayout struct {
	Size  int
	Align int

	Fields []FieldSlot

	// Enum-only, for ABI queries.
	TagSize       int
	TagAlign      int
	PayloadOffset int
}

// Engine computes memory layout for types against one target. Layouts are
// cached per TypeID; the registry is the single authority for nested struct
// layouts, so a nested field access always agrees with the nested type's own
// layout.
type Engine struct {
	Target Target
	Types  *types.Interner

	cache *cache
}

// New creates a layout engine for the specified target.
func New(target Target, typesIn *types.Interner) *Engine {
	return &Engine{
		Target: target,
		Types:  typesIn,
		cache:  newCache(),
	}
}

// layoutState tracks the in-flight computation stack for cycle detection.
type layoutState struct {
	stack []types.TypeID
	index map[types.TypeID]int
}

func newLayoutState() *layoutState {
	return &layoutState{
		index: make(map[types.TypeID]int, 32),
	}
}

// LayoutOf computes and caches the layout of a type.
func (e *Engine) LayoutOf(t types.TypeID) (StructLayout, error) {
	layout, lerr := e.layoutOf(t, newLayoutState())
	if lerr != nil {
		return layout, lerr
	}
	return layout, nil
}

func (e *Engine) layoutOf(t types.TypeID, state *layoutState) (StructLayout, *LayoutError) {
	if e.cache == nil {
		e.cache = newCache()
	}
	if cached, ok := e.cache.get(t); ok {
		return cached.Layout, cached.Err
	}

	if idx, ok := state.index[t]; ok {
		cycle := append([]types.TypeID(nil), state.stack[idx:]...)
		cycle = append(cycle, t)
		err := &LayoutError{
			Kind:  ErrRecursive,
			Type:  t,
			Cycle: cycle,
		}
		e.cache.put(t, cacheEntry{Layout: StructLayout{Size: 0, Align: 1}, Err: err})
		return StructLayout{Size: 0, Align: 1}, err
	}

	state.index[t] = len(state.stack)
	state.stack = append(state.stack, t)
	layout, err := e.computeLayout(t, state)
	state.stack = state.stack[:len(state.stack)-1]
	delete(state.index, t)

	e.cache.put(t, cacheEntry{Layout: layout, Err: err})
	return layout, err
}

// SizeOf returns the size of a type in bytes.
func (e *Engine) SizeOf(t types.TypeID) (int, error) {
	l, err := e.LayoutOf(t)
	return l.Size, err
}

// AlignOf returns the alignment requirement of a type in bytes.
func (e *Engine) AlignOf(t types.TypeID) (int, error) {
	l, err := e.LayoutOf(t)
	return l.Align, err
}

// FieldOffset returns the byte offset of a struct field by declaration index.
// An out-of-range index means the caller's projection disagrees with the
// registry, a compiler defect rather than a source error.
func (e *Engine) FieldOffset(structT types.TypeID, fieldIdx int) (int, error) {
	l, err := e.LayoutOf(structT)
	if err != nil {
		return 0, err
	}
	if fieldIdx < 0 || fieldIdx >= len(l.Fields) {
		return 0, fmt.Errorf("layout: type#%d has no field index %d (%d fields)",
			structT, fieldIdx, len(l.Fields))
	}
	return l.Fields[fieldIdx].Offset, nil
}
