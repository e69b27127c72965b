package mir

import (
	"fmt"

	"fortio.org/safecast"

	"zenc/internal/source"
	"zenc/internal/symbols"
	"zenc/internal/types"
)

// Func is one lowered function body. A generic function contributes one Func
// per distinct instantiation key; Key is empty for plain functions.
type Func struct {
	ID   FuncID
	Sym  symbols.SymbolID
	Key  string
	Name string
	Span source.Span

	Result types.TypeID

	Locals []Local
	Blocks []Block
	Entry  BlockID
}

// NewLocal appends a stack slot and returns its ID.
func (f *Func) NewLocal(l Local) LocalID {
	id, err := safecast.Conv[int32](len(f.Locals))
	if err != nil {
		panic(fmt.Errorf("local count overflow: %w", err))
	}
	f.Locals = append(f.Locals, l)
	return LocalID(id)
}

// NewBlock appends an empty block and returns its ID.
func (f *Func) NewBlock() BlockID {
	id, err := safecast.Conv[int32](len(f.Blocks))
	if err != nil {
		panic(fmt.Errorf("block count overflow: %w", err))
	}
	bid := BlockID(id)
	f.Blocks = append(f.Blocks, Block{ID: bid})
	return bid
}

// Block returns the block by ID, nil when out of range.
func (f *Func) Block(id BlockID) *Block {
	if id == NoBlockID || int(id) >= len(f.Blocks) {
		return nil
	}
	return &f.Blocks[id]
}

// Local returns the local by ID, nil when out of range.
func (f *Func) Local(id LocalID) *Local {
	if id == NoLocalID || int(id) >= len(f.Locals) {
		return nil
	}
	return &f.Locals[id]
}

// Append adds an instruction to the block; appends to a terminated block are
// dropped, matching unreachable code after return.
func (f *Func) Append(id BlockID, in Instr) {
	b := f.Block(id)
	if b == nil || b.Terminated() {
		return
	}
	b.Instrs = append(b.Instrs, in)
}

// SetTerm terminates the block unless it already is.
func (f *Func) SetTerm(id BlockID, t Terminator) {
	b := f.Block(id)
	if b == nil || b.Terminated() {
		return
	}
	b.Term = t
}
