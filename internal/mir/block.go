package mir

// Block is a straight-line instruction sequence ending in one terminator.
type Block struct {
	ID     BlockID
	Instrs []Instr
	Term   Terminator
}

// Terminated reports whether the block already has a terminator.
// A nil block counts as terminated so appends become no-ops.
func (b *Block) Terminated() bool {
	if b == nil {
		return true
	}
	return b.Term.Kind != TermNone
}
