package types

import (
	"strconv"
	"strings"
)

// InstanceKey identifies one monomorphization: a generic definition plus its
// ordered concrete type arguments. Go maps cannot key on slices, so the
// arguments are folded into a stable string.
type InstanceKey struct {
	Def     TypeID
	ArgsKey string
}

// ArgsKey produces the stable key fragment for ordered type arguments.
func ArgsKey(args []TypeID) string {
	if len(args) == 0 {
		return ""
	}
	var b strings.Builder
	for i, arg := range args {
		if i > 0 {
			b.WriteByte('#')
		}
		b.WriteString(strconv.FormatUint(uint64(arg), 10))
	}
	return b.String()
}

// Instance returns the memoized TypeID for a generic instantiation.
// Identical keys always resolve to the same TypeID.
func (in *Interner) Instance(def TypeID, args []TypeID) (TypeID, bool) {
	id, ok := in.instances[InstanceKey{Def: def, ArgsKey: ArgsKey(args)}]
	return id, ok
}

// RememberInstance memoizes the TypeID produced for a generic instantiation.
func (in *Interner) RememberInstance(def TypeID, args []TypeID, id TypeID) {
	in.mutable("remember instance")
	in.instances[InstanceKey{Def: def, ArgsKey: ArgsKey(args)}] = id
}

// InstanceCount reports how many distinct monomorphizations are memoized.
func (in *Interner) InstanceCount() int {
	return len(in.instances)
}
