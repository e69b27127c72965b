package layout

// Target describes the ABI target triple and its pointer properties.
type Target struct {
	Triple   string // e.g. "x86_64-linux-gnu"
	PtrSize  int    // bytes
	PtrAlign int    // bytes
}

func X86_64LinuxGNU() Target {
	return Target{
		Triple:   "x86_64-linux-gnu",
		PtrSize:  8,
		PtrAlign: 8,
	}
}

// ByTriple resolves a manifest triple to a Target; unknown triples fall back
// to x86_64-linux-gnu.
func ByTriple(triple string) Target {
	switch triple {
	case "", "x86_64-linux-gnu":
		return X86_64LinuxGNU()
	default:
		t := X86_64LinuxGNU()
		t.Triple = triple
		return t
	}
}
