package layout

import (
	"fmt"
	"strings"

	"zenc/internal/types"
)

// ErrorKind enumerates layout calculation failures.
type ErrorKind uint8

const (
	// ErrRecursive indicates a type that contains itself by value, directly
	// or through a cycle of by-value fields.
	ErrRecursive ErrorKind = iota + 1
	// ErrOverflow indicates a size computation past the target address range.
	ErrOverflow
)

// LayoutError reports why a layout could not be computed.
type LayoutError struct {
	Kind  ErrorKind
	Type  types.TypeID
	Cycle []types.TypeID // for ErrRecursive
}

func (e *LayoutError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ErrRecursive:
		if len(e.Cycle) == 0 {
			return fmt.Sprintf("recursive value type has infinite size (type#%d)", e.Type)
		}
		parts := make([]string, 0, len(e.Cycle))
		for _, id := range e.Cycle {
			parts = append(parts, fmt.Sprintf("type#%d", id))
		}
		return fmt.Sprintf("recursive value type has infinite size (cycle: %s)", strings.Join(parts, " -> "))
	case ErrOverflow:
		return fmt.Sprintf("type size overflows the target address range (type#%d)", e.Type)
	default:
		return fmt.Sprintf("layout error kind=%d type#%d", e.Kind, e.Type)
	}
}
