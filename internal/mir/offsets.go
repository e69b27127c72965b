package mir

import (
	"fmt"

	"zenc/internal/layout"
)

// HopOffset is one resolved projection step. A deref step starts a new
// storage region at offset zero; a field step adds the field's byte offset
// within the hop's base struct.
type HopOffset struct {
	Proj   PlaceProj
	Offset int // byte offset relative to the storage the hop addresses into
}

// ResolveOffsets asks the layout engine for the byte offset of every
// projection hop of a place. Offsets are computed at resolution time, never
// read from the place itself, so a layout change is picked up on the next
// resolution.
func ResolveOffsets(eng *layout.Engine, p Place) ([]HopOffset, error) {
	hops := make([]HopOffset, 0, len(p.Proj))
	running := 0
	for i, proj := range p.Proj {
		switch proj.Kind {
		case PlaceProjDeref:
			running = 0
			hops = append(hops, HopOffset{Proj: proj})
		case PlaceProjField:
			off, err := eng.FieldOffset(proj.Base, proj.FieldIdx)
			if err != nil {
				return nil, fmt.Errorf("hop %d (%s): %w", i, proj.FieldName, err)
			}
			running += off
			hops = append(hops, HopOffset{Proj: proj, Offset: running})
		default:
			return nil, fmt.Errorf("hop %d: unknown projection kind %d", i, proj.Kind)
		}
	}
	return hops, nil
}
