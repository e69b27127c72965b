package layout

import (
	"zenc/internal/types"
)

// enumTagBytes is the fixed tag width for sum types.
const enumTagBytes = 4

func (e *Engine) computeLayout(id types.TypeID, state *layoutState) (StructLayout, *LayoutError) {
	if id == types.NoTypeID || e.Types == nil {
		return StructLayout{Size: 0, Align: 1}, nil
	}
	tt, ok := e.Types.Lookup(id)
	if !ok {
		return StructLayout{Size: 0, Align: 1}, nil
	}

	switch tt.Kind {
	case types.KindUnit:
		return StructLayout{Size: 0, Align: 1}, nil

	case types.KindBool:
		return StructLayout{Size: 1, Align: 1}, nil

	case types.KindInt, types.KindUint, types.KindFloat:
		if tt.Width == types.WidthAny {
			return e.ptrLayout(), nil
		}
		return scalarLayoutBytes(int(tt.Width) / 8), nil

	case types.KindString:
		return e.ptrLayout(), nil

	case types.KindPointer, types.KindReference, types.KindFn:
		// Indirection is always pointer-sized; this is what makes recursive
		// types legal through a pointer/reference field.
		return e.ptrLayout(), nil

	case types.KindStruct:
		return e.structLayout(id, state)

	case types.KindEnum:
		return e.enumLayout(id, state)

	case types.KindGenericParam:
		// Unsubstituted parameters never reach codegen; size zero keeps the
		// checker's provisional queries harmless.
		return StructLayout{Size: 0, Align: 1}, nil

	default:
		return StructLayout{Size: 0, Align: 1}, nil
	}
}

func (e *Engine) structLayout(id types.TypeID, state *layoutState) (StructLayout, *LayoutError) {
	info, ok := e.Types.StructInfo(id)
	if !ok || len(info.Fields) == 0 {
		return StructLayout{Size: 0, Align: 1}, nil
	}

	slots := make([]FieldSlot, len(info.Fields))
	offset := 0
	align := 1
	for i, f := range info.Fields {
		// Each field recurses through the engine so a nested struct is sized
		// by its own authoritative layout, never by ad hoc offset math here.
		fl, err := e.layoutOf(f.Type, state)
		if err != nil {
			return StructLayout{Size: 0, Align: 1}, err
		}
		offset = roundUp(offset, fl.Align)
		slots[i] = FieldSlot{Name: f.Name, Type: f.Type, Offset: offset}
		next := offset + fl.Size
		if next < offset {
			return StructLayout{Size: 0, Align: 1}, &LayoutError{Kind: ErrOverflow, Type: id}
		}
		offset = next
		align = max(align, fl.Align)
	}

	size := roundUp(offset, align)
	if size < offset {
		return StructLayout{Size: 0, Align: 1}, &LayoutError{Kind: ErrOverflow, Type: id}
	}
	return StructLayout{
		Size:   size,
		Align:  align,
		Fields: slots,
	}, nil
}

func (e *Engine) enumLayout(id types.TypeID, state *layoutState) (StructLayout, *LayoutError) {
	info, ok := e.Types.EnumInfo(id)
	if !ok {
		return StructLayout{Size: 0, Align: 1}, nil
	}

	payloadSize := 0
	payloadAlign := 1
	for _, v := range info.Variants {
		if v.Payload == types.NoTypeID {
			continue
		}
		pl, err := e.layoutOf(v.Payload, state)
		if err != nil {
			return StructLayout{Size: 0, Align: 1}, err
		}
		payloadSize = max(payloadSize, pl.Size)
		payloadAlign = max(payloadAlign, pl.Align)
	}

	align := max(enumTagBytes, payloadAlign)
	payloadOffset := roundUp(enumTagBytes, payloadAlign)
	size := roundUp(payloadOffset+payloadSize, align)
	if size < 0 {
		return StructLayout{Size: 0, Align: 1}, &LayoutError{Kind: ErrOverflow, Type: id}
	}
	return StructLayout{
		Size:          size,
		Align:         align,
		TagSize:       enumTagBytes,
		TagAlign:      enumTagBytes,
		PayloadOffset: payloadOffset,
	}, nil
}

func (e *Engine) ptrLayout() StructLayout {
	ptrSize := e.Target.PtrSize
	ptrAlign := e.Target.PtrAlign
	if ptrSize <= 0 {
		ptrSize = 8
	}
	if ptrAlign <= 0 {
		ptrAlign = ptrSize
	}
	return StructLayout{Size: ptrSize, Align: ptrAlign}
}

func scalarLayoutBytes(size int) StructLayout {
	if size <= 0 {
		return StructLayout{Size: 0, Align: 1}
	}
	return StructLayout{Size: size, Align: size}
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	r := n % align
	if r == 0 {
		return n
	}
	return n + (align - r)
}
