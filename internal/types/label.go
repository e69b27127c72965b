package types

import (
	"zenc/internal/source"
)

// Label returns a user-friendly label for a TypeID, used in diagnostics and
// hover text.
func Label(in *Interner, strings *source.Interner, id TypeID) string {
	return labelDepth(in, strings, id, 0)
}

func labelDepth(in *Interner, strs *source.Interner, id TypeID, depth int) string {
	if id == NoTypeID {
		return "?"
	}
	if depth > 6 {
		return "..."
	}
	if in == nil {
		return "?"
	}
	tt, ok := in.Lookup(id)
	if !ok {
		return "?"
	}
	switch tt.Kind {
	case KindUnit:
		return "()"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindInt:
		return formatNumeric("i", tt.Width, "int")
	case KindUint:
		return formatNumeric("u", tt.Width, "uint")
	case KindFloat:
		return formatNumeric("f", tt.Width, "float")
	case KindPointer:
		return "*" + labelDepth(in, strs, tt.Elem, depth+1)
	case KindReference:
		if tt.Mutable {
			return "&mut " + labelDepth(in, strs, tt.Elem, depth+1)
		}
		return "&" + labelDepth(in, strs, tt.Elem, depth+1)
	case KindStruct:
		info, ok := in.StructInfo(id)
		if !ok {
			return "struct?"
		}
		return nominalLabel(in, strs, info.Name, info.TypeArgs, depth)
	case KindEnum:
		info, ok := in.EnumInfo(id)
		if !ok {
			return "enum?"
		}
		return nominalLabel(in, strs, info.Name, info.TypeArgs, depth)
	case KindFn:
		info, ok := in.FnInfo(id)
		if !ok {
			return "fn?"
		}
		out := "fn("
		for i, p := range info.Params {
			if i > 0 {
				out += ", "
			}
			out += labelDepth(in, strs, p, depth+1)
		}
		return out + ") -> " + labelDepth(in, strs, info.Result, depth+1)
	case KindGenericParam:
		info, ok := in.TypeParamInfo(id)
		if ok && strs != nil {
			if name, found := strs.Lookup(info.Name); found && name != "" {
				return name
			}
		}
		return "T?"
	default:
		return "?"
	}
}

func nominalLabel(in *Interner, strs *source.Interner, name source.StringID, args []TypeID, depth int) string {
	label := "?"
	if strs != nil {
		if s, ok := strs.Lookup(name); ok && s != "" {
			label = s
		}
	}
	if len(args) == 0 {
		return label
	}
	label += "<"
	for i, arg := range args {
		if i > 0 {
			label += ", "
		}
		label += labelDepth(in, strs, arg, depth+1)
	}
	return label + ">"
}

func formatNumeric(prefix string, w Width, anyName string) string {
	switch w {
	case Width8:
		return prefix + "8"
	case Width16:
		return prefix + "16"
	case Width32:
		return prefix + "32"
	case Width64:
		return prefix + "64"
	default:
		return anyName
	}
}
