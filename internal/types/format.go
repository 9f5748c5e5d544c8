package types

import (
	"fmt"
	"strings"

	"janus/internal/source"
)

// Format renders a type for diagnostics and hover output. The interner needs
// the string interner that produced the names stored in payloads.
func (in *Interner) Format(id TypeID, names *source.Interner) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	name := func(s source.StringID) string {
		if names == nil {
			return "?"
		}
		str, ok := names.Lookup(s)
		if !ok || str == "" {
			return "?"
		}
		return str
	}
	switch tt.Kind {
	case KindI32, KindI64, KindF32, KindF64, KindBool, KindString, KindVoid, KindNever:
		return tt.Kind.String()
	case KindPointer:
		return "*" + in.Format(tt.Elem, names)
	case KindArray:
		return fmt.Sprintf("[%d]%s", tt.Count, in.Format(tt.Elem, names))
	case KindSlice:
		return "[]" + in.Format(tt.Elem, names)
	case KindRange:
		op := ".."
		if tt.Count == 1 {
			op = "..="
		}
		return fmt.Sprintf("range<%s, %s>", in.Format(tt.Elem, names), op)
	case KindOptional:
		return "?" + in.Format(tt.Elem, names)
	case KindErrorUnion:
		return "!" + in.Format(tt.Elem, names)
	case KindFunction:
		info, ok := in.FnInfo(id)
		if !ok {
			return "fn(?)"
		}
		params := make([]string, 0, len(info.Params))
		for _, p := range info.Params {
			params = append(params, in.Format(p, names))
		}
		return fmt.Sprintf("fn(%s) -> %s", strings.Join(params, ", "), in.Format(info.Result, names))
	case KindStruct:
		info, ok := in.StructInfo(id)
		if !ok {
			return "struct"
		}
		return name(info.Name)
	case KindEnum:
		info, ok := in.EnumInfo(id)
		if !ok {
			return "enum"
		}
		return name(info.Name)
	case KindGeneric:
		info, ok := in.GenericInfo(id)
		if !ok {
			return "generic"
		}
		args := make([]string, 0, len(info.Args))
		for _, a := range info.Args {
			args = append(args, in.Format(a, names))
		}
		return fmt.Sprintf("%s<%s>", name(info.Name), strings.Join(args, ", "))
	case KindTensor:
		info, ok := in.TensorInfo(id)
		if !ok {
			return "tensor"
		}
		dims := make([]string, 0, len(info.Dims))
		for _, d := range info.Dims {
			dims = append(dims, fmt.Sprintf("%d", d))
		}
		return fmt.Sprintf("tensor<%s, [%s], %s>", in.Format(info.Elem, names), strings.Join(dims, ", "), info.Space)
	case KindAllocator:
		return "allocator"
	case KindCtxBound:
		return "ctx " + in.Format(tt.Elem, names)
	case KindInferVar:
		return fmt.Sprintf("'t%d", tt.Count)
	default:
		return "<invalid>"
	}
}
