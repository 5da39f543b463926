package schema

import (
	"strings"

	"go.bytecodealliance.org/wit"
)

// ShapeName renders t the way schema files spell it.
func ShapeName(t wit.Type) string {
	switch t := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.U16:
		return "u16"
	case wit.U32:
		return "u32"
	case wit.U64:
		return "u64"
	case wit.S8:
		return "s8"
	case wit.S16:
		return "s16"
	case wit.S32:
		return "s32"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		return typeDefName(t)
	case nil:
		return "_"
	}
	return "unknown"
}

func typeDefName(t *wit.TypeDef) string {
	switch k := t.Kind.(type) {
	case *wit.Record:
		return "record"
	case *wit.List:
		return "list<" + ShapeName(k.Type) + ">"
	case *wit.Tuple:
		names := make([]string, len(k.Types))
		for i, et := range k.Types {
			names[i] = ShapeName(et)
		}
		return "tuple<" + strings.Join(names, ", ") + ">"
	case *wit.Option:
		return "option<" + ShapeName(k.Type) + ">"
	case *wit.Result:
		return "result<" + ShapeName(k.OK) + ", " + ShapeName(k.Err) + ">"
	case *wit.Variant:
		return "variant"
	case *wit.Enum:
		return "enum"
	case *wit.Flags:
		return "flags"
	case *wit.Own:
		return "own"
	case *wit.Borrow:
		return "borrow"
	case wit.Type:
		return ShapeName(k)
	}
	return "unknown"
}

// unalias follows type definitions that only rename another type.
func unalias(t wit.Type) wit.Type {
	for {
		td, ok := t.(*wit.TypeDef)
		if !ok {
			return t
		}
		switch k := td.Kind.(type) {
		case *wit.Record, *wit.List, *wit.Tuple, *wit.Option, *wit.Result,
			*wit.Variant, *wit.Enum, *wit.Flags, *wit.Own, *wit.Borrow:
			return t
		case wit.Type:
			t = k
		default:
			return t
		}
	}
}

func isU8(t wit.Type) bool {
	_, ok := unalias(t).(wit.U8)
	return ok
}
