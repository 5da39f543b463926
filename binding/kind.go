package binding

// Kind is the wire shape a compiled Go type maps to.
type Kind uint8

const (
	KindBool Kind = iota
	KindI8
	KindI16
	KindI32
	KindI64
	KindI128
	KindU8
	KindU16
	KindU32
	KindU64
	KindU128
	KindF32
	KindF64
	KindChar
	KindString
	KindBytes
	KindOption
	KindUnit
	KindTuple
	KindRecord
	KindSeq
	KindMap
	KindVariant
	KindMarshaler
)

var kindNames = [...]string{
	KindBool:      "bool",
	KindI8:        "i8",
	KindI16:       "i16",
	KindI32:       "i32",
	KindI64:       "i64",
	KindI128:      "i128",
	KindU8:        "u8",
	KindU16:       "u16",
	KindU32:       "u32",
	KindU64:       "u64",
	KindU128:      "u128",
	KindF32:       "f32",
	KindF64:       "f64",
	KindChar:      "char",
	KindString:    "string",
	KindBytes:     "bytes",
	KindOption:    "option",
	KindUnit:      "unit",
	KindTuple:     "tuple",
	KindRecord:    "record",
	KindSeq:       "seq",
	KindMap:       "map",
	KindVariant:   "variant",
	KindMarshaler: "marshaler",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsPrimitive reports whether k is a fixed-width scalar or a character.
func (k Kind) IsPrimitive() bool {
	return k <= KindChar
}

// FixedSize returns the encoded width of a primitive kind, or 0 when the
// width depends on the value.
func (k Kind) FixedSize() int {
	switch k {
	case KindBool, KindI8, KindU8:
		return 1
	case KindI16, KindU16:
		return 2
	case KindI32, KindU32, KindF32, KindChar:
		return 4
	case KindI64, KindU64, KindF64:
		return 8
	case KindI128, KindU128:
		return 16
	default:
		return 0
	}
}
