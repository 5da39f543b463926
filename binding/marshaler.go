package binding

import (
	"reflect"

	"github.com/wippyai/flatbin/wire"
)

// Marshaler is implemented by types that write their own flat encoding.
// It takes precedence over the reflected shape.
type Marshaler interface {
	MarshalFlat(enc *wire.Encoder) error
}

// Unmarshaler is implemented by types that read their own flat encoding.
// UnmarshalFlat must consume exactly what MarshalFlat wrote.
type Unmarshaler interface {
	UnmarshalFlat(dec *wire.Decoder) error
}

var (
	marshalerType   = reflect.TypeOf((*Marshaler)(nil)).Elem()
	unmarshalerType = reflect.TypeOf((*Unmarshaler)(nil)).Elem()
	int128Type      = reflect.TypeOf(wire.Int128{})
	uint128Type     = reflect.TypeOf(wire.Uint128{})
	charType        = reflect.TypeOf(Char(0))
)

// Char is a rune that encodes as a character rather than as an i32.
type Char rune

// isCustom reports whether t or *t brings its own encoding. Pointer types
// stay options; their element is checked on its own.
func isCustom(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		return false
	}
	return t.Implements(marshalerType) ||
		reflect.PointerTo(t).Implements(marshalerType) ||
		reflect.PointerTo(t).Implements(unmarshalerType)
}
