package binding

import (
	"reflect"

	"github.com/wippyai/flatbin/wire"
)

// Compile returns the default compiler's plan for t.
func Compile(t reflect.Type) (*CompiledType, error) {
	return defaultCompiler.Compile(t)
}

// Encode writes v with the default compiler.
func Encode(enc *wire.Encoder, v any) error {
	return defaultCompiler.Encode(enc, v)
}

// Decode reads into ptr with the default compiler.
func Decode(dec *wire.Decoder, ptr any) error {
	return defaultCompiler.Decode(dec, ptr)
}
