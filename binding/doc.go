// Package binding maps Go types onto the flat wire shapes.
//
// A Compiler reflects a Go type once into a CompiledType plan, caches it,
// and then drives a wire.Encoder or wire.Decoder depth first. The mapping:
//
//	Go type                         Shape
//	──────────────────────────────────────────────────────────
//	bool, int8..int64, uint8..      scalar (int and uint are 64-bit)
//	float32, float64                float
//	wire.Int128, wire.Uint128       128-bit integer
//	Char, or `flat:",char"` field   character
//	string                          text string
//	[]byte                          byte string
//	[N]T                            tuple
//	[]T                             sequence
//	map[K]V                         map, ordered keys sorted
//	*T                              option
//	struct{}                        unit
//	struct                          record of exported fields
//	registered interface            variant
//	Marshaler / Unmarshaler         the type's own encoding
//
// # Variants
//
// Go has no sum types. An interface becomes a variant once its cases are
// registered in wire order:
//
//	type Shape interface{ isShape() }
//
//	func init() {
//		binding.RegisterVariant[Shape](Empty{}, Circle{}, Label(""))
//	}
//
// Empty (no fields) is a unit case, Circle a record case and Label a
// newtype case. Decoding an index with no registered case fails with a
// custom error.
//
// # Top-level Values
//
// Encode dereferences one top-level pointer, matching Decode which always
// takes a pointer. Pass a pointer to an option or an interface value to
// encode it as such.
package binding
