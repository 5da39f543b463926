// Package schema supplies flat shapes at run time.
//
// Shapes are WIT types from go.bytecodealliance.org/wit, loaded from YAML
// schema documents. Decode and Encode move between the wire format and
// dynamic Go values (maps, slices, scalars), Seed plugs a shape into
// flatbin.DeserializeSeed, and Annotate records the byte span of every
// nested value for dumps and inspectors.
//
// WIT has no map, unit or 128-bit integer. A schema `map` becomes a list
// of key, value tuples, which has exactly the same bytes; `unit` is the
// empty tuple. Flags and resource handles parse but have no flat encoding.
package schema
