// Package wire implements the flat binary format's traversal engines.
//
// The format is not self-describing: bytes carry no tags, names or type
// information, so every read must be driven by a binding that already knows
// the shape.
//
// # Wire Layout
//
//	Shape           Encoding
//	───────────────────────────────────────────────────────────
//	u8..u128/i*     fixed width, native byte order
//	f32/f64         IEEE-754 bits, native byte order
//	bool            1 byte, 0 or 1
//	char            u32 code point, Unicode scalar value
//	bytes/string    u32 length + payload (string is UTF-8)
//	option          u8 tag (0 absent, 1 present) + value
//	unit            nothing
//	tuple/record    fields back to back, no prefix
//	sequence        u32 count + elements
//	map             u32 pair count + key, value, key, value...
//	variant         u32 index + payload of the case's kind
//
// Byte order is the host's. Data written on a little-endian machine does
// not decode on a big-endian one.
//
// # Encoding
//
// An Encoder appends to a buffer. Aggregates return a Compound whose
// accessors hand back the same Encoder for each nested value:
//
//	enc := wire.NewEncoder(nil)
//	rec := enc.BeginRecord(2)
//	rec.Field().EmitU32(7)
//	if err := rec.Field().EmitStr("ok"); err != nil { ... }
//	if err := rec.End(); err != nil { ... }
//
// NewSizer returns an Encoder that counts bytes instead of writing them.
//
// # Decoding
//
// A Decoder splits bytes off the front of a borrowed buffer. Sequences,
// tuples, records and maps are read through SeqAccess and MapAccess, which
// track the exact number of remaining elements:
//
//	seq, err := dec.BeginSeq()
//	for {
//		ok, err := seq.Next(func(d *wire.Decoder) error { ... })
//		if err != nil || !ok { break }
//	}
//
// # Thread Safety
//
// Encoder and Decoder are single-pass cursors and are NOT safe for
// concurrent use. Independent operations on separate instances may run
// in parallel.
package wire
