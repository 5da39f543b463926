package wire

import (
	"math"
	"unicode/utf8"

	"github.com/wippyai/flatbin/errors"
)

// HumanReadable is false: the wire format is a dense binary layout.
// Bindings may use this to pick compact representations.
const HumanReadable = false

// MaxLen is the largest length, count or variant index the wire can carry.
const MaxLen = math.MaxUint32

// VariantKind is the payload kind of a variant case.
type VariantKind uint8

const (
	VariantUnit    VariantKind = iota // no payload
	VariantNewtype                    // one value
	VariantTuple                      // fields in order, no prefix
	VariantRecord                     // named fields in order, no prefix
)

func (k VariantKind) String() string {
	switch k {
	case VariantUnit:
		return "unit"
	case VariantNewtype:
		return "newtype"
	case VariantTuple:
		return "tuple"
	case VariantRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Encoder appends the wire encoding of each shape to a growable buffer.
// A sizing Encoder (see NewSizer) only counts bytes.
type Encoder struct {
	buf    []byte
	n      int
	sizing bool
}

// NewEncoder returns an Encoder appending to buf. Prior contents are kept.
func NewEncoder(buf []byte) *Encoder {
	return &Encoder{buf: buf}
}

// NewSizer returns an Encoder that computes the encoded size without
// writing anything.
func NewSizer() *Encoder {
	return &Encoder{sizing: true}
}

// Bytes returns the buffer. It is nil for a sizer.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the buffer length, or the counted size for a sizer.
func (e *Encoder) Len() int {
	if e.sizing {
		return e.n
	}
	return len(e.buf)
}

func (e *Encoder) EmitU8(v uint8) {
	if e.sizing {
		e.n++
		return
	}
	e.buf = append(e.buf, v)
}

func (e *Encoder) EmitU16(v uint16) {
	if e.sizing {
		e.n += 2
		return
	}
	e.buf = native.AppendUint16(e.buf, v)
}

func (e *Encoder) EmitU32(v uint32) {
	if e.sizing {
		e.n += 4
		return
	}
	e.buf = native.AppendUint32(e.buf, v)
}

func (e *Encoder) EmitU64(v uint64) {
	if e.sizing {
		e.n += 8
		return
	}
	e.buf = native.AppendUint64(e.buf, v)
}

func (e *Encoder) EmitU128(v Uint128) {
	if e.sizing {
		e.n += 16
		return
	}
	var b [16]byte
	putUint128(b[:], v.Hi, v.Lo)
	e.buf = append(e.buf, b[:]...)
}

func (e *Encoder) EmitI8(v int8)   { e.EmitU8(uint8(v)) }
func (e *Encoder) EmitI16(v int16) { e.EmitU16(uint16(v)) }
func (e *Encoder) EmitI32(v int32) { e.EmitU32(uint32(v)) }
func (e *Encoder) EmitI64(v int64) { e.EmitU64(uint64(v)) }

func (e *Encoder) EmitI128(v Int128) {
	e.EmitU128(Uint128{Hi: uint64(v.Hi), Lo: v.Lo})
}

// EmitF32 writes the IEEE-754 bit pattern; NaN payloads are preserved.
func (e *Encoder) EmitF32(v float32) { e.EmitU32(math.Float32bits(v)) }

// EmitF64 writes the IEEE-754 bit pattern; NaN payloads are preserved.
func (e *Encoder) EmitF64(v float64) { e.EmitU64(math.Float64bits(v)) }

func (e *Encoder) EmitBool(v bool) {
	var b uint8
	if v {
		b = 1
	}
	e.EmitU8(b)
}

// EmitChar writes r's code point. Go runes may hold surrogates or values
// past U+10FFFF, which are rejected before anything is written.
func (e *Encoder) EmitChar(r rune) error {
	if !utf8.ValidRune(r) {
		return errors.InvalidChar(errors.PhaseEncode, e.Len(), uint32(r))
	}
	e.EmitU32(uint32(r))
	return nil
}

// EmitBytes writes a u32 length followed by the raw bytes.
func (e *Encoder) EmitBytes(b []byte) error {
	if err := e.emitLen("byte string length", len(b)); err != nil {
		return err
	}
	if e.sizing {
		e.n += len(b)
		return nil
	}
	e.buf = append(e.buf, b...)
	return nil
}

// EmitStr writes s with byte string framing. Go strings may hold
// arbitrary bytes, so s must be valid UTF-8.
func (e *Encoder) EmitStr(s string) error {
	if !utf8.ValidString(s) {
		return errors.InvalidText(errors.PhaseEncode, e.Len(), []byte(s[:min(len(s), 32)]))
	}
	if err := e.emitLen("text string length", len(s)); err != nil {
		return err
	}
	if e.sizing {
		e.n += len(s)
		return nil
	}
	e.buf = append(e.buf, s...)
	return nil
}

// EmitNone writes an absent optional.
func (e *Encoder) EmitNone() { e.EmitU8(0) }

// EmitSome writes the presence byte; the inner value follows on e.
func (e *Encoder) EmitSome() { e.EmitU8(1) }

// EmitUnit writes nothing.
func (e *Encoder) EmitUnit() {}

func (e *Encoder) emitLen(what string, n int) error {
	if n < 0 || uint64(n) > MaxLen {
		return errors.Overflow(errors.PhaseEncode, what, n)
	}
	e.EmitU32(uint32(n))
	return nil
}

// BeginSeq writes the element count and returns the continuation for the
// n elements.
func (e *Encoder) BeginSeq(n int) (*Compound, error) {
	if err := e.emitLen("sequence length", n); err != nil {
		return nil, err
	}
	return &Compound{enc: e, what: "sequence", want: n}, nil
}

// BeginTuple writes nothing; the n fields follow back to back.
func (e *Encoder) BeginTuple(n int) *Compound {
	return &Compound{enc: e, what: "tuple", want: n}
}

// BeginRecord writes nothing; the n fields follow in declared order.
func (e *Encoder) BeginRecord(n int) *Compound {
	return &Compound{enc: e, what: "record", want: n}
}

// BeginMap writes the pair count and returns a continuation expecting
// alternating Key and Value calls, n of each.
func (e *Encoder) BeginMap(n int) (*Compound, error) {
	if err := e.emitLen("map length", n); err != nil {
		return nil, err
	}
	return &Compound{enc: e, what: "map", want: 2 * n, pairs: true}, nil
}

// BeginVariant writes the case index. The payload shape follows kind:
// nothing for a unit case, one value for a newtype case, n fields for
// tuple and record cases.
func (e *Encoder) BeginVariant(index uint32, kind VariantKind, n int) *Compound {
	e.EmitU32(index)
	switch kind {
	case VariantUnit:
		n = 0
	case VariantNewtype:
		n = 1
	}
	return &Compound{enc: e, what: "variant " + kind.String(), want: n}
}

// Compound is the continuation of an aggregate. Each accessor returns the
// parent Encoder for exactly one nested value; End checks the count.
type Compound struct {
	enc   *Encoder
	err   error
	what  string
	want  int
	got   int
	pairs bool
}

// Elem returns the encoder for the next element.
func (c *Compound) Elem() *Encoder {
	c.got++
	return c.enc
}

// Field returns the encoder for the next field.
func (c *Compound) Field() *Encoder {
	return c.Elem()
}

// Key returns the encoder for the next map key.
func (c *Compound) Key() *Encoder {
	if c.pairs && c.got%2 != 0 && c.err == nil {
		c.err = errors.Custom(errors.PhaseEncode, "map key emitted before the previous value")
	}
	return c.Elem()
}

// Value returns the encoder for the value of the key just emitted.
func (c *Compound) Value() *Encoder {
	if c.pairs && c.got%2 != 1 && c.err == nil {
		c.err = errors.Custom(errors.PhaseEncode, "map value emitted without a key")
	}
	return c.Elem()
}

// Remaining returns the number of nested values still expected.
func (c *Compound) Remaining() int {
	return c.want - c.got
}

// End reports a misuse or a count different from the one announced.
func (c *Compound) End() error {
	if c.err != nil {
		return c.err
	}
	if c.got != c.want {
		if c.pairs {
			return errors.LengthMismatch(errors.PhaseEncode, c.what, c.want/2, c.got/2)
		}
		return errors.LengthMismatch(errors.PhaseEncode, c.what, c.want, c.got)
	}
	return nil
}
