package wire

import (
	"math"
	"unicode/utf8"
	"unsafe"

	"github.com/wippyai/flatbin/errors"
)

// Decoder consumes a borrowed input buffer front to back. It never
// modifies the buffer; the caller must not modify it either while the
// Decoder, or any slice or string it returned by reference, is alive.
//
// After any error the cursor is consistent but the decode must be
// abandoned.
type Decoder struct {
	buf []byte
	off int
}

// NewDecoder returns a Decoder reading buf from the start.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int {
	return d.off
}

// Remaining returns the number of unconsumed bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.off
}

// take splits n bytes off the front. The returned slice is capped so
// appends cannot overwrite the rest of the input.
func (d *Decoder) take(n int) ([]byte, error) {
	if n < 0 || n > d.Remaining() {
		return nil, errors.MissingData(d.off, n, d.Remaining())
	}
	p := d.buf[d.off : d.off+n : d.off+n]
	d.off += n
	return p, nil
}

func (d *Decoder) ReadU8() (uint8, error) {
	p, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (d *Decoder) ReadU16() (uint16, error) {
	p, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return native.Uint16(p), nil
}

func (d *Decoder) ReadU32() (uint32, error) {
	p, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return native.Uint32(p), nil
}

func (d *Decoder) ReadU64() (uint64, error) {
	p, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return native.Uint64(p), nil
}

func (d *Decoder) ReadU128() (Uint128, error) {
	p, err := d.take(16)
	if err != nil {
		return Uint128{}, err
	}
	hi, lo := uint128(p)
	return Uint128{Hi: hi, Lo: lo}, nil
}

func (d *Decoder) ReadI8() (int8, error) {
	v, err := d.ReadU8()
	return int8(v), err
}

func (d *Decoder) ReadI16() (int16, error) {
	v, err := d.ReadU16()
	return int16(v), err
}

func (d *Decoder) ReadI32() (int32, error) {
	v, err := d.ReadU32()
	return int32(v), err
}

func (d *Decoder) ReadI64() (int64, error) {
	v, err := d.ReadU64()
	return int64(v), err
}

func (d *Decoder) ReadI128() (Int128, error) {
	v, err := d.ReadU128()
	return Int128{Hi: int64(v.Hi), Lo: v.Lo}, err
}

// ReadF32 reinterprets the bits as is; NaN payloads are not canonicalized.
func (d *Decoder) ReadF32() (float32, error) {
	v, err := d.ReadU32()
	return math.Float32frombits(v), err
}

// ReadF64 reinterprets the bits as is; NaN payloads are not canonicalized.
func (d *Decoder) ReadF64() (float64, error) {
	v, err := d.ReadU64()
	return math.Float64frombits(v), err
}

func (d *Decoder) ReadBool() (bool, error) {
	off := d.off
	v, err := d.ReadU8()
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.InvalidBool(off, v)
	}
}

func (d *Decoder) ReadChar() (rune, error) {
	off := d.off
	v, err := d.ReadU32()
	if err != nil {
		return 0, err
	}
	if v > utf8.MaxRune || !utf8.ValidRune(rune(v)) {
		return 0, errors.InvalidChar(errors.PhaseDecode, off, v)
	}
	return rune(v), nil
}

func (d *Decoder) readLen() (int, error) {
	v, err := d.ReadU32()
	if err != nil {
		return 0, err
	}
	if uint64(v) > math.MaxInt {
		return 0, errors.MissingData(d.off, math.MaxInt, d.Remaining())
	}
	return int(v), nil
}

// ReadBytes returns a view into the input. No copy is made.
func (d *Decoder) ReadBytes() ([]byte, error) {
	n, err := d.readLen()
	if err != nil {
		return nil, err
	}
	return d.take(n)
}

// ReadByteBuf returns an owned copy of a byte string.
func (d *Decoder) ReadByteBuf() ([]byte, error) {
	p, err := d.ReadBytes()
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(p))
	copy(out, p)
	return out, nil
}

func (d *Decoder) readText() ([]byte, error) {
	off := d.off
	p, err := d.ReadBytes()
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(p) {
		return nil, errors.InvalidText(errors.PhaseDecode, off, p)
	}
	return p, nil
}

// ReadStr returns an owned copy of a text string.
func (d *Decoder) ReadStr() (string, error) {
	p, err := d.readText()
	if err != nil {
		return "", err
	}
	return string(p), nil
}

// ReadStrRef returns a string aliasing the input buffer. It is only valid
// while the input is alive and unmodified.
func (d *Decoder) ReadStrRef() (string, error) {
	p, err := d.readText()
	if err != nil || len(p) == 0 {
		return "", err
	}
	return unsafe.String(unsafe.SliceData(p), len(p)), nil
}

// ReadOptional reads the presence tag. When it reports true the inner
// value follows on d.
func (d *Decoder) ReadOptional() (bool, error) {
	off := d.off
	tag, err := d.ReadU8()
	if err != nil {
		return false, err
	}
	switch tag {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.InvalidOption(off, tag)
	}
}

// ReadUnit consumes nothing.
func (d *Decoder) ReadUnit() error {
	return nil
}

// ReadAny fails: the format cannot tell what shape comes next.
func (d *Decoder) ReadAny() (any, error) {
	return nil, errors.NotSupported(errors.PhaseDecode, "self-describing read")
}

// ReadIgnored fails for the same reason as ReadAny: skipping a value
// requires knowing its shape.
func (d *Decoder) ReadIgnored() error {
	return errors.NotSupported(errors.PhaseDecode, "skipping a value of unknown shape")
}

// ReadIdentifier fails: field and case names are never written.
func (d *Decoder) ReadIdentifier() (string, error) {
	return "", errors.NotSupported(errors.PhaseDecode, "identifier read")
}

// BeginSeq reads the element count and returns an accessor for the elements.
func (d *Decoder) BeginSeq() (*SeqAccess, error) {
	n, err := d.readLen()
	if err != nil {
		return nil, err
	}
	return &SeqAccess{d: d, n: n}, nil
}

// BeginTuple reads nothing; the arity is fixed by the shape.
func (d *Decoder) BeginTuple(n int) *SeqAccess {
	return &SeqAccess{d: d, n: n}
}

// BeginRecord reads nothing; the field count is fixed by the shape.
func (d *Decoder) BeginRecord(n int) *SeqAccess {
	return &SeqAccess{d: d, n: n}
}

// BeginMap reads the pair count and returns an accessor for the pairs.
func (d *Decoder) BeginMap() (*MapAccess, error) {
	n, err := d.readLen()
	if err != nil {
		return nil, err
	}
	return &MapAccess{d: d, n: n}, nil
}

// BeginVariant reads the case index. Resolving the index against the case
// set is the binding's job; an unknown index should be reported with
// errors.Custom.
func (d *Decoder) BeginVariant() (uint32, *VariantAccess, error) {
	idx, err := d.ReadU32()
	if err != nil {
		return 0, nil, err
	}
	return idx, &VariantAccess{d: d}, nil
}
