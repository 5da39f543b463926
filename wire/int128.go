package wire

import (
	"encoding/binary"
	"math/big"
)

var native = binary.NativeEndian

// littleEndian reports the host byte order. 128-bit values are laid out as a
// single 16-byte native integer, so the half order follows the host.
var littleEndian = native.Uint16([]byte{1, 0}) == 1

// Uint128 is an unsigned 128-bit integer.
type Uint128 struct {
	Hi uint64
	Lo uint64
}

// Int128 is a two's complement signed 128-bit integer.
type Int128 struct {
	Hi int64
	Lo uint64
}

// Big returns u as a big.Int.
func (u Uint128) Big() *big.Int {
	b := new(big.Int).SetUint64(u.Hi)
	b.Lsh(b, 64)
	return b.Or(b, new(big.Int).SetUint64(u.Lo))
}

func (u Uint128) String() string {
	return u.Big().String()
}

// Big returns i as a big.Int.
func (i Int128) Big() *big.Int {
	b := Uint128{Hi: uint64(i.Hi), Lo: i.Lo}.Big()
	if i.Hi < 0 {
		b.Sub(b, new(big.Int).Lsh(big.NewInt(1), 128))
	}
	return b
}

func (i Int128) String() string {
	return i.Big().String()
}

// Int128From64 sign-extends v.
func Int128From64(v int64) Int128 {
	hi := int64(0)
	if v < 0 {
		hi = -1
	}
	return Int128{Hi: hi, Lo: uint64(v)}
}

func putUint128(b []byte, hi, lo uint64) {
	if littleEndian {
		native.PutUint64(b[0:8], lo)
		native.PutUint64(b[8:16], hi)
		return
	}
	native.PutUint64(b[0:8], hi)
	native.PutUint64(b[8:16], lo)
}

func uint128(b []byte) (hi, lo uint64) {
	if littleEndian {
		return native.Uint64(b[8:16]), native.Uint64(b[0:8])
	}
	return native.Uint64(b[0:8]), native.Uint64(b[8:16])
}
