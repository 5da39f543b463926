package flatbin

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/flatbin/binding"
	"github.com/wippyai/flatbin/errors"
	"github.com/wippyai/flatbin/wire"
)

// Marshaler is implemented by types that write their own flat encoding.
type Marshaler = binding.Marshaler

// Unmarshaler is implemented by types that read their own flat encoding.
type Unmarshaler = binding.Unmarshaler

// Char is a rune that encodes as a character.
type Char = binding.Char

// RegisterVariant declares the ordered cases of the interface type I.
// See binding.RegisterVariant.
func RegisterVariant[I any](cases ...I) {
	binding.RegisterVariant(cases...)
}

// Seed decodes a value whose shape is only known at run time.
type Seed interface {
	DecodeSeed(dec *wire.Decoder) (any, error)
}

// SeedFunc adapts a function to Seed.
type SeedFunc func(dec *wire.Decoder) (any, error)

func (f SeedFunc) DecodeSeed(dec *wire.Decoder) (any, error) {
	return f(dec)
}

// TypeSeed returns a Seed that decodes a T.
func TypeSeed[T any]() Seed {
	return SeedFunc(func(dec *wire.Decoder) (any, error) {
		var v T
		if err := binding.Decode(dec, &v); err != nil {
			return nil, err
		}
		return v, nil
	})
}

// Serialize encodes v into a new buffer. The value is traversed once; use
// Size first when the exact length is needed up front.
func Serialize(v any) ([]byte, error) {
	buf := []byte{}
	if err := SerializeInto(&buf, v); err != nil {
		return nil, err
	}
	return buf, nil
}

// SerializeInto appends the encoding of v to *buf. On error *buf is left
// unchanged.
func SerializeInto(buf *[]byte, v any) error {
	if buf == nil {
		return errors.InvalidInput(errors.PhaseEncode, "nil output buffer")
	}

	enc := wire.NewEncoder(*buf)
	if err := binding.Encode(enc, v); err != nil {
		Logger().Debug("serialize failed",
			zap.String("type", fmt.Sprintf("%T", v)),
			zap.Error(err))
		return err
	}
	*buf = enc.Bytes()
	return nil
}

// Size returns the number of bytes Serialize would produce for v.
func Size(v any) (int, error) {
	s := wire.NewSizer()
	if err := binding.Encode(s, v); err != nil {
		return 0, err
	}
	return s.Len(), nil
}

// Deserialize decodes one value from the front of data into the value v
// points to. Bytes left over after the value are ignored unless
// WithStrict is given.
func Deserialize(data []byte, v any, opts ...DecodeOption) error {
	cfg := newDecodeConfig(opts)
	dec := wire.NewDecoder(data)

	if err := binding.Decode(dec, v); err != nil {
		cfg.logger.Debug("deserialize failed",
			zap.String("type", fmt.Sprintf("%T", v)),
			zap.Int("offset", dec.Offset()),
			zap.Error(err))
		return err
	}
	return cfg.finish(dec)
}

// DeserializeStrict is Deserialize with WithStrict.
func DeserializeStrict(data []byte, v any, opts ...DecodeOption) error {
	return Deserialize(data, v, append(opts, WithStrict())...)
}

// DeserializeSeed decodes one value whose shape is supplied by seed.
func DeserializeSeed(data []byte, seed Seed, opts ...DecodeOption) (any, error) {
	if seed == nil {
		return nil, errors.InvalidInput(errors.PhaseDecode, "nil seed")
	}

	cfg := newDecodeConfig(opts)
	dec := wire.NewDecoder(data)

	v, err := seed.DecodeSeed(dec)
	if err != nil {
		cfg.logger.Debug("seeded deserialize failed",
			zap.String("seed", fmt.Sprintf("%T", seed)),
			zap.Int("offset", dec.Offset()),
			zap.Error(err))
		return nil, err
	}
	if err := cfg.finish(dec); err != nil {
		return nil, err
	}
	return v, nil
}

func (c decodeConfig) finish(dec *wire.Decoder) error {
	if dec.Remaining() == 0 {
		return nil
	}
	if c.strict {
		return errors.TrailingData(dec.Offset(), dec.Remaining())
	}
	c.logger.Debug("ignoring trailing bytes",
		zap.Int("offset", dec.Offset()),
		zap.Int("remaining", dec.Remaining()))
	return nil
}
