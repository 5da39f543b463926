package binding

import (
	"cmp"
	"reflect"
	"slices"

	"github.com/wippyai/flatbin/errors"
	"github.com/wippyai/flatbin/wire"
)

// Encode writes v through enc. A non-nil pointer at the top level is
// encoded as the value it points to, so a top-level option or variant is
// passed as a pointer to it.
func (c *Compiler) Encode(enc *wire.Encoder, v any) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return errors.InvalidInput(errors.PhaseEncode, "cannot encode nil")
	}
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return errors.InvalidInput(errors.PhaseEncode, "cannot encode nil pointer")
		}
		rv = rv.Elem()
	}

	ct, err := c.Compile(rv.Type())
	if err != nil {
		return err
	}
	return EncodeValue(enc, ct, rv)
}

// EncodeValue writes v following the plan ct.
func EncodeValue(enc *wire.Encoder, ct *CompiledType, v reflect.Value) error {
	switch ct.Kind {
	case KindBool:
		enc.EmitBool(v.Bool())
	case KindI8:
		enc.EmitI8(int8(v.Int()))
	case KindI16:
		enc.EmitI16(int16(v.Int()))
	case KindI32:
		enc.EmitI32(int32(v.Int()))
	case KindI64:
		enc.EmitI64(v.Int())
	case KindI128:
		enc.EmitI128(v.Interface().(wire.Int128))
	case KindU8:
		enc.EmitU8(uint8(v.Uint()))
	case KindU16:
		enc.EmitU16(uint16(v.Uint()))
	case KindU32:
		enc.EmitU32(uint32(v.Uint()))
	case KindU64:
		enc.EmitU64(v.Uint())
	case KindU128:
		enc.EmitU128(v.Interface().(wire.Uint128))
	case KindF32:
		enc.EmitF32(float32(v.Float()))
	case KindF64:
		enc.EmitF64(v.Float())
	case KindChar:
		return enc.EmitChar(charOf(v))
	case KindString:
		return enc.EmitStr(v.String())
	case KindBytes:
		return enc.EmitBytes(v.Bytes())
	case KindUnit:
		enc.EmitUnit()
	case KindOption:
		if v.IsNil() {
			enc.EmitNone()
			return nil
		}
		enc.EmitSome()
		return EncodeValue(enc, ct.Elem, v.Elem())
	case KindTuple:
		tup := enc.BeginTuple(ct.Len)
		for i := 0; i < ct.Len; i++ {
			if err := EncodeValue(tup.Field(), ct.Elem, v.Index(i)); err != nil {
				return errors.WithPath(err, indexSeg(i))
			}
		}
		return tup.End()
	case KindRecord:
		rec := enc.BeginRecord(len(ct.Fields))
		if err := encodeFields(rec, ct.Fields, v); err != nil {
			return err
		}
		return rec.End()
	case KindSeq:
		return encodeSeq(enc, ct, v)
	case KindMap:
		return encodeMap(enc, ct, v)
	case KindVariant:
		return encodeVariant(enc, ct, v)
	case KindMarshaler:
		return encodeCustom(enc, v)
	default:
		return errors.Unsupported(errors.PhaseEncode, nil, ct.GoType.String(), "unknown kind "+ct.Kind.String())
	}
	return nil
}

func encodeFields(c *wire.Compound, fields []CompiledField, v reflect.Value) error {
	for _, f := range fields {
		if err := EncodeValue(c.Field(), f.Type, v.Field(f.Index)); err != nil {
			return errors.WithPath(err, f.Name)
		}
	}
	return nil
}

func encodeSeq(enc *wire.Encoder, ct *CompiledType, v reflect.Value) error {
	n := v.Len()
	seq, err := enc.BeginSeq(n)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := EncodeValue(seq.Elem(), ct.Elem, v.Index(i)); err != nil {
			return errors.WithPath(err, indexSeg(i))
		}
	}
	return seq.End()
}

func encodeMap(enc *wire.Encoder, ct *CompiledType, v reflect.Value) error {
	m, err := enc.BeginMap(v.Len())
	if err != nil {
		return err
	}

	keys := v.MapKeys()
	if ct.sortKeys {
		slices.SortFunc(keys, compareKeys)
	}

	for _, k := range keys {
		if err := EncodeValue(m.Key(), ct.Key, k); err != nil {
			return errors.WithPath(err, "{key}")
		}
		if err := EncodeValue(m.Value(), ct.Elem, v.MapIndex(k)); err != nil {
			return errors.WithPath(err, "{value}")
		}
	}
	return m.End()
}

func encodeVariant(enc *wire.Encoder, ct *CompiledType, v reflect.Value) error {
	if v.IsNil() {
		return errors.InvalidInput(errors.PhaseEncode, "nil value for variant "+ct.GoType.String())
	}

	inner := v.Elem()
	idx, ok := ct.CaseIndex(inner.Type())
	if !ok {
		return errors.UnknownCase(errors.PhaseEncode, nil, inner.Type().String(), ct.GoType.String())
	}

	cc := &ct.Cases[idx]
	if cc.Ptr {
		if inner.IsNil() {
			return errors.InvalidInput(errors.PhaseEncode, "nil "+cc.GoType.String()+" case of "+ct.GoType.String())
		}
		inner = inner.Elem()
	}

	switch cc.Kind {
	case wire.VariantUnit:
		return enc.BeginVariant(idx, wire.VariantUnit, 0).End()
	case wire.VariantRecord:
		body := enc.BeginVariant(idx, wire.VariantRecord, len(cc.Type.Fields))
		if err := encodeFields(body, cc.Type.Fields, inner); err != nil {
			return errors.WithPath(err, cc.Name())
		}
		return body.End()
	default:
		body := enc.BeginVariant(idx, wire.VariantNewtype, 1)
		if err := EncodeValue(body.Field(), cc.Type, inner); err != nil {
			return errors.WithPath(err, cc.Name())
		}
		return body.End()
	}
}

func encodeCustom(enc *wire.Encoder, v reflect.Value) error {
	if m, ok := v.Interface().(Marshaler); ok {
		return m.MarshalFlat(enc)
	}
	if !v.CanAddr() {
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		v = p.Elem()
	}
	if m, ok := v.Addr().Interface().(Marshaler); ok {
		return m.MarshalFlat(enc)
	}
	return errors.Unsupported(errors.PhaseEncode, nil, v.Type().String(), "implements Unmarshaler but not Marshaler")
}

func charOf(v reflect.Value) rune {
	if v.Kind() == reflect.Uint32 {
		u := v.Uint()
		if u > 0x7FFFFFFF {
			return -1
		}
		return rune(u)
	}
	return rune(v.Int())
}

func compareKeys(a, b reflect.Value) int {
	switch a.Kind() {
	case reflect.String:
		return cmp.Compare(a.String(), b.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cmp.Compare(a.Uint(), b.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())
	case reflect.Bool:
		switch {
		case a.Bool() == b.Bool():
			return 0
		case b.Bool():
			return -1
		default:
			return 1
		}
	}
	return 0
}
