package binding

import (
	"reflect"

	"github.com/wippyai/flatbin/errors"
	"github.com/wippyai/flatbin/wire"
)

// Decode reads one value from dec into the value ptr points to.
func (c *Compiler) Decode(dec *wire.Decoder, ptr any) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.InvalidInput(errors.PhaseDecode, "decode target must be a non-nil pointer")
	}

	ct, err := c.Compile(rv.Type().Elem())
	if err != nil {
		return err
	}
	return DecodeValue(dec, ct, rv.Elem())
}

// DecodeValue reads into the settable value v following the plan ct.
func DecodeValue(dec *wire.Decoder, ct *CompiledType, v reflect.Value) error {
	switch ct.Kind {
	case KindBool:
		b, err := dec.ReadBool()
		if err != nil {
			return err
		}
		v.SetBool(b)
	case KindI8:
		x, err := dec.ReadI8()
		if err != nil {
			return err
		}
		v.SetInt(int64(x))
	case KindI16:
		x, err := dec.ReadI16()
		if err != nil {
			return err
		}
		v.SetInt(int64(x))
	case KindI32:
		x, err := dec.ReadI32()
		if err != nil {
			return err
		}
		v.SetInt(int64(x))
	case KindI64:
		x, err := dec.ReadI64()
		if err != nil {
			return err
		}
		v.SetInt(x)
	case KindI128:
		x, err := dec.ReadI128()
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(x))
	case KindU8:
		x, err := dec.ReadU8()
		if err != nil {
			return err
		}
		v.SetUint(uint64(x))
	case KindU16:
		x, err := dec.ReadU16()
		if err != nil {
			return err
		}
		v.SetUint(uint64(x))
	case KindU32:
		x, err := dec.ReadU32()
		if err != nil {
			return err
		}
		v.SetUint(uint64(x))
	case KindU64:
		x, err := dec.ReadU64()
		if err != nil {
			return err
		}
		v.SetUint(x)
	case KindU128:
		x, err := dec.ReadU128()
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(x))
	case KindF32:
		x, err := dec.ReadF32()
		if err != nil {
			return err
		}
		v.SetFloat(float64(x))
	case KindF64:
		x, err := dec.ReadF64()
		if err != nil {
			return err
		}
		v.SetFloat(x)
	case KindChar:
		r, err := dec.ReadChar()
		if err != nil {
			return err
		}
		if v.Kind() == reflect.Uint32 {
			v.SetUint(uint64(r))
		} else {
			v.SetInt(int64(r))
		}
	case KindString:
		s, err := dec.ReadStr()
		if err != nil {
			return err
		}
		v.SetString(s)
	case KindBytes:
		b, err := dec.ReadByteBuf()
		if err != nil {
			return err
		}
		v.SetBytes(b)
	case KindUnit:
		return dec.ReadUnit()
	case KindOption:
		some, err := dec.ReadOptional()
		if err != nil {
			return err
		}
		if !some {
			v.SetZero()
			return nil
		}
		if v.IsNil() {
			v.Set(reflect.New(ct.GoType.Elem()))
		}
		return DecodeValue(dec, ct.Elem, v.Elem())
	case KindTuple:
		return decodeTuple(dec.BeginTuple(ct.Len), ct, v)
	case KindRecord:
		return decodeFields(dec.BeginRecord(len(ct.Fields)), ct.Fields, v)
	case KindSeq:
		return decodeSeq(dec, ct, v)
	case KindMap:
		return decodeMap(dec, ct, v)
	case KindVariant:
		return decodeVariant(dec, ct, v)
	case KindMarshaler:
		return decodeCustom(dec, v)
	default:
		return errors.Unsupported(errors.PhaseDecode, nil, ct.GoType.String(), "unknown kind "+ct.Kind.String())
	}
	return nil
}

func decodeTuple(acc *wire.SeqAccess, ct *CompiledType, v reflect.Value) error {
	for i := 0; ; i++ {
		ok, err := acc.Next(func(d *wire.Decoder) error {
			return DecodeValue(d, ct.Elem, v.Index(i))
		})
		if err != nil {
			return errors.WithPath(err, indexSeg(i))
		}
		if !ok {
			return nil
		}
	}
}

func decodeFields(acc *wire.SeqAccess, fields []CompiledField, v reflect.Value) error {
	for i := 0; ; i++ {
		ok, err := acc.Next(func(d *wire.Decoder) error {
			return DecodeValue(d, fields[i].Type, v.Field(fields[i].Index))
		})
		if err != nil {
			return errors.WithPath(err, fields[i].Name)
		}
		if !ok {
			return nil
		}
	}
}

func decodeSeq(dec *wire.Decoder, ct *CompiledType, v reflect.Value) error {
	acc, err := dec.BeginSeq()
	if err != nil {
		return err
	}

	// The count is untrusted; never reserve more than the input could hold.
	s := reflect.MakeSlice(ct.GoType, 0, min(acc.Len(), dec.Remaining()))
	zero := reflect.Zero(ct.GoType.Elem())
	for i := 0; acc.Len() > 0; i++ {
		s = reflect.Append(s, zero)
		if _, err := acc.Next(func(d *wire.Decoder) error {
			return DecodeValue(d, ct.Elem, s.Index(i))
		}); err != nil {
			return errors.WithPath(err, indexSeg(i))
		}
	}
	v.Set(s)
	return nil
}

func decodeMap(dec *wire.Decoder, ct *CompiledType, v reflect.Value) error {
	acc, err := dec.BeginMap()
	if err != nil {
		return err
	}

	m := reflect.MakeMapWithSize(ct.GoType, min(acc.Len(), dec.Remaining()))
	keyType, valType := ct.GoType.Key(), ct.GoType.Elem()
	for {
		key := reflect.New(keyType).Elem()
		ok, err := acc.NextKey(func(d *wire.Decoder) error {
			return DecodeValue(d, ct.Key, key)
		})
		if err != nil {
			return errors.WithPath(err, "{key}")
		}
		if !ok {
			break
		}

		val := reflect.New(valType).Elem()
		if err := acc.Value(func(d *wire.Decoder) error {
			return DecodeValue(d, ct.Elem, val)
		}); err != nil {
			return errors.WithPath(err, "{value}")
		}
		m.SetMapIndex(key, val)
	}
	v.Set(m)
	return nil
}

func decodeVariant(dec *wire.Decoder, ct *CompiledType, v reflect.Value) error {
	idx, va, err := dec.BeginVariant()
	if err != nil {
		return err
	}
	if uint64(idx) >= uint64(len(ct.Cases)) {
		return errors.Custom(errors.PhaseDecode, "variant index %d out of range for %s (%d cases)", idx, ct.GoType, len(ct.Cases))
	}

	cc := &ct.Cases[idx]
	base := cc.GoType
	if cc.Ptr {
		base = base.Elem()
	}
	pv := reflect.New(base)
	payload := pv.Elem()

	switch cc.Kind {
	case wire.VariantUnit:
		err = va.Unit()
	case wire.VariantRecord:
		err = decodeFields(va.Record(len(cc.Type.Fields)), cc.Type.Fields, payload)
	default:
		err = va.Newtype(func(d *wire.Decoder) error {
			return DecodeValue(d, cc.Type, payload)
		})
	}
	if err != nil {
		return errors.WithPath(err, cc.Name())
	}

	if cc.Ptr {
		v.Set(pv)
	} else {
		v.Set(payload)
	}
	return nil
}

func decodeCustom(dec *wire.Decoder, v reflect.Value) error {
	if v.CanAddr() {
		if u, ok := v.Addr().Interface().(Unmarshaler); ok {
			return u.UnmarshalFlat(dec)
		}
	}
	return errors.Unsupported(errors.PhaseDecode, nil, v.Type().String(), "implements Marshaler but not Unmarshaler")
}
