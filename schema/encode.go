package schema

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/flatbin/errors"
	"github.com/wippyai/flatbin/wire"
)

// Encode writes the dynamic value v as shape t. It accepts the forms
// Decode produces and the looser ones YAML, JSON and CBOR decoders
// produce: any numeric type that fits, numeric strings, a case name for
// a payload-free case, and a Go map for a list of key, value tuples.
func Encode(enc *wire.Encoder, t wit.Type, v any) error {
	t = unalias(t)

	switch t := t.(type) {
	case wit.Bool:
		b, ok := v.(bool)
		if !ok {
			return mismatch(v, t)
		}
		enc.EmitBool(b)
	case wit.U8:
		u, ok := coerceUnsigned(v, math.MaxUint8)
		if !ok {
			return mismatch(v, t)
		}
		enc.EmitU8(uint8(u))
	case wit.U16:
		u, ok := coerceUnsigned(v, math.MaxUint16)
		if !ok {
			return mismatch(v, t)
		}
		enc.EmitU16(uint16(u))
	case wit.U32:
		u, ok := coerceUnsigned(v, math.MaxUint32)
		if !ok {
			return mismatch(v, t)
		}
		enc.EmitU32(uint32(u))
	case wit.U64:
		u, ok := coerceUnsigned(v, math.MaxUint64)
		if !ok {
			return mismatch(v, t)
		}
		enc.EmitU64(u)
	case wit.S8:
		i, ok := coerceSigned(v, math.MinInt8, math.MaxInt8)
		if !ok {
			return mismatch(v, t)
		}
		enc.EmitI8(int8(i))
	case wit.S16:
		i, ok := coerceSigned(v, math.MinInt16, math.MaxInt16)
		if !ok {
			return mismatch(v, t)
		}
		enc.EmitI16(int16(i))
	case wit.S32:
		i, ok := coerceSigned(v, math.MinInt32, math.MaxInt32)
		if !ok {
			return mismatch(v, t)
		}
		enc.EmitI32(int32(i))
	case wit.S64:
		i, ok := coerceSigned(v, math.MinInt64, math.MaxInt64)
		if !ok {
			return mismatch(v, t)
		}
		enc.EmitI64(i)
	case wit.F32:
		f, ok := coerceFloat(v)
		if !ok {
			return mismatch(v, t)
		}
		enc.EmitF32(float32(f))
	case wit.F64:
		f, ok := coerceFloat(v)
		if !ok {
			return mismatch(v, t)
		}
		enc.EmitF64(f)
	case wit.Char:
		r, ok := coerceChar(v)
		if !ok {
			return mismatch(v, t)
		}
		return enc.EmitChar(r)
	case wit.String:
		s, ok := v.(string)
		if !ok {
			return mismatch(v, t)
		}
		return enc.EmitStr(s)
	case *wit.TypeDef:
		return encodeTypeDef(enc, t, v)
	default:
		return errors.NotSupported(errors.PhaseEncode, fmt.Sprintf("shape %T", t))
	}
	return nil
}

func encodeTypeDef(enc *wire.Encoder, t *wit.TypeDef, v any) error {
	switch k := t.Kind.(type) {
	case *wit.Record:
		return encodeRecord(enc, k, v)
	case *wit.List:
		return encodeList(enc, t, k, v)
	case *wit.Tuple:
		items, ok := asSlice(v)
		if !ok {
			if len(k.Types) == 0 && v == nil {
				return nil
			}
			return mismatch(v, t)
		}
		if len(items) != len(k.Types) {
			return errors.LengthMismatch(errors.PhaseEncode, "tuple", len(k.Types), len(items))
		}
		tup := enc.BeginTuple(len(k.Types))
		for i, item := range items {
			if err := Encode(tup.Field(), k.Types[i], item); err != nil {
				return errors.WithPath(err, "["+strconv.Itoa(i)+"]")
			}
		}
		return tup.End()
	case *wit.Option:
		if v == nil {
			enc.EmitNone()
			return nil
		}
		enc.EmitSome()
		return Encode(enc, k.Type, v)
	case *wit.Result:
		return encodeCase(enc, t, []caseInfo{{"ok", k.OK}, {"err", k.Err}}, v)
	case *wit.Variant:
		cases := make([]caseInfo, len(k.Cases))
		for i, c := range k.Cases {
			cases[i] = caseInfo{c.Name, c.Type}
		}
		return encodeCase(enc, t, cases, v)
	case *wit.Enum:
		return encodeEnum(enc, t, k, v)
	}
	return errors.NotSupported(errors.PhaseEncode, ShapeName(t)+" has no flat encoding")
}

func encodeRecord(enc *wire.Encoder, r *wit.Record, v any) error {
	m, ok := asMap(v)
	if !ok {
		return errors.TypeMismatch(errors.PhaseEncode, nil, fmt.Sprintf("%T", v), "mapping for record")
	}

	rec := enc.BeginRecord(len(r.Fields))
	for _, f := range r.Fields {
		fv, present := m[f.Name]
		if !present && !isOption(f.Type) {
			return errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				Path(f.Name).
				Detail("missing field").
				Build()
		}
		if err := Encode(rec.Field(), f.Type, fv); err != nil {
			return errors.WithPath(err, f.Name)
		}
	}
	return rec.End()
}

func encodeList(enc *wire.Encoder, t *wit.TypeDef, l *wit.List, v any) error {
	if isU8(l.Type) {
		if b, ok := v.([]byte); ok {
			return enc.EmitBytes(b)
		}
		if s, ok := v.(string); ok {
			return enc.EmitBytes([]byte(s))
		}
	}

	items, ok := asSlice(v)
	if !ok {
		pairs, isMap := mapPairs(l, v)
		if !isMap {
			return mismatch(v, t)
		}
		items = pairs
	}

	seq, err := enc.BeginSeq(len(items))
	if err != nil {
		return err
	}
	for i, item := range items {
		if err := Encode(seq.Elem(), l.Type, item); err != nil {
			return errors.WithPath(err, "["+strconv.Itoa(i)+"]")
		}
	}
	return seq.End()
}

func encodeCase(enc *wire.Encoder, t *wit.TypeDef, cases []caseInfo, v any) error {
	name, payload, ok := asCase(v)
	if !ok {
		return mismatch(v, t)
	}

	idx := slices.IndexFunc(cases, func(c caseInfo) bool { return c.name == name })
	if idx < 0 {
		return errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Detail("unknown case %q for %s", name, ShapeName(t)).
			Build()
	}

	c := cases[idx]
	if c.typ == nil {
		return enc.BeginVariant(uint32(idx), wire.VariantUnit, 0).End()
	}
	body := enc.BeginVariant(uint32(idx), wire.VariantNewtype, 1)
	if err := Encode(body.Field(), c.typ, payload); err != nil {
		return errors.WithPath(err, c.name)
	}
	return body.End()
}

func encodeEnum(enc *wire.Encoder, t *wit.TypeDef, e *wit.Enum, v any) error {
	idx := -1
	if name, ok := v.(string); ok {
		idx = slices.IndexFunc(e.Cases, func(c wit.EnumCase) bool { return c.Name == name })
	} else if u, ok := coerceUnsigned(v, math.MaxUint32); ok && u < uint64(len(e.Cases)) {
		idx = int(u)
	}
	if idx < 0 {
		return errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Value(v).
			Detail("no %s case %v", ShapeName(t), v).
			Build()
	}
	return enc.BeginVariant(uint32(idx), wire.VariantUnit, 0).End()
}

func isOption(t wit.Type) bool {
	td, ok := unalias(t).(*wit.TypeDef)
	if !ok {
		return false
	}
	_, ok = td.Kind.(*wit.Option)
	return ok
}

// asCase reads a case either as its bare name or as a single-key mapping
// from name to payload.
func asCase(v any) (string, any, bool) {
	if s, ok := v.(string); ok {
		return s, nil, true
	}
	m, ok := asMap(v)
	if !ok || len(m) != 1 {
		return "", nil, false
	}
	for k, p := range m {
		return k, p, true
	}
	return "", nil, false
}

func asSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// asMap accepts map[string]any and the map[any]any form some decoders
// produce, as long as every key is a string.
func asMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k, ok := iter.Key().Interface().(string)
		if !ok {
			return nil, false
		}
		out[k] = iter.Value().Interface()
	}
	return out, true
}

// mapPairs turns a Go map into [key, value] items for a list of 2-tuples,
// ordered by the key's text so the output is deterministic.
func mapPairs(l *wit.List, v any) ([]any, bool) {
	pair, ok := unalias(l.Type).(*wit.TypeDef)
	if !ok {
		return nil, false
	}
	if tup, ok := pair.Kind.(*wit.Tuple); !ok || len(tup.Types) != 2 {
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, false
	}

	keys := rv.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return cmp.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
	})
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = []any{k.Interface(), rv.MapIndex(k).Interface()}
	}
	return out, true
}

func mismatch(v any, t wit.Type) error {
	return errors.TypeMismatch(errors.PhaseEncode, nil, fmt.Sprintf("%T", v), ShapeName(t))
}
