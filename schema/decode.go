package schema

import (
	"fmt"
	"strconv"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/flatbin/errors"
	"github.com/wippyai/flatbin/wire"
)

// Seed decodes values of a runtime shape. It satisfies flatbin.Seed.
type Seed struct {
	Type wit.Type
}

func (s Seed) DecodeSeed(dec *wire.Decoder) (any, error) {
	return Decode(dec, s.Type)
}

// Decode reads one value of shape t into its dynamic form:
//
//	bool, integers, floats   the matching Go scalar (u8 -> uint8, s32 -> int32...)
//	char                     one-character string
//	string                   string
//	list<u8>                 []byte
//	list, tuple              []any (a map reads as a list of [key, value])
//	record                   map[string]any
//	option                   nil or the value
//	variant, result          map[string]any{case: payload}
//	enum                     case name
//
// Nested options lose a level: option<option<T>> holding Some(None) reads
// as nil, the same as None, and Encode writes nil back as None. Use a
// variant when the distinction matters.
func Decode(dec *wire.Decoder, t wit.Type) (any, error) {
	w := &walker{dec: dec}
	return w.value(t, "$")
}

// walker reads dynamic values, optionally recording the node tree.
type walker struct {
	dec      *wire.Decoder
	root     *Node
	stack    []*Node
	annotate bool
}

func (w *walker) value(t wit.Type, path string) (v any, err error) {
	t = unalias(t)
	if w.annotate {
		n := w.open(t, path)
		defer func() { w.close(n, v, err) }()
	}

	switch t := t.(type) {
	case wit.Bool:
		return w.dec.ReadBool()
	case wit.U8:
		return w.dec.ReadU8()
	case wit.U16:
		return w.dec.ReadU16()
	case wit.U32:
		return w.dec.ReadU32()
	case wit.U64:
		return w.dec.ReadU64()
	case wit.S8:
		return w.dec.ReadI8()
	case wit.S16:
		return w.dec.ReadI16()
	case wit.S32:
		return w.dec.ReadI32()
	case wit.S64:
		return w.dec.ReadI64()
	case wit.F32:
		return w.dec.ReadF32()
	case wit.F64:
		return w.dec.ReadF64()
	case wit.Char:
		r, err := w.dec.ReadChar()
		if err != nil {
			return nil, err
		}
		return string(r), nil
	case wit.String:
		return w.dec.ReadStr()
	case *wit.TypeDef:
		return w.typeDef(t, path)
	}
	return nil, errors.NotSupported(errors.PhaseDecode, fmt.Sprintf("shape %T", t))
}

func (w *walker) typeDef(t *wit.TypeDef, path string) (any, error) {
	switch k := t.Kind.(type) {
	case *wit.Record:
		return w.record(k, path)
	case *wit.List:
		return w.list(k, path)
	case *wit.Tuple:
		return w.tuple(k, path)
	case *wit.Option:
		some, err := w.dec.ReadOptional()
		if err != nil || !some {
			return nil, err
		}
		return w.value(k.Type, path+"?")
	case *wit.Result:
		return w.cases(path, []caseInfo{{"ok", k.OK}, {"err", k.Err}})
	case *wit.Variant:
		cases := make([]caseInfo, len(k.Cases))
		for i, c := range k.Cases {
			cases[i] = caseInfo{c.Name, c.Type}
		}
		return w.cases(path, cases)
	case *wit.Enum:
		return w.enum(k)
	}
	return nil, errors.NotSupported(errors.PhaseDecode, ShapeName(t)+" has no flat encoding")
}

func (w *walker) record(r *wit.Record, path string) (any, error) {
	out := make(map[string]any, len(r.Fields))
	acc := w.dec.BeginRecord(len(r.Fields))
	for i := 0; ; i++ {
		ok, err := acc.Next(func(*wire.Decoder) error {
			f := r.Fields[i]
			v, err := w.value(f.Type, path+"."+f.Name)
			out[f.Name] = v
			return err
		})
		if err != nil {
			return nil, errors.WithPath(err, r.Fields[i].Name)
		}
		if !ok {
			return out, nil
		}
	}
}

func (w *walker) list(l *wit.List, path string) (any, error) {
	if isU8(l.Type) {
		return w.dec.ReadByteBuf()
	}

	acc, err := w.dec.BeginSeq()
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, min(acc.Len(), w.dec.Remaining()))
	return w.elements(acc, func(int) wit.Type { return l.Type }, path, out)
}

func (w *walker) tuple(t *wit.Tuple, path string) (any, error) {
	acc := w.dec.BeginTuple(len(t.Types))
	out := make([]any, 0, len(t.Types))
	return w.elements(acc, func(i int) wit.Type { return t.Types[i] }, path, out)
}

func (w *walker) elements(acc *wire.SeqAccess, elem func(int) wit.Type, path string, out []any) ([]any, error) {
	for i := 0; ; i++ {
		ok, err := acc.Next(func(*wire.Decoder) error {
			v, err := w.value(elem(i), path+"["+strconv.Itoa(i)+"]")
			out = append(out, v)
			return err
		})
		if err != nil {
			return nil, errors.WithPath(err, "["+strconv.Itoa(i)+"]")
		}
		if !ok {
			return out, nil
		}
	}
}

type caseInfo struct {
	name string
	typ  wit.Type
}

func (w *walker) cases(path string, cases []caseInfo) (any, error) {
	idx, va, err := w.dec.BeginVariant()
	if err != nil {
		return nil, err
	}
	if uint64(idx) >= uint64(len(cases)) {
		return nil, errors.Custom(errors.PhaseDecode, "variant index %d out of range (%d cases)", idx, len(cases))
	}

	c := cases[idx]
	if c.typ == nil {
		return map[string]any{c.name: nil}, va.Unit()
	}

	var payload any
	err = va.Newtype(func(*wire.Decoder) error {
		var err error
		payload, err = w.value(c.typ, path+"<"+c.name+">")
		return err
	})
	if err != nil {
		return nil, errors.WithPath(err, c.name)
	}
	return map[string]any{c.name: payload}, nil
}

func (w *walker) enum(e *wit.Enum) (any, error) {
	idx, va, err := w.dec.BeginVariant()
	if err != nil {
		return nil, err
	}
	if uint64(idx) >= uint64(len(e.Cases)) {
		return nil, errors.Custom(errors.PhaseDecode, "enum index %d out of range (%d cases)", idx, len(e.Cases))
	}
	return e.Cases[idx].Name, va.Unit()
}
