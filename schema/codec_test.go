package schema

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.bytecodealliance.org/wit"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/flatbin"
	"github.com/wippyai/flatbin/errors"
	"github.com/wippyai/flatbin/wire"
)

func encodeValue(t *testing.T, typ wit.Type, v any) []byte {
	t.Helper()
	enc := wire.NewEncoder(nil)
	if err := Encode(enc, typ, v); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return enc.Bytes()
}

func TestEncode_MatchesBinding(t *testing.T) {
	type account struct {
		ID   uint32
		Name string
		Flag *bool
	}

	flag := true
	want, err := flatbin.Serialize(account{ID: 7, Name: "ok", Flag: &flag})
	if err != nil {
		t.Fatal(err)
	}

	got := encodeValue(t, MustParse(accountSchema), map[string]any{"id": 7, "name": "ok", "flag": true})
	if !bytes.Equal(got, want) {
		t.Errorf("schema bytes % x, binding bytes % x", got, want)
	}
}

func TestDecode_Account(t *testing.T) {
	typ := MustParse(accountSchema)
	data := encodeValue(t, typ, map[string]any{"id": 7, "name": "ok"})

	v, err := Decode(wire.NewDecoder(data), typ)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"id": uint32(7), "name": "ok", "flag": nil}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("Decode (-want +got):\n%s", diff)
	}
}

func TestRoundTrip_Dynamic(t *testing.T) {
	typ := MustParse(`
types:
  shape:
    variant:
      - dot
      - {name: circle, type: f64}
      - {name: rect, type: {tuple: [u16, u16]}}
type:
  record:
    - {name: small, type: {tuple: [s8, s16, s32, s64]}}
    - {name: big, type: {tuple: [u8, u16, u32, u64]}}
    - {name: f, type: f32}
    - {name: c, type: char}
    - {name: raw, type: bytes}
    - {name: tags, type: {list: string}}
    - {name: shapes, type: {list: shape}}
    - {name: color, type: {enum: [red, green, blue]}}
    - {name: outcome, type: {result: {ok: u8, err: string}}}
    - {name: nothing, type: unit}
    - {name: maybe, type: {option: {option: u8}}}
`)

	in := map[string]any{
		"small":   []any{int8(-1), int16(-2), int32(-3), int64(math.MinInt64)},
		"big":     []any{uint8(1), uint16(2), uint32(3), uint64(math.MaxUint64)},
		"f":       float32(1.5),
		"c":       "é",
		"raw":     []byte{0xDE, 0xAD},
		"tags":    []any{"a", ""},
		"shapes":  []any{map[string]any{"dot": nil}, map[string]any{"circle": 2.5}, map[string]any{"rect": []any{uint16(3), uint16(4)}}},
		"color":   "blue",
		"outcome": map[string]any{"err": "boom"},
		"nothing": []any{},
		"maybe":   uint8(9),
	}

	data := encodeValue(t, typ, in)
	out, err := flatbin.DeserializeSeed(data, Seed{Type: typ}, flatbin.WithStrict())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestDecode_NestedOptionCollapses(t *testing.T) {
	typ := MustParse("type: {option: {option: u8}}")

	v, err := Decode(wire.NewDecoder([]byte{1, 0}), typ)
	if err != nil {
		t.Fatal(err)
	}
	if v != nil {
		t.Fatalf("Some(None) decoded as %v, want nil", v)
	}
	if got := encodeValue(t, typ, v); !bytes.Equal(got, []byte{0}) {
		t.Errorf("re-encoded as % x, want 00", got)
	}
}

func TestEncode_LooseInput(t *testing.T) {
	typ := MustParse(`
type:
  record:
    - {name: n, type: u16}
    - {name: s, type: s8}
    - {name: e, type: {enum: [a, b, c]}}
    - {name: v, type: {variant: [idle, {name: busy, type: u8}]}}
    - {name: m, type: {map: {key: string, value: u8}}}
`)

	var fromYAML any
	if err := yaml.Unmarshal([]byte("{n: 500, s: -3, e: 2, v: idle, m: {z: 1, a: 2}}"), &fromYAML); err != nil {
		t.Fatal(err)
	}
	var fromJSON any
	dec := json.NewDecoder(bytes.NewReader([]byte(`{"n": 500, "s": -3, "e": "c", "v": "idle", "m": {"a": 2, "z": 1}}`)))
	dec.UseNumber()
	if err := dec.Decode(&fromJSON); err != nil {
		t.Fatal(err)
	}

	a := encodeValue(t, typ, fromYAML)
	b := encodeValue(t, typ, fromJSON)
	if !bytes.Equal(a, b) {
		t.Errorf("YAML % x != JSON % x", a, b)
	}

	v, err := Decode(wire.NewDecoder(a), typ)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"n": uint16(500),
		"s": int8(-3),
		"e": "c",
		"v": map[string]any{"idle": nil},
		"m": []any{[]any{"a", uint8(2)}, []any{"z", uint8(1)}},
	}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("Decode (-want +got):\n%s", diff)
	}
}

func TestEncode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		v    any
		kind errors.Kind
	}{
		{"u8 out of range", "type: u8", 256, errors.KindTypeMismatch},
		{"negative unsigned", "type: u32", -1, errors.KindTypeMismatch},
		{"fractional", "type: s32", 1.5, errors.KindTypeMismatch},
		{"string for bool", "type: bool", "true", errors.KindTypeMismatch},
		{"two-char char", "type: char", "ab", errors.KindTypeMismatch},
		{"surrogate char", "type: char", 0xD800, errors.KindInvalidChar},
		{"tuple arity", "type: {tuple: [u8, u8]}", []any{1}, errors.KindLengthMismatch},
		{"missing field", "type: {record: [{name: a, type: u8}]}", map[string]any{}, errors.KindInvalidInput},
		{"record from list", "type: {record: [{name: a, type: u8}]}", []any{1}, errors.KindTypeMismatch},
		{"unknown case", "type: {variant: [a, b]}", "c", errors.KindInvalidInput},
		{"enum index", "type: {enum: [a]}", 1, errors.KindInvalidInput},
		{"flags", "type: {flags: [r]}", []any{"r"}, errors.KindNotSupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Encode(wire.NewEncoder(nil), MustParse(tt.doc), tt.v)
			if !errors.IsKind(err, tt.kind) {
				t.Errorf("error = %v, want %s", err, tt.kind)
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		data []byte
		kind errors.Kind
	}{
		{"variant index", "type: {variant: [a, b]}", []byte{2, 0, 0, 0}, errors.KindCustom},
		{"enum index", "type: {enum: [a]}", []byte{1, 0, 0, 0}, errors.KindCustom},
		{"result index", "type: {result: {}}", []byte{2, 0, 0, 0}, errors.KindCustom},
		{"truncated list", "type: {list: u16}", []byte{2, 0, 0, 0, 1, 0}, errors.KindMissingData},
		{"bad option", "type: {option: u8}", []byte{3}, errors.KindInvalidOption},
		{"flags", "type: {flags: [r]}", []byte{0}, errors.KindNotSupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !littleEndian() {
				t.Skip("input is little-endian")
			}
			_, err := Decode(wire.NewDecoder(tt.data), MustParse(tt.doc))
			if !errors.IsKind(err, tt.kind) {
				t.Errorf("error = %v, want %s", err, tt.kind)
			}
		})
	}
}

func littleEndian() bool {
	e := wire.NewEncoder(nil)
	e.EmitU16(1)
	return e.Bytes()[0] == 1
}

func TestCoerce(t *testing.T) {
	if u, ok := coerceUnsigned(float64(1<<53), math.MaxUint64); !ok || u != 1<<53 {
		t.Errorf("coerceUnsigned(2^53) = %d, %v", u, ok)
	}
	if _, ok := coerceUnsigned(float64(1<<64), math.MaxUint64); ok {
		t.Error("coerceUnsigned(2^64) accepted")
	}
	if i, ok := coerceSigned("0x10", -100, 100); !ok || i != 16 {
		t.Errorf(`coerceSigned("0x10") = %d, %v`, i, ok)
	}
	if _, ok := coerceSigned(uint64(math.MaxUint64), math.MinInt64, math.MaxInt64); ok {
		t.Error("coerceSigned(MaxUint64) accepted")
	}
	if f, ok := coerceFloat(json.Number("2.5")); !ok || f != 2.5 {
		t.Errorf("coerceFloat = %v, %v", f, ok)
	}
	if r, ok := coerceChar(int64('x')); !ok || r != 'x' {
		t.Errorf("coerceChar = %q, %v", r, ok)
	}
	if _, ok := coerceChar("\xff"); ok {
		t.Error("coerceChar accepted invalid UTF-8")
	}
}
