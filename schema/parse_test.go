package schema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/flatbin/errors"
)

const accountSchema = `
types:
  status:
    enum: [active, suspended]
  account:
    record:
      - {name: id, type: u32}
      - {name: name, type: string}
      - {name: flag, type: {option: bool}}
type: account
`

func TestParse_Shapes(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"primitive", "type: u32", "u32"},
		{"alias name", "type: i16", "s16"},
		{"bytes", "type: bytes", "list<u8>"},
		{"unit", "type: unit", "tuple<>"},
		{"list", "type: {list: string}", "list<string>"},
		{"option", "type: {option: char}", "option<char>"},
		{"tuple", "type: {tuple: [u8, f64]}", "tuple<u8, f64>"},
		{"map", "type: {map: {key: string, value: s64}}", "list<tuple<string, s64>>"},
		{"result", "type: {result: {ok: u32}}", "result<u32, _>"},
		{"record", accountSchema, "record"},
		{"variant", "type: {variant: [none, {name: some, type: u8}]}", "variant"},
		{"enum", "type: {enum: [a, b]}", "enum"},
		{"flags", "type: {flags: [r, w]}", "flags"},
		{"named list", "types: {pt: {tuple: [s32, s32]}}\ntype: {list: pt}", "list<tuple<s32, s32>>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, err := Parse([]byte(tt.doc))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got := ShapeName(typ); got != tt.want {
				t.Errorf("ShapeName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse_Record(t *testing.T) {
	typ := MustParse(accountSchema)
	td, ok := typ.(*wit.TypeDef)
	if !ok {
		t.Fatalf("type = %T", typ)
	}
	rec, ok := td.Kind.(*wit.Record)
	if !ok {
		t.Fatalf("kind = %T", td.Kind)
	}
	var names []string
	for _, f := range rec.Fields {
		names = append(names, f.Name)
	}
	if strings.Join(names, ",") != "id,name,flag" {
		t.Errorf("fields = %v", names)
	}
	if ShapeName(rec.Fields[2].Type) != "option<bool>" {
		t.Errorf("flag shape = %s", ShapeName(rec.Fields[2].Type))
	}
}

func TestParse_SharedNamedType(t *testing.T) {
	typ := MustParse("types: {pt: {tuple: [u8]}}\ntype: {tuple: [pt, pt]}")
	tup := typ.(*wit.TypeDef).Kind.(*wit.Tuple)
	if tup.Types[0] != tup.Types[1] {
		t.Error("named type resolved twice")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		msg  string
	}{
		{"invalid yaml", "type: [", "invalid YAML"},
		{"empty", "", "empty schema"},
		{"not a mapping", "- u32", "must be a mapping"},
		{"no type", "types: {}", "no type"},
		{"unknown key", "type: u8\nextra: 1", "unknown schema key"},
		{"unknown type", "type: u7", "unknown type"},
		{"unknown constructor", "type: {set: u8}", "unknown type constructor"},
		{"two keys", "type: {list: u8, option: u8}", "exactly one key"},
		{"field without type", "type: {record: [{name: a}]}", "has no type"},
		{"bare record field", "type: {record: [a]}", "has no type"},
		{"duplicate field", "type: {record: [{name: a, type: u8}, {name: a, type: u8}]}", "duplicate name"},
		{"duplicate enum", "type: {enum: [a, a]}", "duplicate name"},
		{"cycle", "types: {a: {list: a}}\ntype: a", "refers to itself"},
		{"map without value", "type: {map: {key: u8}}", `missing "value"`},
		{"duplicate named type", "types: {a: u8, a: u16}\ntype: a", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.IsKind(err, errors.KindInvalidInput) {
				t.Errorf("error kind = %v", err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error = %q, want it to mention %q", err, tt.msg)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "account.yaml")
	if err := os.WriteFile(path, []byte(accountSchema), 0o600); err != nil {
		t.Fatal(err)
	}

	typ, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if ShapeName(typ) != "record" {
		t.Errorf("shape = %s", ShapeName(typ))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("missing file error = %v", err)
	}
}
