package schema

import (
	"os"
	"strings"

	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/flatbin/errors"
)

// Parse reads a YAML schema document and returns the shape of its root
// value. A document has a required `type` and optional named `types`:
//
//	types:
//	  point:
//	    record:
//	      - {name: x, type: s32}
//	      - {name: y, type: s32}
//	type:
//	  list: point
//
// Type expressions are a primitive or named-type scalar (`u32`, `string`,
// `bytes`, `unit`, `point`) or a single-key mapping: record, tuple, list,
// option, variant, enum, result, map or flags.
func Parse(data []byte) (wit.Type, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.PhaseSchema, errors.KindInvalidInput, err, "invalid YAML")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.InvalidInput(errors.PhaseSchema, "empty schema document")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nodeError(root, "schema document must be a mapping")
	}

	p := &parser{
		named:    make(map[string]*yaml.Node),
		resolved: make(map[string]wit.Type),
		active:   make(map[string]bool),
	}

	var typeNode *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "type":
			typeNode = val
		case "types":
			if val.Kind != yaml.MappingNode {
				return nil, nodeError(val, "types must be a mapping")
			}
			for j := 0; j+1 < len(val.Content); j += 2 {
				name := val.Content[j].Value
				if _, dup := p.named[name]; dup {
					return nil, nodeError(val.Content[j], "duplicate type %q", name)
				}
				p.named[name] = val.Content[j+1]
			}
		default:
			return nil, nodeError(key, "unknown schema key %q", key.Value)
		}
	}
	if typeNode == nil {
		return nil, nodeError(root, "schema has no type")
	}

	return p.parse(typeNode)
}

// Load reads and parses the schema file at path.
func Load(path string) (wit.Type, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseSchema, errors.KindInvalidInput, err, "read "+path)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, err
	}
	Logger().Debug("schema loaded", zap.String("path", path), zap.String("shape", ShapeName(t)))
	return t, nil
}

// MustParse is like Parse but panics on error.
func MustParse(data string) wit.Type {
	t, err := Parse([]byte(data))
	if err != nil {
		panic(err)
	}
	return t
}

type parser struct {
	named    map[string]*yaml.Node
	resolved map[string]wit.Type
	active   map[string]bool
}

var aliases = map[string]string{
	"i8":  "s8",
	"i16": "s16",
	"i32": "s32",
	"i64": "s64",
}

func (p *parser) parse(n *yaml.Node) (wit.Type, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return p.scalar(n)
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return nil, nodeError(n, "type mapping must have exactly one key")
		}
		return p.composite(n.Content[0], n.Content[1])
	case yaml.AliasNode:
		return p.parse(n.Alias)
	default:
		return nil, nodeError(n, "expected a type name or mapping")
	}
}

func (p *parser) scalar(n *yaml.Node) (wit.Type, error) {
	name := strings.TrimSpace(n.Value)
	switch name {
	case "unit":
		return &wit.TypeDef{Kind: &wit.Tuple{}}, nil
	case "bytes":
		return &wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}}, nil
	}

	if def, ok := p.named[name]; ok {
		return p.reference(name, def)
	}
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}

	t, err := wit.ParseType(name)
	if err != nil {
		return nil, nodeError(n, "unknown type %q", name)
	}
	return t, nil
}

func (p *parser) reference(name string, def *yaml.Node) (wit.Type, error) {
	if t, ok := p.resolved[name]; ok {
		return t, nil
	}
	if p.active[name] {
		return nil, nodeError(def, "type %q refers to itself", name)
	}

	p.active[name] = true
	t, err := p.parse(def)
	delete(p.active, name)
	if err != nil {
		return nil, err
	}
	p.resolved[name] = t
	return t, nil
}

func (p *parser) composite(key, val *yaml.Node) (wit.Type, error) {
	switch key.Value {
	case "record":
		fields, err := p.namedList(val, true)
		if err != nil {
			return nil, err
		}
		rec := &wit.Record{Fields: make([]wit.Field, len(fields))}
		for i, f := range fields {
			rec.Fields[i] = wit.Field{Name: f.name, Type: f.typ}
		}
		return &wit.TypeDef{Kind: rec}, nil

	case "tuple":
		types, err := p.typeList(val)
		if err != nil {
			return nil, err
		}
		return &wit.TypeDef{Kind: &wit.Tuple{Types: types}}, nil

	case "list":
		elem, err := p.parse(val)
		if err != nil {
			return nil, err
		}
		return &wit.TypeDef{Kind: &wit.List{Type: elem}}, nil

	case "option":
		elem, err := p.parse(val)
		if err != nil {
			return nil, err
		}
		return &wit.TypeDef{Kind: &wit.Option{Type: elem}}, nil

	case "variant":
		cases, err := p.namedList(val, false)
		if err != nil {
			return nil, err
		}
		v := &wit.Variant{Cases: make([]wit.Case, len(cases))}
		for i, c := range cases {
			v.Cases[i] = wit.Case{Name: c.name, Type: c.typ}
		}
		return &wit.TypeDef{Kind: v}, nil

	case "enum":
		names, err := scalarList(val)
		if err != nil {
			return nil, err
		}
		e := &wit.Enum{Cases: make([]wit.EnumCase, len(names))}
		for i, name := range names {
			e.Cases[i] = wit.EnumCase{Name: name}
		}
		return &wit.TypeDef{Kind: e}, nil

	case "flags":
		names, err := scalarList(val)
		if err != nil {
			return nil, err
		}
		f := &wit.Flags{Flags: make([]wit.Flag, len(names))}
		for i, name := range names {
			f.Flags[i] = wit.Flag{Name: name}
		}
		return &wit.TypeDef{Kind: f}, nil

	case "result":
		ok, err := p.optionalKey(val, "ok")
		if err != nil {
			return nil, err
		}
		bad, err := p.optionalKey(val, "err")
		if err != nil {
			return nil, err
		}
		return &wit.TypeDef{Kind: &wit.Result{OK: ok, Err: bad}}, nil

	case "map":
		kt, err := p.requiredKey(val, "key")
		if err != nil {
			return nil, err
		}
		vt, err := p.requiredKey(val, "value")
		if err != nil {
			return nil, err
		}
		// Same bytes as a map: u32 count, then key, value pairs.
		pair := &wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{kt, vt}}}
		return &wit.TypeDef{Kind: &wit.List{Type: pair}}, nil
	}
	return nil, nodeError(key, "unknown type constructor %q", key.Value)
}

type namedType struct {
	typ  wit.Type
	name string
}

// namedList parses a sequence of {name, type} mappings. For variants the
// type is optional and a bare scalar names a case without payload.
func (p *parser) namedList(n *yaml.Node, typeRequired bool) ([]namedType, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, nodeError(n, "expected a sequence")
	}

	out := make([]namedType, 0, len(n.Content))
	seen := make(map[string]bool, len(n.Content))
	for _, item := range n.Content {
		var nt namedType
		switch item.Kind {
		case yaml.ScalarNode:
			if typeRequired {
				return nil, nodeError(item, "field %q has no type", item.Value)
			}
			nt.name = item.Value
		case yaml.MappingNode:
			nameNode := lookup(item, "name")
			if nameNode == nil || nameNode.Value == "" {
				return nil, nodeError(item, "entry has no name")
			}
			nt.name = nameNode.Value
			typeNode := lookup(item, "type")
			if typeNode == nil && typeRequired {
				return nil, nodeError(item, "field %q has no type", nt.name)
			}
			if typeNode != nil {
				t, err := p.parse(typeNode)
				if err != nil {
					return nil, err
				}
				nt.typ = t
			}
		default:
			return nil, nodeError(item, "expected a name or {name, type} mapping")
		}

		if seen[nt.name] {
			return nil, nodeError(item, "duplicate name %q", nt.name)
		}
		seen[nt.name] = true
		out = append(out, nt)
	}
	return out, nil
}

func (p *parser) typeList(n *yaml.Node) ([]wit.Type, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, nodeError(n, "expected a sequence of types")
	}
	types := make([]wit.Type, len(n.Content))
	for i, item := range n.Content {
		t, err := p.parse(item)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	return types, nil
}

func (p *parser) optionalKey(n *yaml.Node, key string) (wit.Type, error) {
	if n.Kind != yaml.MappingNode {
		return nil, nodeError(n, "expected a mapping")
	}
	v := lookup(n, key)
	if v == nil || (v.Kind == yaml.ScalarNode && v.Tag == "!!null") {
		return nil, nil
	}
	return p.parse(v)
}

func (p *parser) requiredKey(n *yaml.Node, key string) (wit.Type, error) {
	if n.Kind != yaml.MappingNode {
		return nil, nodeError(n, "expected a mapping")
	}
	v := lookup(n, key)
	if v == nil {
		return nil, nodeError(n, "missing %q", key)
	}
	return p.parse(v)
}

func scalarList(n *yaml.Node) ([]string, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, nodeError(n, "expected a sequence of names")
	}
	names := make([]string, len(n.Content))
	seen := make(map[string]bool, len(n.Content))
	for i, item := range n.Content {
		if item.Kind != yaml.ScalarNode {
			return nil, nodeError(item, "expected a name")
		}
		if seen[item.Value] {
			return nil, nodeError(item, "duplicate name %q", item.Value)
		}
		seen[item.Value] = true
		names[i] = item.Value
	}
	return names, nil
}

func lookup(n *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func nodeError(n *yaml.Node, format string, args ...any) error {
	return errors.New(errors.PhaseSchema, errors.KindInvalidInput).
		Detail("line %d: "+format, append([]any{n.Line}, args...)...).
		Build()
}
