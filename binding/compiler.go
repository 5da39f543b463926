package binding

import (
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/wippyai/flatbin/errors"
	"github.com/wippyai/flatbin/wire"
)

// Compiler reflects Go types into CompiledType plans and caches them.
// It is safe for concurrent use.
type Compiler struct {
	cache sync.Map // reflect.Type -> *CompiledType
	mu    sync.Mutex
}

// compileState holds the plans of one Compile call. Types enter pending
// before their children are compiled so that recursive types resolve to
// the same plan.
type compileState struct {
	pending map[reflect.Type]*CompiledType
}

func NewCompiler() *Compiler {
	return &Compiler{}
}

var defaultCompiler = NewCompiler()

// Default returns the process-wide compiler used by the package-level
// helpers.
func Default() *Compiler {
	return defaultCompiler
}

// Compile returns the plan for t, compiling it on first use.
func (c *Compiler) Compile(t reflect.Type) (*CompiledType, error) {
	if t == nil {
		return nil, errors.New(errors.PhaseCompile, errors.KindInvalidInput).
			Detail("Go type cannot be nil").
			Build()
	}

	if cached, ok := c.cache.Load(t); ok {
		return cached.(*CompiledType), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.cache.Load(t); ok {
		return cached.(*CompiledType), nil
	}

	s := &compileState{pending: make(map[reflect.Type]*CompiledType)}
	ct, err := c.compile(s, t, nil)
	if err != nil {
		return nil, err
	}

	for pt, pct := range s.pending {
		c.cache.Store(pt, pct)
	}
	return ct, nil
}

func (c *Compiler) compile(s *compileState, t reflect.Type, path []string) (*CompiledType, error) {
	if cached, ok := c.cache.Load(t); ok {
		return cached.(*CompiledType), nil
	}
	if ct, ok := s.pending[t]; ok {
		return ct, nil
	}

	ct := &CompiledType{GoType: t}
	s.pending[t] = ct
	if err := c.fill(s, ct, path); err != nil {
		return nil, err
	}
	return ct, nil
}

func (c *Compiler) fill(s *compileState, ct *CompiledType, path []string) error {
	t := ct.GoType

	switch {
	case isCustom(t):
		ct.Kind = KindMarshaler
		return nil
	case t == int128Type:
		ct.Kind = KindI128
		return nil
	case t == uint128Type:
		ct.Kind = KindU128
		return nil
	case t == charType:
		ct.Kind = KindChar
		return nil
	}

	switch t.Kind() {
	case reflect.Bool:
		ct.Kind = KindBool
	case reflect.Int8:
		ct.Kind = KindI8
	case reflect.Int16:
		ct.Kind = KindI16
	case reflect.Int32:
		ct.Kind = KindI32
	case reflect.Int, reflect.Int64:
		ct.Kind = KindI64
	case reflect.Uint8:
		ct.Kind = KindU8
	case reflect.Uint16:
		ct.Kind = KindU16
	case reflect.Uint32:
		ct.Kind = KindU32
	case reflect.Uint, reflect.Uint64:
		ct.Kind = KindU64
	case reflect.Float32:
		ct.Kind = KindF32
	case reflect.Float64:
		ct.Kind = KindF64
	case reflect.String:
		ct.Kind = KindString
	case reflect.Slice:
		return c.compileSlice(s, ct, path)
	case reflect.Array:
		return c.compileArray(s, ct, path)
	case reflect.Map:
		return c.compileMap(s, ct, path)
	case reflect.Pointer:
		return c.compileOption(s, ct, path)
	case reflect.Struct:
		return c.compileStruct(s, ct, path)
	case reflect.Interface:
		return c.compileVariant(s, ct, path)
	default:
		return errors.Unsupported(errors.PhaseCompile, path, t.String(), "no flat shape for "+t.Kind().String())
	}
	return nil
}

func (c *Compiler) compileSlice(s *compileState, ct *CompiledType, path []string) error {
	elem := ct.GoType.Elem()
	if elem.Kind() == reflect.Uint8 && !isCustom(elem) {
		ct.Kind = KindBytes
		return nil
	}

	et, err := c.compile(s, elem, appendPath(path, "[]"))
	if err != nil {
		return err
	}
	ct.Kind = KindSeq
	ct.Elem = et
	return nil
}

func (c *Compiler) compileArray(s *compileState, ct *CompiledType, path []string) error {
	et, err := c.compile(s, ct.GoType.Elem(), appendPath(path, "[]"))
	if err != nil {
		return err
	}
	ct.Kind = KindTuple
	ct.Elem = et
	ct.Len = ct.GoType.Len()
	return nil
}

func (c *Compiler) compileMap(s *compileState, ct *CompiledType, path []string) error {
	kt, err := c.compile(s, ct.GoType.Key(), appendPath(path, "{key}"))
	if err != nil {
		return err
	}
	vt, err := c.compile(s, ct.GoType.Elem(), appendPath(path, "{value}"))
	if err != nil {
		return err
	}
	ct.Kind = KindMap
	ct.Key = kt
	ct.Elem = vt
	ct.sortKeys = isOrdered(ct.GoType.Key().Kind())
	return nil
}

func (c *Compiler) compileOption(s *compileState, ct *CompiledType, path []string) error {
	et, err := c.compile(s, ct.GoType.Elem(), appendPath(path, "[some]"))
	if err != nil {
		return err
	}
	ct.Kind = KindOption
	ct.Elem = et
	return nil
}

func (c *Compiler) compileStruct(s *compileState, ct *CompiledType, path []string) error {
	t := ct.GoType
	fields := make([]CompiledField, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, asChar, skip := parseTag(f)
		if skip {
			continue
		}

		fieldPath := appendPath(path, name)
		var (
			ft  *CompiledType
			err error
		)
		if asChar {
			ft, err = compileChar(f.Type, fieldPath)
		} else {
			ft, err = c.compile(s, f.Type, fieldPath)
		}
		if err != nil {
			return err
		}

		fields = append(fields, CompiledField{Type: ft, Name: name, Index: i})
	}

	if len(fields) == 0 {
		ct.Kind = KindUnit
		return nil
	}
	ct.Kind = KindRecord
	ct.Fields = fields
	return nil
}

func (c *Compiler) compileVariant(s *compileState, ct *CompiledType, path []string) error {
	t := ct.GoType
	types, ok := VariantCases(t)
	if !ok {
		return errors.Unsupported(errors.PhaseCompile, path, t.String(), "interface is not a registered variant")
	}

	ct.Kind = KindVariant
	ct.Cases = make([]CompiledCase, len(types))
	ct.caseIndex = make(map[reflect.Type]uint32, len(types))

	for i, caseType := range types {
		cc := CompiledCase{GoType: caseType}
		base := caseType
		if base.Kind() == reflect.Pointer {
			cc.Ptr = true
			base = base.Elem()
		}

		// Classify on the Go type: the payload plan may still be a
		// placeholder when the case refers back to this interface.
		switch {
		case base.Kind() == reflect.Struct && !isCustom(base) && encodedFieldCount(base) == 0:
			cc.Kind = wire.VariantUnit
		case base.Kind() == reflect.Struct && !isCustom(base):
			cc.Kind = wire.VariantRecord
		default:
			cc.Kind = wire.VariantNewtype
		}

		if cc.Kind != wire.VariantUnit {
			pt, err := c.compile(s, base, appendPath(path, "<"+base.Name()+">"))
			if err != nil {
				return err
			}
			cc.Type = pt
		}

		ct.Cases[i] = cc
		ct.caseIndex[caseType] = uint32(i)
	}
	return nil
}

func compileChar(t reflect.Type, path []string) (*CompiledType, error) {
	switch t.Kind() {
	case reflect.Int32, reflect.Uint32:
		return &CompiledType{GoType: t, Kind: KindChar}, nil
	default:
		return nil, errors.TypeMismatch(errors.PhaseCompile, path, t.String(), "rune, int32 or uint32 for char field")
	}
}

// parseTag reads the `flat` struct tag: `flat:"-"` skips the field,
// `flat:"name"` renames it in diagnostics and `flat:",char"` encodes an
// integer field as a character.
func parseTag(f reflect.StructField) (name string, asChar, skip bool) {
	if !f.IsExported() {
		return "", false, true
	}
	tag := f.Tag.Get("flat")
	if tag == "-" {
		return "", false, true
	}

	name = f.Name
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		name = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "char" {
			asChar = true
		}
	}
	return name, asChar, false
}

func encodedFieldCount(t reflect.Type) int {
	n := 0
	for i := 0; i < t.NumField(); i++ {
		if _, _, skip := parseTag(t.Field(i)); !skip {
			n++
		}
	}
	return n
}

func isOrdered(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func appendPath(path []string, seg string) []string {
	return append(append([]string{}, path...), seg)
}

func indexSeg(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}
