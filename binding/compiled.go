package binding

import (
	"reflect"

	"github.com/wippyai/flatbin/wire"
)

// CompiledType is the precomputed encode/decode plan for one Go type.
type CompiledType struct {
	GoType reflect.Type
	Kind   Kind

	// Elem is the element plan for options, tuples, sequences and map
	// values.
	Elem *CompiledType
	// Key is the map key plan.
	Key *CompiledType
	// Len is the tuple arity.
	Len int

	Fields []CompiledField
	Cases  []CompiledCase

	caseIndex map[reflect.Type]uint32
	sortKeys  bool
}

// CompiledField is one encoded struct field.
type CompiledField struct {
	Type  *CompiledType
	Name  string
	Index int
}

// CompiledCase is one registered case of a variant interface.
type CompiledCase struct {
	// GoType is the registered concrete type, possibly a pointer.
	GoType reflect.Type
	// Type is the payload plan. Nil for unit cases.
	Type *CompiledType
	Kind wire.VariantKind
	// Ptr is set when the case is registered as a pointer to its payload.
	Ptr bool
}

// Name returns the case's type name without package qualifier.
func (c *CompiledCase) Name() string {
	t := c.GoType
	if c.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// CaseIndex returns the variant index of the concrete type t.
func (ct *CompiledType) CaseIndex(t reflect.Type) (uint32, bool) {
	idx, ok := ct.caseIndex[t]
	return idx, ok
}

// FieldNames returns the encoded field names in wire order.
func (ct *CompiledType) FieldNames() []string {
	names := make([]string, len(ct.Fields))
	for i, f := range ct.Fields {
		names[i] = f.Name
	}
	return names
}
