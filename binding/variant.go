package binding

import (
	"fmt"
	"reflect"
	"sync"
)

var variants sync.Map // reflect.Type (interface) -> []reflect.Type

// RegisterVariant declares the ordered case list of the interface type I.
// The position of each case is its wire index. A case whose type is an
// empty struct is a unit case, any other struct is a record case, and
// everything else is a newtype case. Pointer cases are dereferenced.
//
// Registration must happen before the first encode or decode of any type
// that mentions I, typically from an init function. It panics when I is
// not an interface, a case is nil, a case type repeats, or I was already
// registered with a different case list.
func RegisterVariant[I any](cases ...I) {
	iface := reflect.TypeOf((*I)(nil)).Elem()
	if iface.Kind() != reflect.Interface {
		panic(fmt.Sprintf("binding: RegisterVariant of non-interface type %s", iface))
	}

	types := make([]reflect.Type, len(cases))
	seen := make(map[reflect.Type]bool, len(cases))
	for i, c := range cases {
		t := reflect.TypeOf(c)
		if t == nil {
			panic(fmt.Sprintf("binding: nil case %d for variant %s", i, iface))
		}
		if seen[t] {
			panic(fmt.Sprintf("binding: duplicate case %s for variant %s", t, iface))
		}
		seen[t] = true
		types[i] = t
	}

	if prev, loaded := variants.LoadOrStore(iface, types); loaded {
		if !sameCases(prev.([]reflect.Type), types) {
			panic(fmt.Sprintf("binding: variant %s registered twice with different cases", iface))
		}
	}
}

// VariantCases returns the registered case types of iface.
func VariantCases(iface reflect.Type) ([]reflect.Type, bool) {
	v, ok := variants.Load(iface)
	if !ok {
		return nil, false
	}
	return v.([]reflect.Type), true
}

func sameCases(a, b []reflect.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
