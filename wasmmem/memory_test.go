package wasmmem

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/flatbin"
	"github.com/wippyai/flatbin/errors"
)

// memoryModule declares one page of memory and exports it as "memory".
var memoryModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x05, 0x03, 0x01, 0x00, 0x01,
	0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
}

func instantiate(t *testing.T) api.Module {
	t.Helper()
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	t.Cleanup(func() { rt.Close(ctx) })

	mod, err := rt.Instantiate(ctx, memoryModule)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	return mod
}

type entry struct {
	Key    string
	Values []int16
	Note   *string
}

func TestStoreLoad(t *testing.T) {
	mem, err := FromModule(instantiate(t), "memory")
	if err != nil {
		t.Fatal(err)
	}
	if mem.Size() != 65536 {
		t.Fatalf("Size = %d", mem.Size())
	}

	note := "n"
	in := entry{Key: "k", Values: []int16{-1, 2}, Note: &note}
	n, err := flatbin.Store(mem, 1024, in)
	if err != nil {
		t.Fatal(err)
	}

	var out entry
	if err := flatbin.Load(mem, 1024, n, &out, flatbin.WithStrict()); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestBounds(t *testing.T) {
	mem, err := FromModule(instantiate(t), "memory")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := flatbin.Store(mem, 65534, "too long"); !errors.IsKind(err, errors.KindOutOfBounds) {
		t.Errorf("Store error = %v, want out_of_bounds", err)
	}
	if _, err := mem.Read(65530, 7); !errors.IsKind(err, errors.KindOutOfBounds) {
		t.Errorf("Read error = %v, want out_of_bounds", err)
	}

	prev, err := mem.Grow(1)
	if err != nil {
		t.Fatal(err)
	}
	if prev != 1 || mem.Size() != 2*65536 {
		t.Errorf("Grow = %d, size %d", prev, mem.Size())
	}
	if _, err := flatbin.Store(mem, 65534, "fits now"); err != nil {
		t.Errorf("Store after Grow: %v", err)
	}
}

func TestFromModule_Errors(t *testing.T) {
	if _, err := FromModule(instantiate(t), "heap"); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("missing export error = %v", err)
	}
	if _, err := FromModule(nil, "memory"); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("nil module error = %v", err)
	}

	var empty Memory
	if empty.Size() != 0 {
		t.Error("zero Memory has a size")
	}
	if err := empty.Write(0, []byte{1}); !errors.IsKind(err, errors.KindOutOfBounds) {
		t.Errorf("zero Memory Write = %v", err)
	}
}
