package flatbin

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/flatbin/errors"
)

type sliceMemory []byte

func (m sliceMemory) Read(offset, length uint32) ([]byte, error) {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(m)) {
		return nil, errors.OutOfBounds(errors.PhaseMemory, offset, length, uint32(len(m)))
	}
	return m[offset:end], nil
}

func (m sliceMemory) Write(offset uint32, data []byte) error {
	end := uint64(offset) + uint64(len(data))
	if end > uint64(len(m)) {
		return errors.OutOfBounds(errors.PhaseMemory, offset, uint32(len(data)), uint32(len(m)))
	}
	copy(m[offset:], data)
	return nil
}

type sizedMemory struct{ sliceMemory }

func (m sizedMemory) Size() uint32 { return uint32(len(m.sliceMemory)) }

func TestStoreLoad(t *testing.T) {
	mem := make(sliceMemory, 64)
	flag := false
	want := account{ID: 42, Name: "guest", Flag: &flag}

	n, err := Store(mem, 8, want)
	if err != nil {
		t.Fatal(err)
	}
	if n != 4+4+5+2 {
		t.Errorf("Store wrote %d bytes, want 15", n)
	}

	var got account
	if err := Load(mem, 8, n, &got, WithStrict()); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load (-want +got):\n%s", diff)
	}

	// Decoded strings do not alias guest memory.
	for i := range mem {
		mem[i] = 0
	}
	if got.Name != "guest" {
		t.Errorf("Name changed with memory: %q", got.Name)
	}
}

func TestStoreLoad_Bounds(t *testing.T) {
	mem := make(sliceMemory, 8)

	if _, err := Store(mem, 4, "too long"); !errors.IsKind(err, errors.KindOutOfBounds) {
		t.Errorf("Store error = %v, want out_of_bounds", err)
	}
	if _, err := Store(mem, ^uint32(0), uint64(1)); !errors.IsKind(err, errors.KindOverflow) {
		t.Errorf("Store past 4GiB error = %v, want overflow", err)
	}

	var v uint64
	if err := Load(mem, 4, 8, &v); !errors.IsKind(err, errors.KindOutOfBounds) {
		t.Errorf("Load error = %v, want out_of_bounds", err)
	}

	// A sized memory is checked before Read is called.
	if err := Load(sizedMemory{mem}, 6, 4, &v); !errors.IsKind(err, errors.KindOutOfBounds) {
		t.Errorf("sized Load error = %v, want out_of_bounds", err)
	}

	if _, err := Store(nil, 0, 1); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("nil memory Store error = %v", err)
	}
	if err := Load(nil, 0, 0, &v); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("nil memory Load error = %v", err)
	}
}
