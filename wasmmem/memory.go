// Package wasmmem adapts wazero linear memory to flatbin.Memory, so values
// can be stored into and loaded from a running WebAssembly module.
package wasmmem

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/flatbin"
	"github.com/wippyai/flatbin/errors"
)

// Memory wraps an api.Memory.
// It is NOT safe for concurrent use while the guest is running.
type Memory struct {
	mem api.Memory
}

// New wraps mem. A nil mem yields a Memory of size zero.
func New(mem api.Memory) *Memory {
	return &Memory{mem: mem}
}

// FromModule wraps the memory exported by mod under name, or returns an
// invalid_input error if there is none.
func FromModule(mod api.Module, name string) (*Memory, error) {
	if mod == nil {
		return nil, errors.InvalidInput(errors.PhaseMemory, "nil module")
	}
	mem := mod.ExportedMemory(name)
	if mem == nil {
		return nil, errors.InvalidInput(errors.PhaseMemory, "module exports no memory named "+name)
	}
	return New(mem), nil
}

// Read returns a view of length bytes at offset. The view aliases guest
// memory and is invalidated when the memory grows.
func (m *Memory) Read(offset uint32, length uint32) ([]byte, error) {
	if m.mem == nil {
		return nil, errors.OutOfBounds(errors.PhaseMemory, offset, length, 0)
	}
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseMemory, offset, length, m.Size())
	}
	return data, nil
}

func (m *Memory) Write(offset uint32, data []byte) error {
	if m.mem == nil {
		return errors.OutOfBounds(errors.PhaseMemory, offset, uint32(len(data)), 0)
	}
	if !m.mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseMemory, offset, uint32(len(data)), m.Size())
	}
	return nil
}

func (m *Memory) Size() uint32 {
	if m.mem == nil {
		return 0
	}
	return m.mem.Size()
}

// Grow adds delta pages of 64 KiB and returns the previous size in pages.
func (m *Memory) Grow(delta uint32) (uint32, error) {
	if m.mem == nil {
		return 0, errors.InvalidInput(errors.PhaseMemory, "nil memory")
	}
	prev, ok := m.mem.Grow(delta)
	if !ok {
		return 0, errors.Overflow(errors.PhaseMemory, "memory pages", delta)
	}
	return prev, nil
}

var (
	_ flatbin.Memory      = (*Memory)(nil)
	_ flatbin.MemorySizer = (*Memory)(nil)
)
