package flatbin

import (
	"go.uber.org/zap"

	"github.com/wippyai/flatbin/errors"
)

// Memory is an addressable byte space, such as WebAssembly linear memory.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
}

// MemorySizer provides the current size of a Memory in bytes.
type MemorySizer interface {
	Size() uint32
}

// Store encodes v and writes it to mem at offset. It returns the number of
// bytes written.
func Store(mem Memory, offset uint32, v any) (uint32, error) {
	if mem == nil {
		return 0, errors.InvalidInput(errors.PhaseMemory, "nil memory")
	}

	data, err := Serialize(v)
	if err != nil {
		return 0, err
	}
	if uint64(offset)+uint64(len(data)) > 1<<32 {
		return 0, errors.Overflow(errors.PhaseMemory, "store length", len(data))
	}

	if err := mem.Write(offset, data); err != nil {
		Logger().Debug("store failed",
			zap.Uint32("offset", offset),
			zap.Int("length", len(data)),
			zap.Error(err))
		return 0, err
	}
	return uint32(len(data)), nil
}

// Load reads length bytes from mem at offset and decodes them into the
// value v points to.
func Load(mem Memory, offset, length uint32, v any, opts ...DecodeOption) error {
	if mem == nil {
		return errors.InvalidInput(errors.PhaseMemory, "nil memory")
	}

	if s, ok := mem.(MemorySizer); ok {
		if size := s.Size(); uint64(offset)+uint64(length) > uint64(size) {
			return errors.OutOfBounds(errors.PhaseMemory, offset, length, size)
		}
	}

	data, err := mem.Read(offset, length)
	if err != nil {
		Logger().Debug("load failed",
			zap.Uint32("offset", offset),
			zap.Uint32("length", length),
			zap.Error(err))
		return err
	}
	return Deserialize(data, v, opts...)
}
