// Package flatbin is a compact, non-self-describing binary codec.
//
// Values are written as a flat concatenation of fixed-width native-order
// primitives and u32 length prefixes. Nothing in the output names a field,
// tags a type or marks a case by name, so a value can only be read back by
// code that knows its shape: a Go type through reflection, a hand-written
// Marshaler, or a runtime Seed.
//
// # Architecture Overview
//
//	flatbin/            Entry points, Seed, Memory transfer
//	├── wire/           Encoder, Decoder and the bounded accessors
//	├── binding/        Go type reflection into compiled plans, variants
//	├── schema/         Runtime shapes from YAML schemas, dynamic values
//	├── wasmmem/        wazero linear memory adapter
//	├── errors/         Structured error types
//	└── cmd/flatbin/    encode, decode, dump and inspect tool
//
// # Quick Start
//
//	type Account struct {
//	    ID   uint32
//	    Name string
//	    Flag *bool
//	}
//
//	data, err := flatbin.Serialize(Account{ID: 7, Name: "ok"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	var back Account
//	if err := flatbin.Deserialize(data, &back); err != nil {
//	    log.Fatal(err)
//	}
//
// Deserialize ignores bytes left after the value. DeserializeStrict, or the
// WithStrict option, rejects them.
//
// # Portability
//
// Byte order is the host's. Data is meant for the same machine or
// architecture, for example a host and its WebAssembly guests.
//
// # Thread Safety
//
// All package-level functions are safe for concurrent use. Compiled type
// plans are cached process-wide. Encoders and decoders from the wire
// package are single-use cursors.
package flatbin
