// Package errors provides structured error types for flatbin.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The wire kinds form a closed taxonomy:
//
//	missing_data    a read needed more bytes than remained
//	not_supported   a self-describing or identifier read was requested
//	invalid_bool    boolean byte other than 0 or 1
//	invalid_char    code point is not a Unicode scalar value
//	invalid_text    string payload is not valid UTF-8
//	invalid_option  optional tag other than 0 or 1
//	custom          raised by a type binding
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindCustom).
//		Path("user", "role").
//		Detail("variant index %d out of range", idx).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.MissingData(off, 4, 2)
//	err := errors.Custom(errors.PhaseDecode, "duplicate key %q", k)
//
// All errors implement the standard error interface and support errors.Is/As.
// The Err* sentinels match on kind regardless of phase:
//
//	if errors.Is(err, flatbinerrors.ErrMissingData) { ... }
package errors
