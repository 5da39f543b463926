package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode  Phase = "encode"  // Go to bytes
	PhaseDecode  Phase = "decode"  // bytes to Go
	PhaseCompile Phase = "compile" // type binding compilation
	PhaseSchema  Phase = "schema"  // schema loading
	PhaseMemory  Phase = "memory"  // linear memory transfer
)

// Kind categorizes the error
type Kind string

// Wire taxonomy. Every decode failure of a well-typed binding is one of these.
const (
	KindMissingData   Kind = "missing_data"
	KindNotSupported  Kind = "not_supported"
	KindInvalidBool   Kind = "invalid_bool"
	KindInvalidChar   Kind = "invalid_char"
	KindInvalidText   Kind = "invalid_text"
	KindInvalidOption Kind = "invalid_option"
	KindCustom        Kind = "custom"
)

// Contract and binding kinds.
const (
	KindOverflow       Kind = "overflow"
	KindTrailingData   Kind = "trailing_data"
	KindLengthMismatch Kind = "length_mismatch"
	KindTypeMismatch   Kind = "type_mismatch"
	KindUnsupported    Kind = "unsupported"
	KindInvalidVariant Kind = "invalid_variant"
	KindInvalidInput   Kind = "invalid_input"
	KindOutOfBounds    Kind = "out_of_bounds"
)

// Sentinel targets for errors.Is. They carry no phase, so they match
// any error of the same kind.
var (
	ErrMissingData   = &Error{Kind: KindMissingData}
	ErrNotSupported  = &Error{Kind: KindNotSupported}
	ErrInvalidBool   = &Error{Kind: KindInvalidBool}
	ErrInvalidChar   = &Error{Kind: KindInvalidChar}
	ErrInvalidText   = &Error{Kind: KindInvalidText}
	ErrInvalidOption = &Error{Kind: KindInvalidOption}
	ErrCustom        = &Error{Kind: KindCustom}
	ErrOverflow      = &Error{Kind: KindOverflow}
	ErrTrailingData  = &Error{Kind: KindTrailingData}
)

// Error is the structured error type used throughout flatbin
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Detail string
	Path   []string
	Offset int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target without a
// phase matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsKind reports whether err's chain contains an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Offset sets the byte offset the error refers to
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// MissingData creates an error for a read that needed more bytes than remained.
func MissingData(offset, need, have int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindMissingData,
		Offset: offset,
		Detail: fmt.Sprintf("need %d bytes at offset %d, have %d", need, offset, have),
	}
}

// NotSupported creates an error for a read the format cannot answer.
func NotSupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotSupported,
		Detail: what,
	}
}

// InvalidBool creates an error for a boolean byte other than 0 or 1.
func InvalidBool(offset int, b uint8) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidBool,
		Offset: offset,
		Value:  b,
		Detail: fmt.Sprintf("byte 0x%02X is not a boolean", b),
	}
}

// InvalidChar creates an error for a code point that is not a Unicode scalar value.
func InvalidChar(phase Phase, offset int, cp uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidChar,
		Offset: offset,
		Value:  cp,
		Detail: fmt.Sprintf("invalid Unicode scalar value: 0x%X", cp),
	}
}

// InvalidText creates an invalid UTF-8 error
func InvalidText(phase Phase, offset int, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidText,
		Offset: offset,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// InvalidOption creates an error for an optional tag other than 0 or 1.
func InvalidOption(offset int, tag uint8) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidOption,
		Offset: offset,
		Value:  tag,
		Detail: fmt.Sprintf("optional tag 0x%02X", tag),
	}
}

// Custom creates an error raised by a type binding for a condition the
// codec itself has no visibility into.
func Custom(phase Phase, msg string, args ...any) *Error {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &Error{
		Phase:  phase,
		Kind:   KindCustom,
		Detail: msg,
	}
}

// Overflow creates an error for a length, count or index that does not fit
// the wire's 32-bit field.
func Overflow(phase Phase, what string, value any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Value:  value,
		Detail: fmt.Sprintf("%s %v exceeds u32", what, value),
	}
}

// TrailingData creates an error for bytes left over after a strict decode.
func TrailingData(offset, remaining int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTrailingData,
		Offset: offset,
		Value:  remaining,
		Detail: fmt.Sprintf("%d bytes left after offset %d", remaining, offset),
	}
}

// LengthMismatch creates an error for an aggregate that received a
// different number of elements than it announced.
func LengthMismatch(phase Phase, what string, want, got int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindLengthMismatch,
		Detail: fmt.Sprintf("%s announced %d elements, got %d", what, want, got),
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, expected string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		GoType: goType,
		Detail: "expected " + expected,
	}
}

// Unsupported creates an error for a Go type the binding layer cannot map.
func Unsupported(phase Phase, path []string, goType, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Path:   path,
		GoType: goType,
		Detail: what,
	}
}

// UnknownCase reports a value whose concrete type is not a registered
// case of its variant
func UnknownCase(phase Phase, path []string, goType, variant string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidVariant,
		Path:   path,
		GoType: goType,
		Detail: "not a registered case of " + variant,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// OutOfBounds creates an error for a memory range outside the addressable space.
func OutOfBounds(phase Phase, offset, length, size uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Offset: int(offset),
		Detail: fmt.Sprintf("range [%d, %d) out of bounds (size %d)", offset, uint64(offset)+uint64(length), size),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// WithPath returns err with path prepended to its field path when err is
// an *Error, and err unchanged otherwise. The *Error is copied, never
// modified, so shared values such as the Err* sentinels stay intact.
func WithPath(err error, path ...string) error {
	var e *Error
	if !stderrors.As(err, &e) || len(path) == 0 {
		return err
	}

	c := *e
	c.Path = append(append(make([]string, 0, len(path)+len(e.Path)), path...), e.Path...)
	if err == error(e) {
		return &c
	}
	// err wraps the *Error; keep the wrapper's message as the cause.
	c.Cause = err
	c.Detail = ""
	c.Value = nil
	return &c
}
