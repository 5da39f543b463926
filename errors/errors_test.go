package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindCustom,
				Path:   []string{"user", "address", "zip"},
				GoType: "main.Zip",
				Detail: "bad zip",
			},
			contains: []string{"[decode]", "custom", "user.address.zip", "main.Zip", "bad zip"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindMissingData,
			},
			contains: []string{"[decode]", "missing_data"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseMemory,
				Kind:   KindOutOfBounds,
				Detail: "guest memory",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[memory]", "out_of_bounds", "guest memory", "caused by", "underlying error"},
		},
		{
			name:     "sentinel without phase",
			err:      ErrInvalidBool,
			contains: []string{"invalid_bool"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindCustom,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindMissingData,
		Path:  []string{"foo"},
	}

	if !err.Is(&Error{Phase: PhaseDecode, Kind: KindMissingData}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseEncode, Kind: KindMissingData}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindInvalidBool}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrMissingData) {
		t.Error("errors.Is should match the kind sentinel")
	}
	if errors.Is(err, ErrInvalidOption) {
		t.Error("errors.Is should not match another sentinel")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if !errors.Is(wrapped, ErrMissingData) {
		t.Error("errors.Is should see through fmt wrapping")
	}
}

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("ctx: %w", InvalidChar(PhaseDecode, 4, 0xD800))

	kind, ok := KindOf(err)
	if !ok || kind != KindInvalidChar {
		t.Errorf("KindOf = %v, %v, want %v, true", kind, ok, KindInvalidChar)
	}
	if !IsKind(err, KindInvalidChar) {
		t.Error("IsKind should match")
	}
	if IsKind(errors.New("plain"), KindInvalidChar) {
		t.Error("IsKind should not match a plain error")
	}
	if _, ok := KindOf(nil); ok {
		t.Error("KindOf(nil) should report false")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDecode, KindCustom).
		Path("user", "name").
		GoType("string").
		Offset(12).
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "string", "int").
		Build()

	if err.Phase != PhaseDecode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDecode)
	}
	if err.Kind != KindCustom {
		t.Errorf("Kind = %v, want %v", err.Kind, KindCustom)
	}
	if len(err.Path) != 2 || err.Path[0] != "user" || err.Path[1] != "name" {
		t.Errorf("Path = %v, want [user name]", err.Path)
	}
	if err.GoType != "string" {
		t.Errorf("GoType = %v, want 'string'", err.GoType)
	}
	if err.Offset != 12 {
		t.Errorf("Offset = %v, want 12", err.Offset)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected string, got int" {
		t.Errorf("Detail = %v, want 'expected string, got int'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
		want string
	}{
		{"MissingData", MissingData(8, 4, 1), KindMissingData, "need 4 bytes at offset 8, have 1"},
		{"NotSupported", NotSupported(PhaseDecode, "self-describing read"), KindNotSupported, "self-describing"},
		{"InvalidBool", InvalidBool(0, 2), KindInvalidBool, "0x02"},
		{"InvalidChar", InvalidChar(PhaseDecode, 0, 0x110000), KindInvalidChar, "0x110000"},
		{"InvalidText", InvalidText(PhaseDecode, 0, []byte{0xff, 0xfe}), KindInvalidText, "fffe"},
		{"InvalidOption", InvalidOption(0, 2), KindInvalidOption, "0x02"},
		{"Custom", Custom(PhaseDecode, "duplicate key %q", "a"), KindCustom, `duplicate key "a"`},
		{"Overflow", Overflow(PhaseEncode, "length", uint64(1) << 32), KindOverflow, "4294967296"},
		{"TrailingData", TrailingData(4, 2), KindTrailingData, "2 bytes left"},
		{"LengthMismatch", LengthMismatch(PhaseEncode, "sequence", 3, 2), KindLengthMismatch, "announced 3"},
		{"TypeMismatch", TypeMismatch(PhaseEncode, []string{"f"}, "int", "string"), KindTypeMismatch, "expected string"},
		{"Unsupported", Unsupported(PhaseCompile, nil, "chan int", "channels"), KindUnsupported, "channels"},
		{"UnknownCase", UnknownCase(PhaseEncode, nil, "main.dot", "main.shape"), KindInvalidVariant, "main.shape"},
		{"InvalidInput", InvalidInput(PhaseSchema, "empty"), KindInvalidInput, "empty"},
		{"OutOfBounds", OutOfBounds(PhaseMemory, 10, 8, 16), KindOutOfBounds, "[10, 18)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if !strings.Contains(tt.err.Detail, tt.want) {
				t.Errorf("Detail = %q, should contain %q", tt.err.Detail, tt.want)
			}
		})
	}
}

func TestWithPath(t *testing.T) {
	err := error(New(PhaseDecode, KindMissingData).Path("zip").Build())
	err = WithPath(err, "user", "address")

	var e *Error
	if !errors.As(err, &e) {
		t.Fatal("expected *Error")
	}
	if got := strings.Join(e.Path, "."); got != "user.address.zip" {
		t.Errorf("Path = %q, want user.address.zip", got)
	}

	plain := errors.New("plain")
	if WithPath(plain, "x") != plain {
		t.Error("WithPath should leave plain errors untouched")
	}
}

func TestWithPath_DoesNotModifyInput(t *testing.T) {
	orig := New(PhaseDecode, KindCustom).Path("zip").Build()
	got := WithPath(orig, "user")

	if p := strings.Join(orig.Path, "."); p != "zip" {
		t.Errorf("original Path = %q, want zip", p)
	}
	if got == error(orig) {
		t.Error("WithPath returned the same *Error")
	}

	for _, sentinel := range []*Error{ErrCustom, ErrMissingData} {
		err := WithPath(sentinel, "field")
		if len(sentinel.Path) != 0 {
			t.Errorf("sentinel %s Path = %v, want empty", sentinel.Kind, sentinel.Path)
		}
		if !errors.Is(err, sentinel) {
			t.Errorf("%v does not match its sentinel", err)
		}
	}
}

func TestWithPath_Wrapped(t *testing.T) {
	inner := New(PhaseDecode, KindMissingData).Build()
	wrapped := fmt.Errorf("reading header: %w", inner)

	err := WithPath(wrapped, "hdr")
	if !IsKind(err, KindMissingData) {
		t.Errorf("kind lost: %v", err)
	}
	if !strings.Contains(err.Error(), "reading header") {
		t.Errorf("wrapper message lost: %v", err)
	}
	if len(inner.Path) != 0 {
		t.Errorf("inner Path = %v, want empty", inner.Path)
	}
}
