package wire

import "github.com/wippyai/flatbin/errors"

// SeqAccess walks the elements of a sequence, tuple or record. It borrows
// its Decoder exclusively until the aggregate is done; reading from the
// Decoder directly in the meantime desynchronizes the count.
type SeqAccess struct {
	d *Decoder
	n int
}

// Next decodes one element with fn. It reports false without consuming
// input once every element has been fetched.
func (s *SeqAccess) Next(fn func(*Decoder) error) (bool, error) {
	if s.n <= 0 {
		return false, nil
	}
	s.n--
	if err := fn(s.d); err != nil {
		return false, err
	}
	return true, nil
}

// Len returns the exact number of elements left.
func (s *SeqAccess) Len() int {
	return s.n
}

// MapAccess walks the pairs of a map. Every successful NextKey must be
// followed by exactly one Value.
type MapAccess struct {
	d       *Decoder
	n       int
	pending bool
}

// NextKey decodes the next key with fn. It reports false without
// consuming input once every pair has been fetched.
func (m *MapAccess) NextKey(fn func(*Decoder) error) (bool, error) {
	if m.pending {
		return false, errors.Custom(errors.PhaseDecode, "map key fetched before the previous value")
	}
	if m.n <= 0 {
		return false, nil
	}
	m.n--
	m.pending = true
	if err := fn(m.d); err != nil {
		return false, err
	}
	return true, nil
}

// Value decodes the value for the key just fetched. It does not touch the
// pair count.
func (m *MapAccess) Value(fn func(*Decoder) error) error {
	if !m.pending {
		return errors.Custom(errors.PhaseDecode, "map value fetched without a key")
	}
	m.pending = false
	return fn(m.d)
}

// Len returns the exact number of pairs left.
func (m *MapAccess) Len() int {
	return m.n
}

// VariantAccess decodes the payload of the case just resolved.
type VariantAccess struct {
	d *Decoder
}

// Unit consumes nothing.
func (v *VariantAccess) Unit() error {
	return nil
}

// Newtype decodes the single payload value with fn.
func (v *VariantAccess) Newtype(fn func(*Decoder) error) error {
	return fn(v.d)
}

// Tuple returns an accessor for an n-field tuple payload.
func (v *VariantAccess) Tuple(n int) *SeqAccess {
	return v.d.BeginTuple(n)
}

// Record returns an accessor for an n-field record payload.
func (v *VariantAccess) Record(n int) *SeqAccess {
	return v.d.BeginRecord(n)
}
