package wire

import "testing"

// FuzzDecoder drives a fixed shape over arbitrary input. It must never
// panic; every failure is a structured error.
func FuzzDecoder(f *testing.F) {
	e := NewEncoder(nil)
	seq, _ := e.BeginSeq(2)
	_ = seq.Elem().EmitStr("a")
	_ = seq.Elem().EmitStr("bc")
	e.EmitSome()
	_ = e.EmitChar('z')
	f.Add(e.Bytes())
	f.Add([]byte{})
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF})

	f.Fuzz(func(t *testing.T, data []byte) {
		d := NewDecoder(data)
		acc, err := d.BeginSeq()
		if err != nil {
			return
		}
		for {
			ok, err := acc.Next(func(d *Decoder) error {
				_, err := d.ReadStrRef()
				return err
			})
			if err != nil {
				return
			}
			if !ok {
				break
			}
		}
		some, err := d.ReadOptional()
		if err != nil || !some {
			return
		}
		_, _ = d.ReadChar()
		if d.Offset() > len(data) {
			t.Fatalf("offset %d beyond input %d", d.Offset(), len(data))
		}
	})
}
