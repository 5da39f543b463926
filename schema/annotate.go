package schema

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/flatbin/wire"
)

// Node is one decoded value and the bytes it came from.
type Node struct {
	// Value is set on leaves: scalars, strings, byte strings, absent
	// options and unit cases.
	Value    any
	Err      error
	Path     string
	Shape    string
	Children []*Node
	// Start and End delimit the value's bytes, End exclusive.
	Start int
	End   int
}

// Len returns the number of bytes the node spans.
func (n *Node) Len() int {
	return n.End - n.Start
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(n *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Annotate decodes data as one value of shape t, recording where each
// nested value starts and ends. On a decode error it returns the tree
// built so far, with Err set on the nodes that failed, together with the
// error.
func Annotate(data []byte, t wit.Type) (*Node, error) {
	w := &walker{dec: wire.NewDecoder(data), annotate: true}
	_, err := w.value(t, "$")
	return w.root, err
}

func (w *walker) open(t wit.Type, path string) *Node {
	n := &Node{Path: path, Shape: ShapeName(t), Start: w.dec.Offset()}
	if len(w.stack) == 0 {
		w.root = n
	} else {
		parent := w.stack[len(w.stack)-1]
		parent.Children = append(parent.Children, n)
	}
	w.stack = append(w.stack, n)
	return n
}

func (w *walker) close(n *Node, v any, err error) {
	w.stack = w.stack[:len(w.stack)-1]
	n.End = w.dec.Offset()
	n.Err = err
	if err == nil && len(n.Children) == 0 {
		n.Value = v
	}
}
