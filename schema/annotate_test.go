package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/flatbin/errors"
)

type span struct {
	Path  string
	Shape string
	Start int
	End   int
}

func spans(n *Node) []span {
	var out []span
	n.Walk(func(n *Node, _ int) bool {
		out = append(out, span{n.Path, n.Shape, n.Start, n.End})
		return true
	})
	return out
}

func TestAnnotate_Spans(t *testing.T) {
	typ := MustParse(accountSchema)
	data := encodeValue(t, typ, map[string]any{"id": 7, "name": "ok", "flag": true})

	root, err := Annotate(data, typ)
	if err != nil {
		t.Fatal(err)
	}

	want := []span{
		{"$", "record", 0, 12},
		{"$.id", "u32", 0, 4},
		{"$.name", "string", 4, 10},
		{"$.flag", "option<bool>", 10, 12},
		{"$.flag?", "bool", 11, 12},
	}
	if diff := cmp.Diff(want, spans(root)); diff != "" {
		t.Errorf("spans (-want +got):\n%s", diff)
	}

	if root.Value != nil {
		t.Errorf("root Value = %v, want nil for an aggregate", root.Value)
	}
	if got := root.Children[1].Value; got != "ok" {
		t.Errorf("name Value = %v", got)
	}
	if root.Len() != len(data) {
		t.Errorf("root Len = %d", root.Len())
	}
}

func TestAnnotate_ListAndVariant(t *testing.T) {
	typ := MustParse("type: {list: {variant: [none, {name: some, type: u8}]}}")
	data := encodeValue(t, typ, []any{"none", map[string]any{"some": 5}})

	root, err := Annotate(data, typ)
	if err != nil {
		t.Fatal(err)
	}

	want := []span{
		{"$", "list<variant>", 0, 13},
		{"$[0]", "variant", 4, 8},
		{"$[1]", "variant", 8, 13},
		{"$[1]<some>", "u8", 12, 13},
	}
	if diff := cmp.Diff(want, spans(root)); diff != "" {
		t.Errorf("spans (-want +got):\n%s", diff)
	}
}

func TestAnnotate_PartialOnError(t *testing.T) {
	typ := MustParse(accountSchema)
	data := encodeValue(t, typ, map[string]any{"id": 1, "name": "abcdef"})

	root, err := Annotate(data[:8], typ)
	if !errors.IsKind(err, errors.KindMissingData) {
		t.Fatalf("error = %v, want missing_data", err)
	}
	if root == nil || len(root.Children) != 2 {
		t.Fatalf("partial tree = %+v", root)
	}
	if root.Children[0].Err != nil || root.Children[0].Value != uint32(1) {
		t.Errorf("id node = %+v", root.Children[0])
	}
	if !errors.IsKind(root.Children[1].Err, errors.KindMissingData) {
		t.Errorf("name node Err = %v", root.Children[1].Err)
	}
	if root.Err == nil {
		t.Error("root Err not set")
	}
}

func TestNode_WalkSkipsChildren(t *testing.T) {
	root := &Node{Children: []*Node{{Children: []*Node{{}}}, {}}}
	visited := 0
	root.Walk(func(n *Node, depth int) bool {
		visited++
		return depth == 0
	})
	if visited != 3 {
		t.Errorf("visited %d nodes, want 3", visited)
	}
}
