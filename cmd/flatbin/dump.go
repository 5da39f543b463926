package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/flatbin/schema"
)

var (
	offsetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	shapeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	bytesStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

// maxLeafBytes caps the hex shown on one dump line.
const maxLeafBytes = 16

func runDump(c *cli, args []string) error {
	typ, err := c.parse(c.flags("dump"), args)
	if err != nil {
		return err
	}
	data, err := c.readInput()
	if err != nil {
		return err
	}

	root, err := schema.Annotate(data, typ)
	if root != nil {
		writeDump(c.stdout, data, root, colored(c.stdout))
	}
	if err != nil {
		return err
	}
	if end := root.End; end < len(data) {
		fmt.Fprintf(c.stdout, "%08x  %d trailing bytes\n", end, len(data)-end)
	}
	return nil
}

// writeDump prints one line per node: offset, length, path, shape, the
// node's own bytes and, for leaves, the decoded value.
func writeDump(w io.Writer, data []byte, root *schema.Node, color bool) {
	style := func(s lipgloss.Style, text string) string {
		if !color {
			return text
		}
		return s.Render(text)
	}

	root.Walk(func(n *schema.Node, depth int) bool {
		var b strings.Builder
		b.WriteString(style(offsetStyle, fmt.Sprintf("%08x %5d", n.Start, n.Len())))
		b.WriteString("  ")
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(style(pathStyle, n.Path))
		b.WriteString(" ")
		b.WriteString(style(shapeStyle, n.Shape))
		if own := ownBytes(data, n); len(own) > 0 {
			b.WriteString("  ")
			b.WriteString(style(bytesStyle, hexBytes(own, maxLeafBytes)))
		}
		switch {
		case n.Err != nil && len(n.Children) == 0:
			b.WriteString("  ")
			b.WriteString(style(errorStyle, "error: "+n.Err.Error()))
		case len(n.Children) == 0:
			b.WriteString("  = ")
			b.WriteString(formatValue(n.Value))
		}
		fmt.Fprintln(w, b.String())
		return true
	})
}

// ownBytes returns the bytes a node holds outside its children: the whole
// span of a leaf, or the prefix (length, tag or index) of an aggregate.
func ownBytes(data []byte, n *schema.Node) []byte {
	end := n.End
	if len(n.Children) > 0 {
		end = n.Children[0].Start
	}
	if n.Start >= end || end > len(data) {
		return nil
	}
	return data[n.Start:end]
}

func hexBytes(b []byte, limit int) string {
	more := len(b) > limit
	if more {
		b = b[:limit]
	}
	s := fmt.Sprintf("% x", b)
	if more {
		s += " ..."
	}
	return s
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "none"
	case string:
		return fmt.Sprintf("%q", v)
	case []byte:
		return fmt.Sprintf("bytes(%d)", len(v))
	case map[string]any:
		// a payload-free case
		for name := range v {
			return name
		}
	}
	return fmt.Sprint(v)
}

// hexView renders data as rows of 16 bytes, highlighting [start, end).
func hexView(data []byte, start, end int, highlight lipgloss.Style) string {
	const width = 16
	var b strings.Builder
	for row := 0; row < len(data); row += width {
		fmt.Fprintf(&b, "%08x ", row)
		for i := row; i < row+width; i++ {
			if i >= len(data) {
				b.WriteString("   ")
				continue
			}
			cell := fmt.Sprintf("%02x", data[i])
			if i >= start && i < end {
				cell = highlight.Render(cell)
			}
			b.WriteString(" ")
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
