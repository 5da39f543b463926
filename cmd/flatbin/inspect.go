package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/flatbin/schema"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#666666"))
)

func runInspect(c *cli, args []string) error {
	typ, err := c.parse(c.flags("inspect"), args)
	if err != nil {
		return err
	}
	data, err := c.readInput()
	if err != nil {
		return err
	}

	// A partial tree is still worth browsing; its failing node shows the error.
	root, err := schema.Annotate(data, typ)
	if root == nil {
		return err
	}

	name := c.inPath
	if name == "" {
		name = "stdin"
	}
	p := tea.NewProgram(newInspectModel(name, data, root), tea.WithAltScreen())
	_, runErr := p.Run()
	if runErr != nil {
		return runErr
	}
	return err
}

type listEntry struct {
	node  *schema.Node
	depth int
}

type inspectModel struct {
	hex      viewport.Model
	name     string
	data     []byte
	entries  []listEntry
	selected int
	top      int
	width    int
	height   int
}

func newInspectModel(name string, data []byte, root *schema.Node) *inspectModel {
	m := &inspectModel{
		name:   name,
		data:   data,
		hex:    viewport.New(80, 8),
		width:  80,
		height: 24,
	}
	root.Walk(func(n *schema.Node, depth int) bool {
		m.entries = append(m.entries, listEntry{node: n, depth: depth})
		return true
	})
	m.refresh()
	return m
}

func (m *inspectModel) Init() tea.Cmd {
	return nil
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.refresh()
			}

		case "down", "j":
			if m.selected < len(m.entries)-1 {
				m.selected++
				m.refresh()
			}

		case "home", "g":
			m.selected = 0
			m.refresh()

		case "end", "G":
			m.selected = len(m.entries) - 1
			m.refresh()

		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.hex, cmd = m.hex.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.hex.Width = max(msg.Width-2, 20)
		m.hex.Height = max(msg.Height/3, 3)
		m.refresh()
	}

	return m, nil
}

// listHeight is the number of node rows that fit above the hex pane.
func (m *inspectModel) listHeight() int {
	// title, blank, detail line, pane borders, help
	return max(m.height-m.hex.Height-7, 1)
}

// refresh scrolls the node list to the selection and points the hex pane
// at the selected node's bytes.
func (m *inspectModel) refresh() {
	if len(m.entries) == 0 {
		return
	}
	rows := m.listHeight()
	if m.selected < m.top {
		m.top = m.selected
	}
	if m.selected >= m.top+rows {
		m.top = m.selected - rows + 1
	}

	n := m.entries[m.selected].node
	m.hex.SetContent(hexView(m.data, n.Start, n.End, selectedStyle))
	m.hex.SetYOffset(n.Start/16 - m.hex.Height/2)
}

func (m *inspectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("flatbin inspect"))
	b.WriteString(" ")
	b.WriteString(m.name)
	b.WriteString(fmt.Sprintf(" (%d bytes)\n\n", len(m.data)))

	end := min(m.top+m.listHeight(), len(m.entries))
	for i := m.top; i < end; i++ {
		e := m.entries[i]
		line := strings.Repeat("  ", e.depth) + e.node.Path + " " + shapeStyle.Render(e.node.Shape)
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if len(m.entries) > 0 {
		b.WriteString(m.detail(m.entries[m.selected].node))
	}
	b.WriteString("\n")
	b.WriteString(paneStyle.Render(m.hex.View()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • g/G first/last • pgup/pgdown scroll hex • q quit"))

	return b.String()
}

func (m *inspectModel) detail(n *schema.Node) string {
	s := fmt.Sprintf("[%d, %d) %d bytes", n.Start, n.End, n.Len())
	switch {
	case n.Err != nil:
		s += "  " + errorStyle.Render("error: "+n.Err.Error())
	case len(n.Children) == 0:
		s += "  = " + formatValue(n.Value)
	default:
		s += fmt.Sprintf("  %d children", len(n.Children))
	}
	return s
}
