package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/depfetch/pkg/artifact"
)

var (
	pickerTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	pickerCursor  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	pickerSkipped = StyleDim
)

// rootPicker is a bubbletea model for choosing which roots of a dependency
// file to fetch. Every root starts selected.
type rootPicker struct {
	roots  []artifact.Coordinate
	skip   map[int]bool
	cursor int
	top    int
	rows   int
	done   bool
}

func newRootPicker(roots []artifact.Coordinate) rootPicker {
	return rootPicker{roots: roots, skip: map[int]bool{}, rows: 15}
}

// selected returns the chosen roots in file order, or nil when the picker
// was cancelled.
func (m rootPicker) selected() []artifact.Coordinate {
	if !m.done {
		return nil
	}
	var out []artifact.Coordinate
	for i, c := range m.roots {
		if !m.skip[i] {
			out = append(out, c)
		}
	}
	return out
}

func (m rootPicker) chosen() int { return len(m.roots) - len(m.skip) }

func (m rootPicker) Init() tea.Cmd { return nil }

func (m rootPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.rows = max(msg.Height-6, 5)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			m.done = true
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case " ", "x":
			m.skip = m.flip(m.cursor)
		case "a":
			all := m.chosen() == len(m.roots)
			m.skip = map[int]bool{}
			if all {
				for i := range m.roots {
					m.skip[i] = true
				}
			}
		}
	}
	return m, nil
}

func (m *rootPicker) move(delta int) {
	m.cursor = min(max(m.cursor+delta, 0), max(len(m.roots)-1, 0))
	switch {
	case m.cursor < m.top:
		m.top = m.cursor
	case m.cursor >= m.top+m.rows:
		m.top = m.cursor - m.rows + 1
	}
}

// flip returns a copy of skip with index i toggled, so earlier model values
// stay unchanged.
func (m rootPicker) flip(i int) map[int]bool {
	next := make(map[int]bool, len(m.skip)+1)
	for k := range m.skip {
		next[k] = true
	}
	if i < len(m.roots) {
		if next[i] {
			delete(next, i)
		} else {
			next[i] = true
		}
	}
	return next
}

func (m rootPicker) View() string {
	end := min(m.top+m.rows, len(m.roots))
	rows := make([][]string, 0, end-m.top)
	for i := m.top; i < end; i++ {
		c := m.roots[i]
		pointer, box := " ", "[x]"
		if i == m.cursor {
			pointer = "▸"
		}
		if m.skip[i] {
			box = "[ ]"
		}
		rows = append(rows, []string{pointer, box, c.Group, c.Name, c.Version, cmpOr(c.Classifier, "-"), c.Extension})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("", "", "Group", "Artifact", "Version", "Classifier", "Ext").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			i := m.top + row
			switch {
			case row == -1:
				return styleHeader
			case i == m.cursor:
				return pickerCursor
			case m.skip[i]:
				return pickerSkipped
			}
			return lipgloss.NewStyle()
		})

	var b strings.Builder
	b.WriteString(pickerTitle.Render("Select Artifacts") + "\n")
	b.WriteString(StyleDim.Render("↑/↓ move  space toggle  a all  enter fetch  q quit") + "\n\n")
	b.WriteString(t.Render() + "\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d] %d selected", m.cursor+1, len(m.roots), m.chosen())))
	return b.String()
}

func cmpOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// pickRoots runs the picker on the terminal and returns the chosen roots.
func pickRoots(roots []artifact.Coordinate) ([]artifact.Coordinate, error) {
	final, err := tea.NewProgram(newRootPicker(roots)).Run()
	if err != nil {
		return nil, fmt.Errorf("interactive selection: %w", err)
	}
	return final.(rootPicker).selected(), nil
}
