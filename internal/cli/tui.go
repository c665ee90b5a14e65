package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/chartkit/pkg/optree"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listDetailStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// maxCellLen truncates values in table cells.
const maxCellLen = 48

// =============================================================================
// Leaf Rows
// =============================================================================

// leafRow is one leaf of an option tree.
type leafRow struct {
	Path  string
	Kind  string
	Value string
}

// leafRows lists the leaves of t in insertion order. Lists are shown as a
// single row since their elements have no dotted path.
func leafRows(t *optree.Tree) []leafRow {
	var rows []leafRow
	t.Range(func(path string, v optree.Value) bool {
		val := v.String()
		if optree.IsRaw(v) {
			val = optree.UnwrapRaw(v)
		}
		rows = append(rows, leafRow{Path: path, Kind: v.Kind().String(), Value: val})
		return true
	})
	return rows
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// kindColor picks the foreground used for a value kind.
func kindColor(kind string) lipgloss.Color {
	switch kind {
	case optree.KindRaw.String():
		return colorYellow
	case optree.KindNumber.String(), optree.KindBool.String():
		return colorCyan
	case optree.KindNull.String():
		return colorDim
	default:
		return colorWhite
	}
}

// leafTable renders rows as a table. highlight marks one row, or none when
// negative.
func leafTable(rows []leafRow, highlight int) *table.Table {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{r.Path, r.Kind, truncate(r.Value, maxCellLen)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Path", "Kind", "Value").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < 0 || row >= len(rows) {
				return base
			}
			switch col {
			case 1:
				base = base.Foreground(colorGray)
			case 2:
				base = base.Foreground(kindColor(rows[row].Kind))
			}
			if row == highlight {
				return base.Bold(true).Foreground(colorGreen)
			}
			return base
		})
}

// =============================================================================
// TreeBrowserModel - Interactive option browser
// =============================================================================

// TreeBrowserModel is the bubbletea model for browsing the leaves of a chart.
type TreeBrowserModel struct {
	Title  string
	Rows   []leafRow
	Cursor int
	Offset int
	Height int
	// Detail shows the full value of the selected row.
	Detail bool
}

// NewTreeBrowserModel creates a browser over the leaves of t.
func NewTreeBrowserModel(title string, t *optree.Tree) TreeBrowserModel {
	return TreeBrowserModel{
		Title:  title,
		Rows:   leafRows(t),
		Height: 15,
	}
}

func (m TreeBrowserModel) Init() tea.Cmd {
	return nil
}

func (m TreeBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			m.Detail = !m.Detail
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m TreeBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ show value  q quit"))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  (no options)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Rows))
	visible := m.Rows[m.Offset:end]

	b.WriteString(leafTable(visible, m.Cursor-m.Offset).Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	if m.Detail {
		r := m.Rows[m.Cursor]
		b.WriteString("\n")
		b.WriteString(listDetailStyle.Render(StyleHighlight.Render(r.Path) + "\n" + r.Value))
	}

	return b.String()
}
