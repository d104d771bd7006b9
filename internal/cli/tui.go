package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/stackorder/pkg/topsort"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// maxPreview is how many member ids the table shows per group.
const maxPreview = 3

// =============================================================================
// GroupListModel - Interactive group browser
// =============================================================================

// GroupListModel is the bubbletea model for browsing a grouped order.
// The selected group's members are listed below the table.
type GroupListModel struct {
	Groups []topsort.Group
	Cursor int
	Height int
	Offset int
}

// NewGroupListModel creates a new group list model.
func NewGroupListModel(groups []topsort.Group) GroupListModel {
	return GroupListModel{Groups: groups, Height: 15}
}

func (m GroupListModel) Init() tea.Cmd {
	return nil
}

func (m GroupListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Groups)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n := len(m.Groups); n > 0 {
				m.Cursor = n - 1
				m.Offset = max(0, n-m.Height)
			}
		}
	case tea.WindowSizeMsg:
		// Leave room for the title, the table border and the member list.
		m.Height = max(msg.Height-12, 5)
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m GroupListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Groups"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Groups) == 0 {
		b.WriteString(listDimStyle.Render("  no elements"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Groups))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		g := m.Groups[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			strconv.Itoa(g.Level),
			g.Type,
			strconv.Itoa(g.Position),
			strconv.Itoa(len(g.Elements)),
			preview(g.Elements),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Level", "Type", "Pos", "Size", "Elements").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 { // header
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 1 || col == 3 || col == 4 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	sel := m.Groups[m.Cursor]
	b.WriteString(listSelectedStyle.Render(fmt.Sprintf("%s #%d", sel.Type, sel.Level)))
	b.WriteString("\n")
	for _, id := range sel.Elements {
		b.WriteString(listNormalStyle.Render("  " + id))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Groups))))

	return b.String()
}

// preview joins the first few ids, noting how many were left out.
func preview(ids []string) string {
	if len(ids) <= maxPreview {
		return strings.Join(ids, ", ")
	}
	return fmt.Sprintf("%s, +%d more", strings.Join(ids[:maxPreview], ", "), len(ids)-maxPreview)
}
