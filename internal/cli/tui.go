package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/gcad/pkg/order"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// RootListModel - Interactive root selection
// =============================================================================

// RootOption is a root the figure can be ordered from, with its plan.
type RootOption struct {
	Root string
	Plan *order.Plan
}

// RootListModel is the bubbletea model for picking a root after the
// requested one left the figure underconstrained.
type RootListModel struct {
	Options  []RootOption
	Failed   string // root that stalled, shown in the title
	Cursor   int
	Selected *RootOption
	Height   int
	Offset   int
}

// NewRootListModel creates a new root list model.
func NewRootListModel(failed string, options []RootOption) RootListModel {
	return RootListModel{
		Options: options,
		Failed:  failed,
		Height:  15,
	}
}

func (m RootListModel) Init() tea.Cmd {
	return nil
}

func (m RootListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Options)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Options) == 0 {
				return m, tea.Quit
			}
			opt := m.Options[m.Cursor]
			m.Selected = &opt
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-7, 5)
	}
	return m, nil
}

func (m RootListModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Select Root"))
	if m.Failed != "" {
		b.WriteString(styleWarning.Render(fmt.Sprintf("  (%s leaves the figure underconstrained)", m.Failed)))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Options))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		o := m.Options[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			o.Root,
			strings.Join(o.Plan.Gauges(), " "),
			fmt.Sprintf("%d", len(o.Plan.Checks)),
			strings.Join(o.Plan.Path, " "),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Root", "Gauges", "Checks", "Order").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 4 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Options))))

	return b.String()
}

// pickRoot runs the interactive picker and returns the chosen root, or ""
// when the user quits.
func pickRoot(failed string, options []RootOption) (string, error) {
	final, err := tea.NewProgram(NewRootListModel(failed, options)).Run()
	if err != nil {
		return "", fmt.Errorf("root picker: %w", err)
	}
	m, ok := final.(RootListModel)
	if !ok || m.Selected == nil {
		return "", nil
	}
	return m.Selected.Root, nil
}
