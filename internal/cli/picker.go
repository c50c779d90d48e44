package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ColumnPickerModel - Interactive set column selection
// =============================================================================

// ColumnPickerModel is the bubbletea model for choosing which columns of the
// input table are set indicators. It is shown when render is invoked without
// --sets and candidate boolean columns exist.
type ColumnPickerModel struct {
	Columns   []string
	Cursor    int
	Checked   map[int]bool
	Confirmed bool
	Height    int
	Offset    int
}

// NewColumnPickerModel creates a picker over the candidate columns.
// All candidates start checked, matching the common case where every
// boolean column is a set.
func NewColumnPickerModel(columns []string) ColumnPickerModel {
	checked := make(map[int]bool, len(columns))
	for i := range columns {
		checked[i] = true
	}
	return ColumnPickerModel{
		Columns: columns,
		Checked: checked,
		Height:  15,
	}
}

func (m ColumnPickerModel) Init() tea.Cmd {
	return nil
}

func (m ColumnPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Columns)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ":
			m.Checked[m.Cursor] = !m.Checked[m.Cursor]
		case "a":
			all := m.allChecked()
			for i := range m.Columns {
				m.Checked[i] = !all
			}
		case "enter":
			if len(m.Selection()) == 0 {
				return m, nil
			}
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ColumnPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Set Columns"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ confirm  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Columns) {
		end = len(m.Columns)
	}

	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		check := "[ ]"
		if m.Checked[i] {
			check = "[" + StyleSuccess.Render("x") + "]"
		}

		line := fmt.Sprintf("%s%s %s", cursor, check, m.Columns[i])
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else if m.Checked[i] {
			b.WriteString(listNormalStyle.Render(line))
		} else {
			b.WriteString(listDimStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d of %d selected", len(m.Selection()), len(m.Columns))))

	return b.String()
}

// Selection returns the checked column names in their original order.
func (m ColumnPickerModel) Selection() []string {
	var out []string
	for i, col := range m.Columns {
		if m.Checked[i] {
			out = append(out, col)
		}
	}
	return out
}

func (m ColumnPickerModel) allChecked() bool {
	for i := range m.Columns {
		if !m.Checked[i] {
			return false
		}
	}
	return len(m.Columns) > 0
}

// pickSetColumns runs the interactive picker and returns the chosen columns.
// Returns an empty slice if the user quits without confirming.
func pickSetColumns(candidates []string) ([]string, error) {
	model := NewColumnPickerModel(candidates)
	p := tea.NewProgram(model)

	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	result, ok := final.(ColumnPickerModel)
	if !ok || !result.Confirmed {
		return nil, nil
	}
	return result.Selection(), nil
}
