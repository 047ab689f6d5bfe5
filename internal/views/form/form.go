// Package form is a small helper for the record-editing screens: an
// ordered set of text inputs and option toggles with shared focus
// navigation and rendering.
package form

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobsetu/admin-tui/internal/theme"
)

// Field is one form row: either a text input or an option toggle.
type Field struct {
	Label     string
	Input     textinput.Model
	IsToggle  bool
	Options   []string
	OptionIdx int
}

// Text creates a text input field.
func Text(label, placeholder, value string, width int) Field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.SetValue(value)
	ti.CharLimit = 256
	ti.Width = width
	return Field{Label: label, Input: ti}
}

// Toggle creates an option toggle field cycled with space or left/right.
func Toggle(label string, options []string, selected string) Field {
	idx := 0
	for i, opt := range options {
		if opt == selected {
			idx = i
			break
		}
	}
	return Field{Label: label, IsToggle: true, Options: options, OptionIdx: idx}
}

// Model is the form state.
type Model struct {
	Fields []Field
	focus  int
}

// New creates a form over the given fields with the first one focused.
func New(fields ...Field) Model {
	m := Model{Fields: fields}
	for i := range m.Fields {
		m.Fields[i].Input.Blur()
	}
	if len(m.Fields) > 0 && !m.Fields[0].IsToggle {
		m.Fields[0].Input.Focus()
	}
	return m
}

// Value returns the text of field i (empty for toggles).
func (m Model) Value(i int) string {
	if i < 0 || i >= len(m.Fields) || m.Fields[i].IsToggle {
		return ""
	}
	return strings.TrimSpace(m.Fields[i].Input.Value())
}

// Option returns the selected option of toggle field i.
func (m Model) Option(i int) string {
	if i < 0 || i >= len(m.Fields) || !m.Fields[i].IsToggle {
		return ""
	}
	return m.Fields[i].Options[m.Fields[i].OptionIdx]
}

// Update handles focus navigation and input editing.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return m.move(1), nil
		case "shift+tab", "up":
			return m.move(-1), nil
		case " ", "left", "right":
			if f := &m.Fields[m.focus]; f.IsToggle {
				step := 1
				if key.String() == "left" {
					step = len(f.Options) - 1
				}
				f.OptionIdx = (f.OptionIdx + step) % len(f.Options)
				return m, nil
			}
		}
	}

	if m.focus < len(m.Fields) && !m.Fields[m.focus].IsToggle {
		var cmd tea.Cmd
		m.Fields[m.focus].Input, cmd = m.Fields[m.focus].Input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) move(step int) Model {
	if len(m.Fields) == 0 {
		return m
	}
	if !m.Fields[m.focus].IsToggle {
		m.Fields[m.focus].Input.Blur()
	}
	m.focus = (m.focus + step + len(m.Fields)) % len(m.Fields)
	if !m.Fields[m.focus].IsToggle {
		m.Fields[m.focus].Input.Focus()
	}
	return m
}

// View renders the form rows with the focused one highlighted.
func (m Model) View() string {
	labelStyle := theme.StyleDimmed.Width(18)
	var lines []string
	for i, f := range m.Fields {
		cursor := "  "
		if i == m.focus {
			cursor = lipgloss.NewStyle().Foreground(theme.ColorAccent).Render("> ")
		}
		var value string
		if f.IsToggle {
			var opts []string
			for j, opt := range f.Options {
				if j == f.OptionIdx {
					opts = append(opts, theme.StyleSelected.Render("["+opt+"]"))
				} else {
					opts = append(opts, theme.StyleDimmed.Render(" "+opt+" "))
				}
			}
			value = strings.Join(opts, " ")
		} else {
			value = f.Input.View()
		}
		lines = append(lines, fmt.Sprintf("%s%s %s", cursor, labelStyle.Render(f.Label), value))
	}
	lines = append(lines, "")
	lines = append(lines, theme.StyleDimmed.Render("  tab:next field  space:toggle  ctrl+s:save  esc:cancel"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
