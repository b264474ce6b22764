package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// descriptionEditor is the textarea shown while editing a description.
type descriptionEditor struct {
	textarea textarea.Model
}

func newDescriptionEditor(initial string) descriptionEditor {
	ta := textarea.New()
	ta.Placeholder = "Describe what this route does..."
	ta.SetValue(initial)
	ta.Focus()
	return descriptionEditor{textarea: ta}
}

func (e descriptionEditor) Update(msg tea.Msg) (descriptionEditor, tea.Cmd) {
	var cmds []tea.Cmd
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyCtrlC:
			return e, tea.Quit
		case tea.KeyEsc:
			e.textarea.Blur()
		default:
			if !e.textarea.Focused() {
				cmds = append(cmds, e.textarea.Focus())
			}
		}
	}

	var cmd tea.Cmd
	e.textarea, cmd = e.textarea.Update(msg)
	cmds = append(cmds, cmd)
	return e, tea.Batch(cmds...)
}

func (e descriptionEditor) Value() string {
	return e.textarea.Value()
}

func (e descriptionEditor) View(title string) string {
	return fmt.Sprintf("%s\n\n%s\n\n(ctrl+s to save)\n\n", editHeaderStyle.Render(title), e.textarea.View())
}
