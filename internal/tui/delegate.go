package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

type delegateKeyMap struct {
	toggle key.Binding
}

func newDelegateKeyMap() *delegateKeyMap {
	return &delegateKeyMap{
		toggle: key.NewBinding(
			key.WithKeys("x", "backspace"),
			key.WithHelp("x", "hide/expose route"),
		),
	}
}

// newItemDelegate renders route items and toggles their visibility.
func newItemDelegate(keys *delegateKeyMap) list.DefaultDelegate {
	d := list.NewDefaultDelegate()

	d.UpdateFunc = func(msg tea.Msg, m *list.Model) tea.Cmd {
		item, ok := m.SelectedItem().(RouteItem)
		if !ok {
			return nil
		}
		keyMsg, ok := msg.(tea.KeyMsg)
		if !ok || !key.Matches(keyMsg, keys.toggle) {
			return nil
		}

		updated := item.toggleHidden()
		m.SetItem(m.GlobalIndex(), updated)
		if updated.Hidden {
			return m.NewStatusMessage(statusMessageStyle("Hid " + item.Name))
		}
		return m.NewStatusMessage(statusMessageStyle("Exposed " + item.Name))
	}

	help := []key.Binding{keys.toggle}
	d.ShortHelpFunc = func() []key.Binding { return help }
	d.FullHelpFunc = func() [][]key.Binding { return [][]key.Binding{help} }
	return d
}
