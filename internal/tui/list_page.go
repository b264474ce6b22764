package tui

import (
	"sort"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/brizzai/specfetch/internal/catalog"
)

type listKeyMap struct {
	edit   key.Binding
	save   key.Binding
	finish key.Binding
	quit   key.Binding
}

func newListKeyMap() *listKeyMap {
	return &listKeyMap{
		edit: key.NewBinding(
			key.WithKeys("E", "e"),
			key.WithHelp("e", "edit description"),
		),
		save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		finish: key.NewBinding(
			key.WithKeys("F", "f"),
			key.WithHelp("f", "finish"),
		),
		quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// DoneMsg is sent when the user finishes editing.
type DoneMsg struct {
	Items []RouteItem
}

// listPage is the route list with an optional description editor on top.
type listPage struct {
	list      list.Model
	keys      *listKeyMap
	editing   bool
	editIndex int
	editor    descriptionEditor
}

// newListPage lists every route of the catalog, marking the ones the
// current adjustments hide.
func newListPage(c *catalog.Catalog) listPage {
	exposed := map[string]bool{}
	for _, name := range c.ExposedRoutes() {
		exposed[name] = true
	}

	names := c.API.RouteNames()
	sort.Strings(names)
	items := make([]list.Item, len(names))
	for i, name := range names {
		items[i] = RouteItem{
			Name:   name,
			Route:  c.API.Routes[name],
			Hidden: !exposed[name],
		}
	}

	keys := newListKeyMap()
	l := list.New(items, newItemDelegate(newDelegateKeyMap()), 0, 0)
	l.Title = titleStyle.Render("Route catalog editor")
	l.SetShowFilter(true)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.edit, keys.finish, keys.quit}
	}
	return listPage{list: l, keys: keys, editIndex: -1}
}

func (m listPage) Update(msg tea.Msg) (listPage, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(size.Width-h, size.Height-v)
	}
	if m.editing {
		return m.updateEditing(msg)
	}
	return m.updateList(msg)
}

func (m listPage) updateEditing(msg tea.Msg) (listPage, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.save) {
		m.editing = false
		item, ok := m.list.Items()[m.editIndex].(RouteItem)
		if !ok {
			return m, nil
		}
		if d := m.editor.Value(); d != item.Description() {
			cmd := m.list.SetItem(m.editIndex, item.withDescription(d))
			return m, tea.Batch(cmd, m.list.NewStatusMessage(statusMessageStyle("Updated description of "+item.Name)))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m listPage) updateList(msg tea.Msg) (listPage, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(keyMsg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(keyMsg, m.keys.edit):
			item, ok := m.list.SelectedItem().(RouteItem)
			if !ok {
				return m, nil
			}
			if item.Hidden {
				return m, m.list.NewStatusMessage(statusMessageStyle("Hidden routes cannot be edited"))
			}
			m.editing = true
			m.editIndex = m.list.GlobalIndex()
			m.editor = newDescriptionEditor(item.Description())
			return m, nil
		case key.Matches(keyMsg, m.keys.finish):
			items := m.Items()
			return m, func() tea.Msg { return DoneMsg{Items: items} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m listPage) View() string {
	if m.editing {
		item, _ := m.list.Items()[m.editIndex].(RouteItem)
		return docStyle.Render(m.editor.View(item.Title()))
	}
	return docStyle.Render(m.list.View())
}

// Items returns every route item, filtered or not.
func (m listPage) Items() []RouteItem {
	all := m.list.Items()
	out := make([]RouteItem, 0, len(all))
	for _, it := range all {
		if item, ok := it.(RouteItem); ok {
			out = append(out, item)
		}
	}
	return out
}
