// Package tui is the interactive editor behind `specfetch adjust`: it
// lets the user hide routes and rewrite descriptions, then exports an
// adjustments file.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/brizzai/specfetch/internal/catalog"
)

type page int

const (
	pageList page = iota
	pageExport
)

// AppModel switches between the route list and the export page.
type AppModel struct {
	list     listPage
	export   exportPage
	page     page
	output   string
	lastSize tea.WindowSizeMsg
}

// NewAppModel builds the editor for c. output is the suggested export file.
func NewAppModel(c *catalog.Catalog, output string) AppModel {
	return AppModel{list: newListPage(c), page: pageList, output: output}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case DoneMsg:
		m.page = pageExport
		m.export = newExportPage(msg.Items, m.output)
		m.export, _ = m.export.Update(m.lastSize)
		return m, m.export.Init()
	case BackMsg:
		m.page = pageList
		return m, nil
	case tea.WindowSizeMsg:
		m.lastSize = msg
		var listCmd, exportCmd tea.Cmd
		m.list, listCmd = m.list.Update(msg)
		m.export, exportCmd = m.export.Update(msg)
		return m, tea.Batch(listCmd, exportCmd)
	}

	switch m.page {
	case pageExport:
		m.export, cmd = m.export.Update(msg)
	default:
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m AppModel) View() string {
	if m.page == pageExport {
		return m.export.View()
	}
	return m.list.View()
}

// Items returns the edited route items.
func (m AppModel) Items() []RouteItem {
	return m.list.Items()
}

// Exported reports whether an adjustments file was written.
func (m AppModel) Exported() bool {
	return m.export.success
}
