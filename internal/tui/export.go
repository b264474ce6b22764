package tui

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"

	"github.com/brizzai/specfetch/internal/catalog"
)

// BackMsg returns from the export page to the route list.
type BackMsg struct{}

// exportPage prompts for a file name and writes the adjustments file.
type exportPage struct {
	items   []RouteItem
	input   textinput.Model
	width   int
	height  int
	status  string
	success bool
}

func newExportPage(items []RouteItem, suggested string) exportPage {
	ti := textinput.New()
	ti.Placeholder = "adjustments.yaml"
	ti.SetValue(suggested)
	ti.Focus()
	ti.Width = 40
	return exportPage{items: items, input: ti}
}

func (m exportPage) Init() tea.Cmd {
	return textinput.Blink
}

func (m exportPage) Update(msg tea.Msg) (exportPage, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			return m, func() tea.Msg { return BackMsg{} }
		case "enter":
			filename := strings.TrimSpace(m.input.Value())
			if filename == "" {
				m.status = "Please enter a file name"
				return m, nil
			}
			if !strings.HasSuffix(filename, ".yaml") && !strings.HasSuffix(filename, ".yml") {
				filename += ".yaml"
			}
			if err := WriteAdjustments(m.items, filename); err != nil {
				m.status = fmt.Sprintf("Error exporting: %v", err)
				return m, nil
			}
			m.success = true
			m.status = completeMessageStyle("Exported adjustments to " + filename)
			return m, tea.Tick(time.Second, func(time.Time) tea.Msg { return tea.Quit() })
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m exportPage) View() string {
	var sb strings.Builder
	for i := 0; i < (m.height-6)/2; i++ {
		sb.WriteString("\n")
	}
	lines := []string{
		titleStyle.Render("Export adjustments"),
		"",
		"File name:",
		m.input.View(),
		"",
		m.status,
		"",
		"(esc) back | (enter) export",
	}
	for _, line := range lines {
		sb.WriteString(centerText(line, m.width))
		sb.WriteString("\n")
	}
	return sb.String()
}

// BuildAdjustments selects exposed routes by name and records changed
// descriptions. When nothing is hidden no selection is written, which
// exposes every route.
func BuildAdjustments(items []RouteItem) catalog.Adjustments {
	var adj catalog.Adjustments
	hidden := 0
	for _, item := range items {
		if item.Hidden {
			hidden++
			continue
		}
		adj.Routes = append(adj.Routes, catalog.RouteSelection{Name: item.Name})
		if item.NewDescription != "" && item.NewDescription != item.Route.Description {
			adj.Descriptions = append(adj.Descriptions, catalog.RouteDescription{
				Name:           item.Name,
				NewDescription: item.NewDescription,
			})
		}
	}
	if hidden == 0 {
		adj.Routes = nil
	}
	sort.Slice(adj.Routes, func(i, j int) bool { return adj.Routes[i].Name < adj.Routes[j].Name })
	sort.Slice(adj.Descriptions, func(i, j int) bool { return adj.Descriptions[i].Name < adj.Descriptions[j].Name })
	return adj
}

// WriteAdjustments writes the adjustments for items as YAML.
func WriteAdjustments(items []RouteItem, filename string) error {
	data, err := yaml.Marshal(BuildAdjustments(items))
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

func centerText(text string, width int) string {
	if width <= len(text) {
		return text
	}
	return strings.Repeat(" ", (width-len(text))/2) + text
}
