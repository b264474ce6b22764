package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brizzai/specfetch/internal/apidef"
	"github.com/brizzai/specfetch/internal/catalog"
)

func loadTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	adjuster := catalog.NewAdjuster()
	require.NoError(t, adjuster.Load("../catalog/testdata/adjustments.yaml"))
	c, err := catalog.LoadFile("../catalog/testdata/catalog.yaml", adjuster)
	require.NoError(t, err)
	return c
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func names(items []RouteItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

func TestNewListPage_MarksHiddenRoutes(t *testing.T) {
	page := newListPage(loadTestCatalog(t))
	items := page.Items()

	require.Equal(t, []string{"login", "profile", "refresh"}, names(items))
	assert.False(t, items[0].Hidden)
	assert.False(t, items[1].Hidden)
	assert.True(t, items[2].Hidden)
	assert.Equal(t, "Fetch a user profile", items[1].Description())
}

func TestListPage_ToggleHidden(t *testing.T) {
	page := newListPage(loadTestCatalog(t))
	page, _ = page.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	page, _ = page.Update(runes("x"))
	assert.True(t, page.Items()[0].Hidden)

	page, _ = page.Update(runes("x"))
	assert.False(t, page.Items()[0].Hidden)
}

func TestListPage_EditDescription(t *testing.T) {
	page := newListPage(loadTestCatalog(t))
	page, _ = page.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	page, _ = page.Update(runes("e"))
	require.True(t, page.editing)
	assert.Equal(t, "Log in with username and password", page.editor.Value())

	page, _ = page.Update(runes("!"))
	page, _ = page.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.False(t, page.editing)
	assert.Equal(t, "Log in with username and password!", page.Items()[0].NewDescription)
}

func TestListPage_Finish(t *testing.T) {
	page := newListPage(loadTestCatalog(t))
	page, _ = page.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	_, cmd := page.Update(runes("f"))
	require.NotNil(t, cmd)
	done, ok := cmd().(DoneMsg)
	require.True(t, ok)
	assert.Len(t, done.Items, 3)
}

func TestAppModel_SwitchesPages(t *testing.T) {
	var m tea.Model = NewAppModel(loadTestCatalog(t), "out.yaml")

	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = m.Update(DoneMsg{Items: m.(AppModel).Items()})
	app := m.(AppModel)
	require.Equal(t, pageExport, app.page)
	assert.Equal(t, "out.yaml", app.export.input.Value())
	assert.Contains(t, app.View(), "Export adjustments")

	m, _ = m.Update(BackMsg{})
	assert.Equal(t, pageList, m.(AppModel).page)
}

func TestBuildAdjustments(t *testing.T) {
	route := apidef.RouteSpec{URL: "/a", Method: apidef.MethodGet, Description: "original"}

	t.Run("nothing hidden exposes everything", func(t *testing.T) {
		adj := BuildAdjustments([]RouteItem{
			{Name: "b", Route: route},
			{Name: "a", Route: route, NewDescription: "changed"},
		})
		assert.Empty(t, adj.Routes)
		assert.Equal(t, []catalog.RouteDescription{{Name: "a", NewDescription: "changed"}}, adj.Descriptions)
	})

	t.Run("hidden routes are left out", func(t *testing.T) {
		adj := BuildAdjustments([]RouteItem{
			{Name: "c", Route: route},
			{Name: "b", Route: route, Hidden: true, NewDescription: "ignored"},
			{Name: "a", Route: route, NewDescription: "original"},
		})
		assert.Equal(t, []catalog.RouteSelection{{Name: "a"}, {Name: "c"}}, adj.Routes)
		assert.Empty(t, adj.Descriptions)
	})
}

func TestWriteAdjustments_RoundTrip(t *testing.T) {
	route := apidef.RouteSpec{URL: "/users", Method: apidef.MethodPost}
	items := []RouteItem{
		{Name: "createUser", Route: route, NewDescription: "Create a user"},
		{Name: "deleteUser", Route: route, Hidden: true},
	}

	file := filepath.Join(t.TempDir(), "adjustments.yaml")
	require.NoError(t, WriteAdjustments(items, file))

	adjuster := catalog.NewAdjuster()
	require.NoError(t, adjuster.Load(file))
	assert.True(t, adjuster.Selected("createUser", "/users", "POST"))
	assert.False(t, adjuster.Selected("deleteUser", "/users", "POST"))
	assert.Equal(t, "Create a user", adjuster.Description("createUser", "/users", "POST", ""))
}
