package tui

import (
	"fmt"

	"github.com/brizzai/specfetch/internal/apidef"
)

// RouteItem is one route in the editor list. It implements list.Item.
type RouteItem struct {
	Name           string
	Route          apidef.RouteSpec
	NewDescription string
	Hidden         bool
}

func (i RouteItem) Title() string {
	return fmt.Sprintf("%s  %s %s", i.Name, i.Route.Method, i.Route.URL)
}

func (i RouteItem) Description() string {
	if i.Hidden {
		return removedStyle.Render("[hidden]")
	}
	if i.NewDescription != "" {
		return i.NewDescription
	}
	return i.Route.Description
}

func (i RouteItem) FilterValue() string {
	return i.Name + " " + i.Route.URL + " " + i.Route.Description
}

func (i RouteItem) withDescription(d string) RouteItem {
	i.NewDescription = d
	return i
}

func (i RouteItem) toggleHidden() RouteItem {
	i.Hidden = !i.Hidden
	return i
}
