package catalog

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/brizzai/specfetch/internal/logger"
)

type RouteFieldUpdate struct {
	Method         string `yaml:"method"`
	NewDescription string `yaml:"new_description"`
}

// RouteDescription overrides descriptions by route name, or by path and
// method.
type RouteDescription struct {
	Name           string             `yaml:"name,omitempty"`
	Path           string             `yaml:"path,omitempty"`
	NewDescription string             `yaml:"new_description,omitempty"`
	Updates        []RouteFieldUpdate `yaml:"updates,omitempty"`
}

type RouteSelection struct {
	Name    string   `yaml:"name,omitempty"`
	Path    string   `yaml:"path,omitempty"`
	Methods []string `yaml:"methods,omitempty"`
}

type Adjustments struct {
	Descriptions []RouteDescription `yaml:"descriptions,omitempty"`
	Routes       []RouteSelection   `yaml:"routes,omitempty"`
}

// Adjuster selects exposed routes and overrides their descriptions.
type Adjuster struct {
	adjustments *Adjustments
}

func NewAdjuster() *Adjuster {
	return &Adjuster{adjustments: &Adjustments{}}
}

// Load reads adjustments from a YAML file. A missing file is logged and
// ignored.
func (a *Adjuster) Load(filePath string) error {
	if filePath == "" {
		return nil
	}

	logger.Info("Loading adjustments from file", zap.String("file", filePath))
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		logger.Warn("Adjustments file not found", zap.String("file", filePath))
		return nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	var adjustments Adjustments
	if err := yaml.Unmarshal(data, &adjustments); err != nil {
		return err
	}
	a.adjustments = &adjustments
	return nil
}

// Selected reports whether a route is exposed. Everything is exposed when no
// selections are configured.
func (a *Adjuster) Selected(name, path, method string) bool {
	if a == nil || a.adjustments == nil || len(a.adjustments.Routes) == 0 {
		return true
	}

	for _, selection := range a.adjustments.Routes {
		if selection.Name != "" {
			if selection.Name == name {
				return true
			}
			continue
		}
		if selection.Path != path {
			continue
		}
		for _, m := range selection.Methods {
			if strings.EqualFold(m, method) {
				return true
			}
		}
	}
	return false
}

// Description returns the override for a route, or original when none
// applies.
func (a *Adjuster) Description(name, path, method, original string) string {
	if a == nil || a.adjustments == nil {
		return original
	}

	for _, desc := range a.adjustments.Descriptions {
		if desc.Name != "" && desc.Name == name {
			return desc.NewDescription
		}
		if desc.Path == "" || desc.Path != path {
			continue
		}
		for _, update := range desc.Updates {
			if strings.EqualFold(update.Method, method) {
				return update.NewDescription
			}
		}
	}
	return original
}
