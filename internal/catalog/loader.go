package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/brizzai/specfetch/internal/logger"
)

// Format is a catalog file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unsupported catalog file extension: %q", filepath.Ext(path))
}

// DecodeDocument parses data in the given format.
func DecodeDocument(data []byte, format Format) (*Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("unsupported catalog format: %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s catalog: %w", format, err)
	}
	return &doc, nil
}

// LoadFile reads a catalog file and applies adjustments to it. adjuster may
// be nil.
func LoadFile(path string, adjuster *Adjuster) (*Catalog, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	doc, err := DecodeDocument(data, format)
	if err != nil {
		return nil, err
	}
	api, err := doc.ToAPI()
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}

	logger.Info("Loaded route catalog",
		zap.String("file", path),
		zap.String("format", string(format)),
		zap.Int("routes", len(api.Routes)),
	)
	return newCatalog(api, adjuster), nil
}
