package registry

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/jrpboutique/loom/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// fileSchema is the on-disk shape of a category definition file.
type fileSchema struct {
	Categories []model.CategoryDefinition `yaml:"categories"`
	Relations  map[string][]string        `yaml:"relations"`
	Colors     []string                   `yaml:"colors"`
	Fallback   Fallback                   `yaml:"fallback"`
}

// LoadDefault builds the registry from the embedded boutique category set.
func LoadDefault() (*Registry, error) {
	return loadBytes(defaultsYAML)
}

// LoadFile builds a registry from a YAML category definition file.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category file: %w", err)
	}
	reg, err := loadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("invalid category file %s: %w", path, err)
	}
	return reg, nil
}

func loadBytes(data []byte) (*Registry, error) {
	var schema fileSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse category definitions: %w", err)
	}
	return New(schema.Categories, schema.Relations, schema.Colors, schema.Fallback)
}
