package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"docmatch/internal"
)

type catalogFile struct {
	Templates []internal.TemplateCandidate `yaml:"templates"`
}

// LoadCatalog reads a template catalog. JSON is valid YAML, so both formats
// go through the same decoder.
func LoadCatalog(path string) ([]internal.TemplateCandidate, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file catalogFile
	if err := yaml.Unmarshal(blob, &file); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	seen := map[string]struct{}{}
	for _, tmpl := range file.Templates {
		if tmpl.ID == "" {
			return nil, fmt.Errorf("catalog %s: template without id", path)
		}
		if _, dup := seen[tmpl.ID]; dup {
			return nil, fmt.Errorf("catalog %s: duplicate template id %s", path, tmpl.ID)
		}
		seen[tmpl.ID] = struct{}{}
	}
	return file.Templates, nil
}
