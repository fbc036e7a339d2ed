package policy

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk shape of a catalog override. Targets replace
// same-named defaults; unknown names append in file order after the defaults.
type catalogFile struct {
	Targets []ArchetypeTarget `yaml:"targets"`
}

// ParseCatalogYAML decodes a catalog override payload. Decoding is strict:
// unknown fields are rejected so a typoed key fails loudly instead of being
// silently ignored.
func ParseCatalogYAML(data []byte, base Catalog) (Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("catalog: override payload is empty")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var file catalogFile
	if err := dec.Decode(&file); err != nil {
		return nil, errors.Wrap(err, "catalog: decode override")
	}
	if len(file.Targets) == 0 {
		return nil, errors.New("catalog: override declares no targets")
	}

	merged := make(Catalog, len(base))
	copy(merged, base)
	for _, t := range file.Targets {
		replaced := false
		for i := range merged {
			if merged[i].Name == t.Name {
				if t.Rationale == "" {
					t.Rationale = merged[i].Rationale
				}
				merged[i] = t
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, t)
		}
	}
	return merged, nil
}

// LoadCatalogFile reads a YAML catalog override from disk and merges it over
// the base catalog.
func LoadCatalogFile(path string, base Catalog) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog: read %s", path)
	}
	merged, err := ParseCatalogYAML(data, base)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog: %s", path)
	}
	return merged, nil
}
