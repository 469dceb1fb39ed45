package discovery

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type manifest struct {
	Constants []constantEntry `yaml:"constants"`
	Aliases   []aliasEntry    `yaml:"aliases"`
}

type constantEntry struct {
	Name  string   `yaml:"name"`
	Value any      `yaml:"value"`
	Tags  []string `yaml:"tags"`
}

type aliasEntry struct {
	Name  string `yaml:"name"`
	Alias string `yaml:"alias"`
}

// ParseManifest decodes and validates a YAML manifest, which may hold
// several documents. source labels the entries for error messages. Unknown
// keys are rejected.
func ParseManifest(data []byte, source string) (Set, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Set{}, fmt.Errorf("discovery: %s: manifest is empty", source)
	}

	// Documents separated by "---" are concatenated in order.
	var m manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	for doc := 1; ; doc++ {
		var part manifest
		if err := dec.Decode(&part); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Set{}, fmt.Errorf("discovery: %s: decode manifest document %d: %w", source, doc, err)
		}
		m.Constants = append(m.Constants, part.Constants...)
		m.Aliases = append(m.Aliases, part.Aliases...)
	}

	var set Set
	for idx, c := range m.Constants {
		def := Definition{
			Name:   c.Name,
			Value:  c.Value,
			Tags:   c.Tags,
			Source: fmt.Sprintf("%s#%d", source, idx+1),
		}
		if err := def.validate(); err != nil {
			return Set{}, fmt.Errorf("discovery: %s: %w", def.Source, err)
		}
		set.Definitions = append(set.Definitions, def)
	}
	for idx, a := range m.Aliases {
		alias := AliasDefinition{
			Name:   a.Name,
			Alias:  a.Alias,
			Source: fmt.Sprintf("%s#alias%d", source, idx+1),
		}
		if err := alias.validate(); err != nil {
			return Set{}, fmt.Errorf("discovery: %s: %w", alias.Source, err)
		}
		set.Aliases = append(set.Aliases, alias)
	}
	return set, nil
}

// LoadManifest reads and parses the YAML manifest at path.
func LoadManifest(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("discovery: read %s: %w", path, err)
	}
	return ParseManifest(data, path)
}
