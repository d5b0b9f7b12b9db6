package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"soa-backend/internal/models"
	"soa-backend/internal/soa"
)

// MergeList accepts merge groups written as {master, aliases} mappings, as
// lists whose first element is the master, or as one master to aliases
// mapping. Document order is kept in every form.
type MergeList []models.MergeGroup

func (m *MergeList) UnmarshalYAML(node *yaml.Node) error {
	var lists [][]string
	switch node.Kind {
	case yaml.SequenceNode:
		for _, item := range node.Content {
			switch item.Kind {
			case yaml.MappingNode:
				var g models.MergeGroup
				if err := item.Decode(&g); err != nil {
					return err
				}
				lists = append(lists, g.Members())
			case yaml.SequenceNode:
				var names []string
				if err := item.Decode(&names); err != nil {
					return err
				}
				lists = append(lists, names)
			case yaml.ScalarNode:
				lists = append(lists, []string{item.Value})
			default:
				return fmt.Errorf("line %d: unsupported merge entry", item.Line)
			}
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			names := []string{key.Value}
			switch value.Kind {
			case yaml.SequenceNode:
				var aliases []string
				if err := value.Decode(&aliases); err != nil {
					return err
				}
				names = append(names, aliases...)
			case yaml.ScalarNode:
				if value.Value != "" {
					names = append(names, value.Value)
				}
			default:
				return fmt.Errorf("line %d: aliases of %q must be a list", value.Line, key.Value)
			}
			lists = append(lists, names)
		}
	case yaml.ScalarNode:
		if node.Tag != "!!null" {
			return fmt.Errorf("line %d: merge must be a list or a mapping", node.Line)
		}
	default:
		return fmt.Errorf("line %d: merge must be a list or a mapping", node.Line)
	}
	*m = soa.GroupsFromLists(lists)
	return nil
}

// PipelineReference is the account reference data for one pipeline
type PipelineReference struct {
	Merge   MergeList         `yaml:"merge"`
	Folders map[string]string `yaml:"folders"`
	// Rename gives merged statements a display name, keyed by group member
	Rename map[string]string `yaml:"rename"`
}

// Reference maps pipeline names to their reference data
type Reference map[string]PipelineReference

func referenceKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "")
}

// For returns the reference data of a pipeline, empty when none is configured
func (r Reference) For(pipeline string) PipelineReference {
	want := referenceKey(pipeline)
	for k, v := range r {
		if referenceKey(k) == want {
			return v
		}
	}
	return PipelineReference{}
}

// ParseReference decodes a reference document
func ParseReference(data []byte) (Reference, error) {
	ref := Reference{}
	if err := yaml.Unmarshal(data, &ref); err != nil {
		return nil, fmt.Errorf("invalid reference file: %w", err)
	}
	return ref, nil
}

// LoadReference reads the reference file at path. It is read on every run
// so edits apply without a restart. A missing file yields empty data.
func LoadReference(path string) (Reference, error) {
	if path == "" {
		return Reference{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Reference{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read reference file %s: %w", path, err)
	}
	return ParseReference(data)
}
