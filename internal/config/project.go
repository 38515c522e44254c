package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/raca159/simple-label-maker/internal/label"
)

// projectFile mirrors the YAML project definition on disk.
type projectFile struct {
	Name              string           `yaml:"name"`
	Description       string           `yaml:"description"`
	AnnotationsPath   string           `yaml:"annotationsPath"`
	DataPath          string           `yaml:"dataPath"`
	DefaultSampleType label.SampleType `yaml:"defaultSampleType"`
	Samples           []label.Sample   `yaml:"samples"`
}

// LoadProject reads and validates a YAML project definition.
// Missing paths default to "annotations" and "data"; samples without a type
// get the project default.
func LoadProject(path string) (*label.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open project file: %w", err)
	}

	var pf projectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing project file %s: %w", path, err)
	}

	if pf.AnnotationsPath == "" {
		pf.AnnotationsPath = "annotations"
	}
	if pf.DataPath == "" {
		pf.DataPath = "data"
	}

	seen := make(map[string]struct{}, len(pf.Samples))
	for i := range pf.Samples {
		s := &pf.Samples[i]
		if s.ID == "" {
			return nil, fmt.Errorf("project file %s: sample %d has no id", path, i)
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("project file %s: duplicate sample id %q", path, s.ID)
		}
		seen[s.ID] = struct{}{}

		if s.FileName == "" {
			return nil, fmt.Errorf("project file %s: sample %q has no fileName", path, s.ID)
		}
		if s.Type == "" {
			s.Type = pf.DefaultSampleType
		}
		if !s.Type.Valid() {
			return nil, fmt.Errorf("project file %s: sample %q has unknown type %q", path, s.ID, s.Type)
		}
	}

	return &label.Project{
		Name:            pf.Name,
		Description:     pf.Description,
		AnnotationsPath: pf.AnnotationsPath,
		DataPath:        pf.DataPath,
		Samples:         pf.Samples,
	}, nil
}
