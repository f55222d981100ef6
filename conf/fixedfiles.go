package conf

import (
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v3"
)

// FixedFile is one entry of the fixed-file mapping table: a static,
// cycle-independent dataset staged into every cycle working directory.
type FixedFile struct {
	// Name is the file name the model expects.
	Name string `yaml:"name"`

	// Source is the file location, relative to the fix directory.
	Source string `yaml:"source"`

	// Dest is the subdirectory of the working directory the file is
	// staged into. Empty means the working directory itself.
	Dest string `yaml:"dest"`

	// Optional entries are skipped silently when the source is absent.
	Optional Flag `yaml:"optional"`
}

// FixedFileTable ...
type FixedFileTable struct {
	Files []FixedFile `yaml:"files"`
}

// LoadFixedFiles reads and validates the YAML fixed-file mapping table.
// Every Name must be unique.
func LoadFixedFiles(path string) (*FixedFileTable, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read fixed-file table `%s`: %w", path, err)
	}

	var table FixedFileTable
	if err := yaml.Unmarshal(buf, &table); err != nil {
		return nil, fmt.Errorf("malformed fixed-file table `%s`: %w", path, err)
	}

	seen := map[string]bool{}
	for _, f := range table.Files {
		if f.Name == "" || f.Source == "" {
			return nil, fmt.Errorf("fixed-file table `%s`: every entry needs name and source", path)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("fixed-file table `%s`: duplicate name `%s`", path, f.Name)
		}
		seen[f.Name] = true
	}

	return &table, nil
}
