package source

import (
	"context"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/kinfolk/kinctl/internal/people"
)

// FileSource reads the people collection from a local JSON or YAML file.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the file the source reads.
func (s *FileSource) Path() string {
	return s.path
}

// ListPeople reads and decodes the whole file on every call.
func (s *FileSource) ListPeople(ctx context.Context) ([]people.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(os.ExpandEnv(s.path))
	if err != nil {
		return nil, fmt.Errorf("failed to read people file: %w", err)
	}

	var out []people.Person
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode people file %s: %w", s.path, err)
	}
	people.EnsureSlugs(out)
	return out, nil
}
