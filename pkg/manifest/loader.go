package manifest

import (
	"fmt"
	"os"

	"github.com/architect-io/shipctl/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Loader parses and validates deployment manifests.
type Loader struct {
	validator *Validator
}

// NewLoader creates a new manifest loader.
func NewLoader() *Loader {
	return &Loader{validator: NewValidator()}
}

// Load parses a manifest from the given path.
func (l *Loader) Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, fmt.Sprintf("failed to read %s", path), err)
	}

	m, err := l.LoadFromBytes(data, path)
	if err != nil {
		return nil, err
	}

	m.SourcePath = path
	return m, nil
}

// LoadFromBytes parses a manifest from raw bytes.
func (l *Loader) LoadFromBytes(data []byte, sourcePath string) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.ParseError(sourcePath, err)
	}

	validationErrors := l.validator.Validate(&m)
	if len(validationErrors) > 0 {
		all := make([]string, len(validationErrors))
		for i, ve := range validationErrors {
			all[i] = fmt.Sprintf("%s: %s", ve.Field, ve.Message)
		}
		return nil, errors.ValidationError(all[0], map[string]interface{}{
			"field":  validationErrors[0].Field,
			"errors": all,
		})
	}

	m.SourcePath = sourcePath
	return &m, nil
}
