package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/formwork/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Extensions lists the definition file extensions the Loader reads, in
// lookup order.
var Extensions = []string{".json", ".yaml", ".yml"}

// Loader implements ports.DefinitionLoader over a directory of definition
// files. The form id is the file name without its extension.
// Files are read on every call so edits are picked up on the next load.
type Loader struct {
	Dir string
}

// NewLoader creates a Loader reading from dir.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

// Get reads and decodes the definition of form id.
func (l *Loader) Get(id string) (domain.FormDefinition, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return domain.FormDefinition{}, fmt.Errorf("%w: %q", domain.ErrFormNotFound, id)
	}
	for _, ext := range Extensions {
		path := filepath.Join(l.Dir, id+ext)
		def, err := ReadDefinition(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return def, err
	}
	return domain.FormDefinition{}, fmt.Errorf("%w: %s", domain.ErrFormNotFound, id)
}

// List returns the ids of every definition file in the directory, sorted.
func (l *Loader) List() ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list definitions: %w", err)
	}

	seen := make(map[string]bool)
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id, ok := FormID(entry.Name())
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// FormID derives the form id from a definition file name. It reports false
// for files that are not definitions.
func FormID(name string) (string, bool) {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	for _, known := range Extensions {
		if strings.EqualFold(ext, known) {
			return strings.TrimSuffix(base, ext), true
		}
	}
	return "", false
}

// ReadDefinition decodes one definition file, choosing JSON or YAML by
// extension.
func ReadDefinition(path string) (domain.FormDefinition, error) {
	var def domain.FormDefinition

	data, err := os.ReadFile(path)
	if err != nil {
		return def, err
	}
	if err := DecodeDefinition(data, filepath.Ext(path), &def); err != nil {
		return def, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// DecodeDefinition decodes data as JSON when ext is ".json" and as YAML
// otherwise.
func DecodeDefinition(data []byte, ext string, def *domain.FormDefinition) error {
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, def); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidDefinition, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, def); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidDefinition, err)
	}
	return nil
}
