// Package content holds the read-only specimen catalogue.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed specimens.yaml
var defaultSpecimens []byte

// Load errors.
var (
	ErrEmptyKey     = errors.New("specimen key is empty")
	ErrInvalidKey   = errors.New("specimen key must be lower-case letters, digits and hyphens")
	ErrDuplicateKey = errors.New("duplicate specimen key")
	ErrMissingMedia = errors.New("specimen has no video or model file")
	ErrInvalidFile  = errors.New("media file name must not contain a path")
	ErrNoSpecimens  = errors.New("content file defines no specimens")
)

var keyRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Specimen is one museum exhibit.
type Specimen struct {
	Key         string `yaml:"key"`
	Title       string `yaml:"-"`
	SpecimenID  string `yaml:"specimen_id"`
	Diagnosis   string `yaml:"diagnosis"`
	Description string `yaml:"description"`
	Video       string `yaml:"video"`
	Model       string `yaml:"model"`
}

type contentFile struct {
	Specimens []Specimen `yaml:"specimens"`
}

// Registry maps specimen keys to their content. It is immutable after
// construction and safe for concurrent use.
type Registry struct {
	byKey  map[string]Specimen
	sorted []Specimen
}

// Default returns the registry built from the embedded specimen file.
func Default() (*Registry, error) {
	return Load(bytes.NewReader(defaultSpecimens))
}

// LoadFile reads a specimen file from disk.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open content file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load parses a specimen YAML document and validates every entry.
func Load(r io.Reader) (*Registry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file contentFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoSpecimens
		}
		return nil, fmt.Errorf("decode content file: %w", err)
	}

	return New(file.Specimens)
}

// New builds a registry from specimens. Titles are derived from keys.
func New(specimens []Specimen) (*Registry, error) {
	if len(specimens) == 0 {
		return nil, ErrNoSpecimens
	}

	reg := &Registry{byKey: make(map[string]Specimen, len(specimens))}
	for i, s := range specimens {
		if err := validate(s); err != nil {
			return nil, fmt.Errorf("specimen %d (%q): %w", i, s.Key, err)
		}
		if _, ok := reg.byKey[s.Key]; ok {
			return nil, fmt.Errorf("specimen %q: %w", s.Key, ErrDuplicateKey)
		}

		s.Title = Title(s.Key)
		s.Description = strings.TrimSpace(s.Description)
		reg.byKey[s.Key] = s
		reg.sorted = append(reg.sorted, s)
	}

	slices.SortFunc(reg.sorted, func(a, b Specimen) int {
		return strings.Compare(a.Key, b.Key)
	})

	return reg, nil
}

func validate(s Specimen) error {
	switch {
	case s.Key == "":
		return ErrEmptyKey
	case !keyRegex.MatchString(s.Key):
		return ErrInvalidKey
	case s.Video == "" || s.Model == "":
		return ErrMissingMedia
	case strings.ContainsAny(s.Video, `/\`) || strings.ContainsAny(s.Model, `/\`):
		return ErrInvalidFile
	}
	return nil
}

// Lookup returns the specimen for key.
func (r *Registry) Lookup(key string) (Specimen, bool) {
	s, ok := r.byKey[key]
	return s, ok
}

// Describe returns the specimen's HTML description.
func (r *Registry) Describe(key string) (string, bool) {
	s, ok := r.byKey[key]
	return s.Description, ok
}

// VideoFor returns the specimen's video file name.
func (r *Registry) VideoFor(key string) (string, bool) {
	s, ok := r.byKey[key]
	return s.Video, ok
}

// ModelFor returns the specimen's 3D model file name.
func (r *Registry) ModelFor(key string) (string, bool) {
	s, ok := r.byKey[key]
	return s.Model, ok
}

// Specimens returns every specimen sorted by key. The slice is a copy.
func (r *Registry) Specimens() []Specimen {
	return slices.Clone(r.sorted)
}

// Len returns the number of specimens.
func (r *Registry) Len() int {
	return len(r.sorted)
}
