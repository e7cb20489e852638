// Package presets loads named filter criteria from YAML.
package presets

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/hishmat-dev/job-listing-app/internal/models"
)

// Preset is a saved set of filter criteria.
type Preset struct {
	Name        string                `yaml:"name" json:"name"`
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Criteria    models.FilterCriteria `yaml:"criteria" json:"criteria"`
}

type file struct {
	Presets []Preset `yaml:"presets"`
}

// Set is an ordered collection of presets with unique names.
type Set struct {
	list   []Preset
	byName map[string]int
}

var nameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Parse decodes and validates a presets document. Unknown keys are
// rejected. An empty document yields an empty set.
func Parse(r io.Reader) (*Set, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode presets: %w", err)
	}

	s := &Set{byName: make(map[string]int, len(f.Presets))}
	var errs []error
	for i, p := range f.Presets {
		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("preset %d: %w", i+1, err))
			continue
		}
		if _, dup := s.byName[p.Name]; dup {
			errs = append(errs, fmt.Errorf("preset %d: duplicate name %q", i+1, p.Name))
			continue
		}
		if p.Criteria.Sort == "" {
			p.Criteria.Sort = models.DefaultSort
		}
		s.byName[p.Name] = len(s.list)
		s.list = append(s.list, p)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return s, nil
}

// LoadFile reads presets from path.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	s, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks the name and that every enumerated criterion is known.
func (p Preset) Validate() error {
	if !nameRe.MatchString(p.Name) {
		return fmt.Errorf("invalid name %q: use lowercase letters, digits, '-' and '_'", p.Name)
	}
	c := p.Criteria
	if c.JobType != "" && !c.JobType.IsValid() {
		return fmt.Errorf("%s: unknown job_type %q", p.Name, c.JobType)
	}
	if !c.DateRange.IsValid() {
		return fmt.Errorf("%s: unknown date_range %q", p.Name, c.DateRange)
	}
	if c.Sort != "" && !c.Sort.IsValid() {
		return fmt.Errorf("%s: unknown sort %q", p.Name, c.Sort)
	}
	return nil
}

// Defaults are offered when no presets file is configured.
func Defaults() *Set {
	s, err := Parse(bytes.NewReader([]byte(defaultYAML)))
	if err != nil {
		panic(fmt.Sprintf("default presets: %v", err))
	}
	return s
}

const defaultYAML = `
presets:
  - name: newest
    description: Everything, newest first
    criteria: {}
  - name: this-week
    description: Posted in the last seven days
    criteria:
      date_range: week
  - name: internships
    description: Internships, most recent first
    criteria:
      job_type: Internship
  - name: contracts-a-z
    description: Contract roles by company
    criteria:
      job_type: Contract
      sort: company_asc
`

// List returns the presets in file order.
func (s *Set) List() []Preset {
	return append([]Preset(nil), s.list...)
}

// Names returns preset names sorted alphabetically.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.list))
	for _, p := range s.list {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// Get looks a preset up by name.
func (s *Set) Get(name string) (Preset, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Preset{}, false
	}
	return s.list[i], true
}

// Len returns the number of presets.
func (s *Set) Len() int {
	return len(s.list)
}
