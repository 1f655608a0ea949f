package formatters

import (
	"fmt"
	"sort"

	"github.com/a3tai/vf-reader/internal/exam"
)

// Options controls how a record is rendered
type Options struct {
	Detailed bool // list every extracted field
	NoColor  bool // disable coloured text output
}

// Formatter renders a parsed report for output
type Formatter interface {
	// Format renders rec, read from path
	Format(path string, rec *exam.Record, options Options) (string, error)

	// Name returns the name of the formatter (e.g., "text", "yaml")
	Name() string
}

// Registry holds all registered formatters
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry creates a registry with the text, yaml and json formatters
func NewRegistry() *Registry {
	r := &Registry{formatters: make(map[string]Formatter)}
	r.Register(NewTextFormatter())
	r.Register(NewYAMLFormatter())
	r.Register(NewJSONFormatter())
	return r
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) {
	r.formatters[formatter.Name()] = formatter
}

// Get retrieves a formatter by name
func (r *Registry) Get(name string) (Formatter, error) {
	formatter, ok := r.formatters[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format: %s", name)
	}
	return formatter, nil
}

// List returns all registered formatter names in sorted order
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
