package formatters

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/a3tai/vf-reader/internal/exam"
)

// document is the machine readable form of one report
type document struct {
	Path        string `json:"path,omitempty" yaml:"path,omitempty"`
	exam.Record `yaml:",inline"`
}

// YAMLFormatter renders each record as a YAML document
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

func (f *YAMLFormatter) Name() string {
	return "yaml"
}

func (f *YAMLFormatter) Format(path string, rec *exam.Record, _ Options) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("no record for %s", path)
	}
	out, err := yaml.Marshal(document{Path: path, Record: *rec})
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return "---\n" + string(out), nil
}

// JSONFormatter renders each record as an indented JSON object
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) Name() string {
	return "json"
}

func (f *JSONFormatter) Format(path string, rec *exam.Record, _ Options) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("no record for %s", path)
	}
	out, err := json.MarshalIndent(document{Path: path, Record: *rec}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(out) + "\n", nil
}
