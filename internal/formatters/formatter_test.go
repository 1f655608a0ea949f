package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/a3tai/vf-reader/internal/exam"
)

func sampleRecord() *exam.Record {
	rec := &exam.Record{
		Name:           "SMITH.JOHN.",
		LastName:       "Smith",
		FirstName:      "John",
		ID:             "998877",
		Age:            45,
		FixationTarget: "Central",
		MD:             "-3.21 dB",
		Eye:            exam.EyeLeft,
	}
	rec.AcuityArray[0] = exam.Row{0, 0, 21, 22, 23, 24, 0, 0, 0}
	rec.AcuityArray[7][8] = 30
	return rec
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"json", "text", "yaml"}, r.List())

	f, err := r.Get("yaml")
	require.NoError(t, err)
	assert.Equal(t, "yaml", f.Name())

	_, err = r.Get("xml")
	assert.Error(t, err)
}

func TestTextFormatter_Summary(t *testing.T) {
	out, err := NewTextFormatter().Format("", sampleRecord(), Options{NoColor: true})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Patient ID: 998877\nPatient Age: 45\nPatient Name: SMITH.JOHN.\n\n"))
	assert.Contains(t, out, "Visual fields of left eye\n")
	assert.Contains(t, out, "[ 0  0 21 22 23 24  0  0  0]")
	assert.NotContains(t, out, "fixation_target:")
	assert.NotContains(t, out, "\x1b[")
}

func TestTextFormatter_Detailed(t *testing.T) {
	out, err := NewTextFormatter().Format("/tmp/a.pdf", sampleRecord(), Options{Detailed: true, NoColor: true})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "== /tmp/a.pdf ==\n"))
	assert.Contains(t, out, "fixation_target: Central\n")
	assert.Contains(t, out, "md: -3.21 dB\n")
	assert.Contains(t, out, "eye: left\n")
	assert.Less(t, strings.Index(out, "last_name: Smith"), strings.Index(out, "eye: left"))
}

func TestTextFormatter_Color(t *testing.T) {
	out, err := NewTextFormatter().Format("", sampleRecord(), Options{})
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")
}

func TestTextFormatter_NilRecord(t *testing.T) {
	_, err := NewTextFormatter().Format("x.pdf", nil, Options{})
	assert.Error(t, err)
	_, err = NewYAMLFormatter().Format("x.pdf", nil, Options{})
	assert.Error(t, err)
	_, err = NewJSONFormatter().Format("x.pdf", nil, Options{})
	assert.Error(t, err)
}

func TestYAMLFormatter(t *testing.T) {
	out, err := NewYAMLFormatter().Format("a.pdf", sampleRecord(), Options{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "---\n"))

	var got map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(strings.TrimPrefix(out, "---\n")), &got))
	assert.Equal(t, "a.pdf", got["path"])
	assert.Equal(t, "998877", got["id"])
	assert.Equal(t, 45, got["age"])
	assert.Equal(t, "left", got["eye"])

	grid, ok := got["acuity_array"].([]interface{})
	require.True(t, ok)
	assert.Len(t, grid, exam.GridRows)

	// keys follow the field declaration order
	assert.Less(t, strings.Index(out, "name:"), strings.Index(out, "psd:"))
}

func TestJSONFormatter(t *testing.T) {
	out, err := NewJSONFormatter().Format("a.pdf", sampleRecord(), Options{})
	require.NoError(t, err)

	var got struct {
		Path        string  `json:"path"`
		ID          string  `json:"id"`
		Eye         string  `json:"eye"`
		AcuityArray [][]int `json:"acuity_array"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "a.pdf", got.Path)
	assert.Equal(t, "998877", got.ID)
	assert.Equal(t, "left", got.Eye)
	require.Len(t, got.AcuityArray, exam.GridRows)
	assert.Equal(t, 30, got.AcuityArray[7][8])
	assert.Equal(t, 21, got.AcuityArray[0][2])
}
