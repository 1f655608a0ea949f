package formatters

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/a3tai/vf-reader/internal/exam"
)

// TextFormatter renders the human readable report block
type TextFormatter struct {
	header *color.Color
	label  *color.Color
	left   *color.Color
	right  *color.Color
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{
		header: color.New(color.FgWhite, color.Bold),
		label:  color.New(color.FgCyan),
		left:   color.New(color.FgGreen, color.Bold),
		right:  color.New(color.FgMagenta, color.Bold),
	}
}

func (f *TextFormatter) Name() string {
	return "text"
}

// Format prints patient ID, age, name, eye and the grid. In detailed mode
// every field is listed as "name: value" before the grid.
func (f *TextFormatter) Format(path string, rec *exam.Record, options Options) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("no record for %s", path)
	}
	f.setColor(!options.NoColor)

	var b strings.Builder
	if path != "" {
		b.WriteString(f.header.Sprintf("== %s ==", path))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%s %s\n", f.label.Sprint("Patient ID:"), rec.ID)
	fmt.Fprintf(&b, "%s %d\n", f.label.Sprint("Patient Age:"), rec.Age)
	fmt.Fprintf(&b, "%s %s\n\n", f.label.Sprint("Patient Name:"), rec.Name)

	if options.Detailed {
		for _, field := range rec.Fields() {
			fmt.Fprintf(&b, "%s: %s\n", field.Name, field.Value)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Visual fields of %s eye\n", f.eyeColor(rec.Eye).Sprint(rec.Eye))
	b.WriteString(rec.Grid().String())
	b.WriteString("\n")
	return b.String(), nil
}

func (f *TextFormatter) eyeColor(eye exam.Eye) *color.Color {
	if eye == exam.EyeLeft {
		return f.left
	}
	return f.right
}

func (f *TextFormatter) setColor(enabled bool) {
	for _, c := range []*color.Color{f.header, f.label, f.left, f.right} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}
