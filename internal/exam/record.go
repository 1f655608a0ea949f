package exam

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is one parsed visual field report. It is fully populated by
// Parse and nothing in this module modifies it afterwards. The fields stay
// exported for the JSON and YAML encoders, so callers must treat a Record
// as read-only. Grid returns a copy of the grid.
type Record struct {
	Name      string `json:"name" yaml:"name"`
	LastName  string `json:"last_name" yaml:"last_name"`
	FirstName string `json:"first_name" yaml:"first_name"`
	ID        string `json:"id" yaml:"id"`
	Age       int    `json:"age" yaml:"age"`

	FixationMonitor string `json:"fixation_monitor" yaml:"fixation_monitor"`
	FixationTarget  string `json:"fixation_target" yaml:"fixation_target"`
	FixationLosses  string `json:"fixation_losses" yaml:"fixation_losses"`
	FalsePosErrors  string `json:"false_pos_errors" yaml:"false_pos_errors"`
	FalseNegErrors  string `json:"false_neg_errors" yaml:"false_neg_errors"`
	TestDuration    string `json:"test_duration" yaml:"test_duration"`
	Forvea          string `json:"forvea" yaml:"forvea"`

	GHT string `json:"ght" yaml:"ght"`
	VFI string `json:"vfi" yaml:"vfi"`
	MD  string `json:"md" yaml:"md"`
	PSD string `json:"psd" yaml:"psd"`

	Eye         Eye  `json:"eye" yaml:"eye"`
	AcuityArray Grid `json:"acuity_array" yaml:"acuity_array,flow"`
}

// Field is a single named value in print order
type Field struct {
	Name  string
	Value string
}

// Fields lists every extracted value in a fixed order
func (r *Record) Fields() []Field {
	return []Field{
		{"name", r.Name},
		{"last_name", r.LastName},
		{"first_name", r.FirstName},
		{"id", r.ID},
		{"age", strconv.Itoa(r.Age)},
		{"fixation_monitor", r.FixationMonitor},
		{"fixation_target", r.FixationTarget},
		{"fixation_losses", r.FixationLosses},
		{"false_pos_errors", r.FalsePosErrors},
		{"false_neg_errors", r.FalseNegErrors},
		{"test_duration", r.TestDuration},
		{"forvea", r.Forvea},
		{"ght", r.GHT},
		{"vfi", r.VFI},
		{"md", r.MD},
		{"psd", r.PSD},
		{"eye", string(r.Eye)},
	}
}

// Grid returns a copy of the sensitivity grid
func (r *Record) Grid() Grid {
	return r.AcuityArray
}

// Label is a short one-line description of the record
func (r *Record) Label() string {
	return fmt.Sprintf("Patient %s's %s eye data", r.ID, r.Eye)
}

// String returns the summary block printed for each report
func (r *Record) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Patient ID: %s\n", r.ID)
	fmt.Fprintf(&b, "Patient Age: %d\n", r.Age)
	fmt.Fprintf(&b, "Patient Name: %s\n\n", r.Name)
	fmt.Fprintf(&b, "Visual fields of %s eye\n", r.Eye)
	b.WriteString(r.AcuityArray.String())
	b.WriteString("\n")
	return b.String()
}
