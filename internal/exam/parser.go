package exam

import (
	"fmt"
	"strconv"
)

// Parse builds a Record from the normalized lines of a report's first page.
// The first layout assumption that does not hold is returned as a
// *ParseError and no partial record is produced.
func Parse(lines []string) (*Record, error) {
	raw := make(map[string]string, len(Layout))
	for _, fs := range Layout {
		v, err := fs.Extract(lines)
		if err != nil {
			return nil, err
		}
		raw[fs.Name] = v
	}

	last, first, err := SplitName(raw["name"])
	if err != nil {
		return nil, err
	}

	age, err := strconv.Atoi(raw["age"])
	if err != nil {
		return nil, NewConversionError("age", LineAge, fmt.Errorf("%w: %q", ErrInvalidNumber, raw["age"]), "age is not an integer")
	}

	if LineLaterality >= len(lines) {
		return nil, NewStructureError("eye", LineLaterality, ErrLineOutOfRange,
			fmt.Sprintf("report has %d lines", len(lines)))
	}
	eye, err := ParseLaterality(lines[LineLaterality])
	if err != nil {
		return nil, err
	}

	grid, err := BuildGrid(lines, eye)
	if err != nil {
		return nil, err
	}

	return &Record{
		Name:            raw["name"],
		LastName:        last,
		FirstName:       first,
		ID:              raw["id"],
		Age:             age,
		FixationMonitor: raw["fixation_monitor"],
		FixationTarget:  raw["fixation_target"],
		FixationLosses:  raw["fixation_losses"],
		FalsePosErrors:  raw["false_pos_errors"],
		FalseNegErrors:  raw["false_neg_errors"],
		TestDuration:    raw["test_duration"],
		Forvea:          raw["forvea"],
		GHT:             raw["ght"],
		VFI:             raw["vfi"],
		MD:              raw["md"],
		PSD:             raw["psd"],
		Eye:             eye,
		AcuityArray:     grid,
	}, nil
}
