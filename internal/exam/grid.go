package exam

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	GridRows = 8
	GridCols = 9

	// belowThreshold is printed for locations that were not seen at all
	belowThreshold = "<0"
)

// Row is one padded line of the sensitivity grid
type Row [GridCols]int

// Grid is the 8×9 sensitivity map. Being an array it is copied on
// assignment, so a Record's grid cannot be changed through a returned value.
type Grid [GridRows]Row

// gridLines lists the report lines that hold grid rows, top block first
func gridLines() []int {
	idx := make([]int, 0, GridRows)
	for i := GridTopStart; i < GridTopEnd; i++ {
		idx = append(idx, i)
	}
	for i := GridBottomStart; i < GridBottomEnd; i++ {
		idx = append(idx, i)
	}
	return idx
}

// BuildGrid reads both grid blocks from lines and pads each row into
// 9 columns according to the eye the report was printed for.
func BuildGrid(lines []string, eye Eye) (Grid, error) {
	var g Grid
	if !eye.Valid() {
		return g, &ParseError{
			Type: ErrorTypeInvalidArgument, Field: "acuity_array", Line: -1,
			Message: fmt.Sprintf("got %q", string(eye)), Err: ErrInvalidEye,
		}
	}
	for i, ln := range gridLines() {
		if ln >= len(lines) {
			return g, NewStructureError("acuity_array", ln, ErrLineOutOfRange,
				fmt.Sprintf("report has %d lines", len(lines)))
		}
		row, err := BuildRow(lines[ln], eye)
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				pe.Line = ln
			}
			return g, err
		}
		g[i] = row
	}
	return g, nil
}

// BuildRow converts one printed grid row into 9 columns.
//
// The printout omits the blind-spot column, whose position depends on the
// eye. Left rows get (9-k)/2 leading zeros; right rows get the same plus
// one more whenever k != 9. Both are then zero filled on the right.
func BuildRow(text string, eye Eye) (Row, error) {
	var row Row
	if !eye.Valid() {
		return row, &ParseError{
			Type: ErrorTypeInvalidArgument, Field: "acuity_array", Line: -1,
			Message: fmt.Sprintf("got %q", string(eye)), Err: ErrInvalidEye,
		}
	}

	tokens := strings.Split(text, " ")
	k := len(tokens)

	lead := 0
	if k < GridCols {
		lead = (GridCols - k) / 2
	}
	if eye == EyeRight && k != GridCols {
		lead++
	}
	if lead+k > GridCols {
		return row, NewStructureError("acuity_array", -1, ErrRowTooWide,
			fmt.Sprintf("%d values do not fit with %d padding columns", k, lead))
	}

	for i, tok := range tokens {
		v, err := parseSensitivity(tok)
		if err != nil {
			return row, NewConversionError("acuity_array", -1, err, fmt.Sprintf("column %d", i))
		}
		row[lead+i] = v
	}
	return row, nil
}

func parseSensitivity(tok string) (int, error) {
	if tok == belowThreshold {
		return 0, nil
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, tok)
	}
	return v, nil
}

// String renders the grid one bracketed row per line
func (g Grid) String() string {
	var b strings.Builder
	b.WriteString("[")
	for i, row := range g {
		if i > 0 {
			b.WriteString("\n ")
		}
		b.WriteString("[")
		for j, v := range row {
			if j > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%2d", v)
		}
		b.WriteString("]")
	}
	b.WriteString("]")
	return b.String()
}

// ParseGridText reads back the output of Grid.String
func ParseGridText(s string) (Grid, error) {
	var g Grid
	clean := strings.NewReplacer("[", " ", "]", " ").Replace(s)
	fields := strings.Fields(clean)
	if len(fields) != GridRows*GridCols {
		return g, NewStructureError("acuity_array", -1, ErrTokenNotFound,
			fmt.Sprintf("want %d values, got %d", GridRows*GridCols, len(fields)))
	}
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return g, NewConversionError("acuity_array", -1, fmt.Errorf("%w: %q", ErrInvalidNumber, f), "grid text")
		}
		g[i/GridCols][i%GridCols] = v
	}
	return g, nil
}
