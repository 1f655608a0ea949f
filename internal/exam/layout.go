package exam

import (
	"fmt"
	"strings"
)

// Fixed line indices of the single-page report. The device prints every
// field at the same position, so these are the whole layout contract.
const (
	LineName            = 0
	LineID              = 3
	LineLaterality      = 6
	LineFixationMonitor = 7
	LineFixationTarget  = 8
	LineFixationLosses  = 9
	LineAge             = 9
	LineFalsePosErrors  = 10
	LineFalseNegErrors  = 11
	LineTestDuration    = 12
	LineForvea          = 13
	LineGHT             = 29
	LineVFI             = 32
	LineMD              = 33
	LinePSD             = 34
)

// Grid block bounds as half-open line ranges
const (
	GridTopStart    = 14
	GridTopEnd      = 18
	GridBottomStart = 19
	GridBottomEnd   = 23
)

// Rule extracts a raw string value from a single normalized line
type Rule struct {
	Desc  string
	Apply func(line string) (string, error)
}

// FieldSpec binds a named field to a line index and an extraction rule
type FieldSpec struct {
	Name string
	Line int
	Rule Rule
}

// Extract applies the rule to its line, reporting failures against the field
func (s FieldSpec) Extract(lines []string) (string, error) {
	if s.Line < 0 || s.Line >= len(lines) {
		return "", NewStructureError(s.Name, s.Line, ErrLineOutOfRange,
			fmt.Sprintf("report has %d lines", len(lines)))
	}
	v, err := s.Rule.Apply(lines[s.Line])
	if err != nil {
		return "", NewStructureError(s.Name, s.Line, err, s.Rule.Desc)
	}
	return v, nil
}

// Layout is the ordered table of string fields read from a report.
// Name decomposition, age conversion, laterality and the grid are handled
// on top of the raw values it yields.
var Layout = []FieldSpec{
	{Name: "name", Line: LineName, Rule: AfterFirst(" ")},
	{Name: "id", Line: LineID, Rule: Token(2)},
	{Name: "age", Line: LineAge, Rule: LastToken()},
	{Name: "fixation_monitor", Line: LineFixationMonitor, Rule: Token(2)},
	{Name: "fixation_target", Line: LineFixationTarget, Rule: Token(2)},
	{Name: "fixation_losses", Line: LineFixationLosses, Rule: Token(2)},
	{Name: "false_pos_errors", Line: LineFalsePosErrors, Rule: Between(":", 2, "%")},
	{Name: "false_neg_errors", Line: LineFalseNegErrors, Rule: Between(":", 2, "%")},
	{Name: "test_duration", Line: LineTestDuration, Rule: Slice(15, 20)},
	{Name: "forvea", Line: LineForvea, Rule: From(7)},
	{Name: "ght", Line: LineGHT, Rule: SplitPart(": ", 1)},
	{Name: "vfi", Line: LineVFI, Rule: SplitPart(": ", 1)},
	{Name: "md", Line: LineMD, Rule: Through(SplitPart("MD: ", 1), "B")},
	{Name: "psd", Line: LinePSD, Rule: Through(SplitPart(": ", 1), "B")},
}

// FieldsOnLine names the fields read from line index i
func FieldsOnLine(i int) []string {
	var names []string
	for _, s := range Layout {
		if s.Line == i {
			names = append(names, s.Name)
		}
	}
	if i == LineLaterality {
		names = append(names, "eye")
	}
	if (i >= GridTopStart && i < GridTopEnd) || (i >= GridBottomStart && i < GridBottomEnd) {
		names = append(names, "acuity_array")
	}
	return names
}

// AfterFirst keeps everything after the first occurrence of sep
func AfterFirst(sep string) Rule {
	return Rule{
		Desc: fmt.Sprintf("text after first %q", sep),
		Apply: func(line string) (string, error) {
			_, after, ok := strings.Cut(line, sep)
			if !ok {
				return "", fmt.Errorf("%w: %q", ErrDelimiterNotFound, sep)
			}
			return after, nil
		},
	}
}

// Token returns the n-th (zero based) single-space separated token
func Token(n int) Rule {
	return Rule{
		Desc: fmt.Sprintf("token %d", n),
		Apply: func(line string) (string, error) {
			tokens := strings.Split(line, " ")
			if n >= len(tokens) {
				return "", fmt.Errorf("%w: want token %d, line has %d", ErrTokenNotFound, n, len(tokens))
			}
			return tokens[n], nil
		},
	}
}

// LastToken returns the trailing single-space separated token
func LastToken() Rule {
	return Rule{
		Desc: "last token",
		Apply: func(line string) (string, error) {
			tokens := strings.Split(line, " ")
			return tokens[len(tokens)-1], nil
		},
	}
}

// Between returns the text starting skip characters after the first open
// delimiter up to and including the first close delimiter.
func Between(openDelim string, skip int, closeDelim string) Rule {
	return Rule{
		Desc: fmt.Sprintf("text from %q+%d through %q", openDelim, skip, closeDelim),
		Apply: func(line string) (string, error) {
			start := strings.Index(line, openDelim)
			if start < 0 {
				return "", fmt.Errorf("%w: %q", ErrDelimiterNotFound, openDelim)
			}
			end := strings.Index(line, closeDelim)
			if end < 0 {
				return "", fmt.Errorf("%w: %q", ErrDelimiterNotFound, closeDelim)
			}
			start += skip
			end += len(closeDelim)
			if start > end || start > len(line) {
				return "", fmt.Errorf("%w: [%d:%d]", ErrSliceOutOfRange, start, end)
			}
			return line[start:end], nil
		},
	}
}

// Slice returns the fixed character range [start:end]
func Slice(start, end int) Rule {
	return Rule{
		Desc: fmt.Sprintf("characters [%d:%d]", start, end),
		Apply: func(line string) (string, error) {
			if end > len(line) {
				return "", fmt.Errorf("%w: [%d:%d] of %d characters", ErrSliceOutOfRange, start, end, len(line))
			}
			return line[start:end], nil
		},
	}
}

// From returns the text starting at a fixed character offset
func From(start int) Rule {
	return Rule{
		Desc: fmt.Sprintf("characters [%d:]", start),
		Apply: func(line string) (string, error) {
			if start > len(line) {
				return "", fmt.Errorf("%w: [%d:] of %d characters", ErrSliceOutOfRange, start, len(line))
			}
			return line[start:], nil
		},
	}
}

// SplitPart splits on sep and returns part n
func SplitPart(sep string, n int) Rule {
	return Rule{
		Desc: fmt.Sprintf("part %d split on %q", n, sep),
		Apply: func(line string) (string, error) {
			parts := strings.Split(line, sep)
			if n >= len(parts) {
				return "", fmt.Errorf("%w: %q", ErrDelimiterNotFound, sep)
			}
			return parts[n], nil
		},
	}
}

// Through truncates the result of inner after the first occurrence of sep
func Through(inner Rule, sep string) Rule {
	return Rule{
		Desc: fmt.Sprintf("%s, through first %q", inner.Desc, sep),
		Apply: func(line string) (string, error) {
			v, err := inner.Apply(line)
			if err != nil {
				return "", err
			}
			i := strings.Index(v, sep)
			if i < 0 {
				return "", fmt.Errorf("%w: %q", ErrDelimiterNotFound, sep)
			}
			return v[:i+len(sep)], nil
		},
	}
}
