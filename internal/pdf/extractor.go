package pdf

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/a3tai/vf-reader/internal/exam"
)

// Text layout strategies for turning a page into lines
const (
	StrategyRows  = "rows"
	StrategyPlain = "plain"
)

var spaceRun = regexp.MustCompile(" +")

// Extractor converts the first page of a PDF into normalized text lines
type Extractor struct {
	strategy string
	echo     io.Writer
}

// NewExtractor creates an extractor. A non-nil echo receives every
// normalized line as it is produced.
func NewExtractor(strategy string, echo io.Writer) *Extractor {
	if strategy != StrategyPlain {
		strategy = StrategyRows
	}
	return &Extractor{
		strategy: strategy,
		echo:     echo,
	}
}

// ExtractLines reads the first page of the document at path. Further pages
// are ignored. The file is closed before returning.
func (e *Extractor) ExtractLines(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, &exam.ParseError{
			Type: exam.ErrorTypeConversion, Line: -1, Path: path,
			Message: "failed to open PDF", Err: err,
		}
	}
	defer f.Close()

	if r.NumPage() < 1 {
		return nil, &exam.ParseError{
			Type: exam.ErrorTypeConversion, Line: -1, Path: path,
			Message: "cannot read first page", Err: exam.ErrNoPages,
		}
	}

	page := r.Page(1)
	if page.V.IsNull() {
		return nil, &exam.ParseError{
			Type: exam.ErrorTypeConversion, Line: -1, Path: path,
			Message: "first page is empty", Err: exam.ErrNoPages,
		}
	}

	text, err := e.pageText(page)
	if err != nil {
		return nil, &exam.ParseError{
			Type: exam.ErrorTypeConversion, Line: -1, Path: path,
			Message: "failed to extract text content", Err: err,
		}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &exam.ParseError{
			Type: exam.ErrorTypeConversion, Line: -1, Path: path,
			Message: "first page has no text", Err: exam.ErrNoText,
		}
	}

	lines := NormalizeLines(text)
	if e.echo != nil {
		for _, line := range lines {
			fmt.Fprintln(e.echo, line)
		}
	}
	return lines, nil
}

func (e *Extractor) pageText(page pdf.Page) (string, error) {
	if e.strategy == StrategyPlain {
		return page.GetPlainText(nil)
	}

	rows, err := pageRows(page)
	if err != nil || len(rows) == 0 {
		// Fallback to plain text if row grouping fails
		return page.GetPlainText(nil)
	}
	return strings.Join(rows, "\n") + "\n", nil
}

// pageRows rebuilds the lines of page from its positioned glyphs, top to
// bottom. Glyphs whose baselines are within rowTolerance of each other share
// a row.
func pageRows(page pdf.Page) (rows []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read page content: %v", r)
		}
	}()
	return groupRows(page.Content().Text), nil
}

func groupRows(texts []pdf.Text) []string {
	glyphs := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if t.S == "\n" || t.S == "\r" || t.S == "" {
			continue
		}
		glyphs = append(glyphs, t)
	}
	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].Y > glyphs[j].Y })

	var rows []string
	for start := 0; start < len(glyphs); {
		end := start + 1
		for end < len(glyphs) && glyphs[start].Y-glyphs[end].Y <= rowTolerance(glyphs[start].FontSize) {
			end++
		}
		row := glyphs[start:end]
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
		rows = append(rows, joinRow(row))
		start = end
	}
	return rows
}

// joinRow concatenates the glyphs of one row from left to right. A space is
// inserted only where the gap to the previous glyph is wider than a
// fraction of the font size. Without a width the gap is measured from the
// previous glyph's origin.
func joinRow(row []pdf.Text) string {
	var b strings.Builder
	for i, t := range row {
		if i > 0 {
			prev := row[i-1]
			if t.X-(prev.X+prev.W) > spaceThreshold(prev.FontSize) {
				b.WriteString(" ")
			}
		}
		b.WriteString(t.S)
	}
	return b.String()
}

func spaceThreshold(fontSize float64) float64 {
	if fontSize <= 0 {
		fontSize = 12
	}
	return fontSize * 0.2
}

func rowTolerance(fontSize float64) float64 {
	if fontSize <= 0 {
		fontSize = 12
	}
	return fontSize * 0.3
}

// NormalizeLines splits text into lines, trims each one and collapses runs
// of interior spaces into a single space.
func NormalizeLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	raw := strings.Split(strings.TrimRight(text, "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		line = spaceRun.ReplaceAllString(line, " ")
		lines = append(lines, line)
	}
	return lines
}
