// Package pdftest writes small single-page report PDFs for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"strings"
)

// GridRows are eight full rows numbered 1..72
var GridRows = []string{
	"1 2 3 4 5 6 7 8 9",
	"10 11 12 13 14 15 16 17 18",
	"19 20 21 22 23 24 25 26 27",
	"28 29 30 31 32 33 34 35 36",
	"37 38 39 40 41 42 43 44 45",
	"46 47 48 49 50 51 52 53 54",
	"55 56 57 58 59 60 61 62 63",
	"64 65 66 67 68 69 70 71 72",
}

// ReportLines returns a 35 line report in the device layout. laterality is
// printed on line 6, for example "OD RIGHT EYE".
func ReportLines(laterality string) []string {
	lines := []string{
		"12345 SMITH.JOHN.",
		"Central 24-2 Threshold Test",
		"Date of Birth: 01-02-1980",
		"ID : 998877",
		"Gender: Male",
		"Stimulus: III, White",
		laterality,
		"Fixation Monitor: Gaze/Blindspot",
		"Fixation Target: Central",
		"Fixation Losses: 2/14 Age: 45",
		"False POS Errors: 3 %",
		"False NEG Errors: 12 %",
		"Test Duration: 05:32",
		"Fovea: 35 dB",
	}
	lines = append(lines, GridRows[:4]...)
	lines = append(lines, "30 0")
	lines = append(lines, GridRows[4:]...)
	for len(lines) < 29 {
		lines = append(lines, fmt.Sprintf("Total Deviation %d", len(lines)))
	}
	lines = append(lines,
		"GHT: Outside Normal Limits",
		"Pattern Deviation",
		"Probability Plots",
		"VFI: 87%",
		"MD: -3.21 dB P < 5%",
		"PSD: 2.45 dB P < 10%",
	)
	return lines
}

// WriteTextPDF writes a one page PDF printing each line below the previous
// one. Additional pages carry the text of extra, when given.
func WriteTextPDF(path string, lines []string, extra ...[]string) error {
	pages := append([][]string{lines}, extra...)
	return os.WriteFile(path, Build(pages), 0o644)
}

// Build returns the bytes of a PDF with one page per entry of pages
func Build(pages [][]string) []byte {
	contents := make([]string, len(pages))
	for i, page := range pages {
		contents[i] = pageContent(page)
	}
	return BuildContent(contents...)
}

// WriteContentPDF writes a PDF whose pages use the given raw content
// streams. The font resource is F1. With no contents the document has no
// pages at all.
func WriteContentPDF(path string, contents ...string) error {
	return os.WriteFile(path, BuildContent(contents...), 0o644)
}

// BuildContent returns the bytes of a PDF with one page per content stream.
// F1 is Helvetica with every printable character 500 units wide.
func BuildContent(contents ...string) []byte {
	n := len(contents)
	fontObj := 3 + 2*n
	objects := make([]string, 0, fontObj)

	kids := make([]string, n)
	for i := range contents {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n),
	)
	for i, content := range contents {
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R "+
				"/Resources << /Font << /F1 %d 0 R >> >> >>", 4+2*i, fontObj),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}
	objects = append(objects, fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica "+
		"/Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [%s] >>",
		strings.TrimSpace(strings.Repeat("500 ", 126-32+1))))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func pageContent(lines []string) string {
	var b strings.Builder
	b.WriteString("BT\n/F1 10 Tf\n")
	for i, line := range lines {
		fmt.Fprintf(&b, "1 0 0 1 50 %d Tm\n(%s) Tj\nT*\n", 760-14*i, escape(line))
	}
	b.WriteString("ET")
	return b.String()
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`)
	return r.Replace(s)
}
